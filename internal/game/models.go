/*
Package game
File: models.go
Description:
    Defines the data structures used by the item shop.
    Items map directly to the normalized Data Dragon catalog entries and to the
    JSON API responses; HistoryEntry and State describe a shopping session.

    No logic is performed here; this file is strictly for type definitions.
*/

package game

// Gold holds the pricing block of an item.
type Gold struct {
	Base        int  `json:"base" validate:"gte=0"`  // Price of the item itself, without components
	Sell        int  `json:"sell" validate:"gte=0"`  // Gold refunded when the item is sold
	Total       int  `json:"total" validate:"gte=0"` // Full purchase price including components
	Purchasable bool `json:"purchasable"`            // False for items granted by other means
}

// Image is the sprite metadata published alongside each item.
type Image struct {
	Full   string `json:"full"`
	Sprite string `json:"sprite"`
	Group  string `json:"group"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
}

// Item is a single validated catalog entry. Items are immutable once loaded.
type Item struct {
	ID          int    `json:"id"`                    // Unique across the catalog
	Name        string `json:"name"`                  // Display name (not unique)
	Description string `json:"description,omitempty"` // Rich-text description
	Plaintext   string `json:"plaintext,omitempty"`   // One-line summary
	Image       Image  `json:"image"`
	Gold        Gold   `json:"gold"`

	Tags  []string           `json:"tags"`            // Set of shop labels (e.g. "Boots", "Lane")
	Stats map[string]float64 `json:"stats,omitempty"` // Nil when the catalog omits stats

	// Crafting graph edges. Nil means the field was absent; ids may dangle.
	Into []int `json:"into,omitempty"`
	From []int `json:"from,omitempty"`

	Depth         *int            `json:"depth,omitempty"`         // Tier in the build tree
	Consumed      *bool           `json:"consumed,omitempty"`      // Consumed on purchase
	ConsumeOnFull *bool           `json:"consumeOnFull,omitempty"` // Consumed when the inventory is full
	Maps          map[string]bool `json:"maps"`                    // Map id -> availability
}

// HasTag reports whether the item carries the given tag.
func (i Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HistoryKind discriminates purchase and sell entries.
type HistoryKind string

const (
	KindPurchase HistoryKind = "purchase"
	KindSell     HistoryKind = "sell"
)

func (k HistoryKind) String() string { return string(k) }

// HistoryEntry records one applied transaction.
// GoldDelta is the exact amount moved, so undo never re-reads the item price.
type HistoryEntry struct {
	Kind      HistoryKind `json:"kind"`
	Item      Item        `json:"item"`
	GoldDelta int         `json:"gold_delta"`
}

// State is the whole shopping session. It is only changed through Reduce.
type State struct {
	Catalog   []Item         `json:"catalog"`   // Sorted ascending by total price
	Selected  *Item          `json:"selected"`  // Item currently focused by the client
	Gold      int            `json:"gold"`      // Never negative
	Inventory []Item         `json:"inventory"` // Unique by id, in acquisition order
	History   []HistoryEntry `json:"history"`   // Undo log, most recent last
}

// DefaultStartingGold is the budget of a fresh session.
const DefaultStartingGold = 20000

// NewState returns the initial session state with the given budget.
func NewState(gold int) State {
	return State{
		Catalog:   []Item{},
		Gold:      gold,
		Inventory: []Item{},
		History:   []HistoryEntry{},
	}
}
