/*
Package game
File: state.go
Description:
    The transaction state machine. Reduce applies one Action to a State and
    returns the next State; it never mutates the slices of the input, so a
    caller may keep the previous State as a snapshot.

    Purchases debit Gold.Total, sales credit Gold.Sell, and every applied
    transaction is logged in History so Undo can reverse it exactly.
*/

package game

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyHistory is returned by Undo when there is nothing to reverse.
	ErrEmptyHistory = errors.New("undo history is empty")
	// ErrAlreadyOwned is returned when purchasing an item that is in the inventory.
	ErrAlreadyOwned = errors.New("item already in inventory")
	// ErrNotOwned is returned when selling an item that is not in the inventory.
	ErrNotOwned = errors.New("item not in inventory")
	// ErrUnknownAction is returned for Action values Reduce does not handle.
	ErrUnknownAction = errors.New("unknown action")
	// ErrNegativeGold is returned when a sale or an undo would leave gold below zero.
	ErrNegativeGold = errors.New("gold would become negative")
	// ErrInsufficientGold is never returned by Reduce, which ignores a purchase
	// the session cannot afford. Store reports it so callers can tell.
	ErrInsufficientGold = errors.New("insufficient gold")
)

// Action is one event fed into Reduce.
type Action interface {
	actionName() string
}

// SetCatalog replaces the catalog wholesale. The items must already be
// validated, filtered and price-sorted by the catalog source.
type SetCatalog struct{ Items []Item }

// SelectItem focuses an item. It has no economic effect.
type SelectItem struct{ Item Item }

// Purchase buys an item that is not owned yet.
type Purchase struct{ Item Item }

// Sell sells an owned item.
type Sell struct{ Item Item }

// Transact sells the item if owned, otherwise purchases it.
type Transact struct{ Item Item }

// Undo reverses the most recent purchase or sell.
type Undo struct{}

func (SetCatalog) actionName() string { return "set_catalog" }
func (SelectItem) actionName() string { return "select_item" }
func (Purchase) actionName() string   { return "purchase" }
func (Sell) actionName() string       { return "sell" }
func (Transact) actionName() string   { return "transact" }
func (Undo) actionName() string       { return "undo" }

// ActionName returns the wire name of an action, used in logs and events.
func ActionName(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionName()
}

// Reduce applies a to s.
// On error the returned State is s, untouched.
// A purchase the session cannot afford is not an error: s is returned as is.
func Reduce(s State, a Action) (State, error) {
	switch act := a.(type) {
	case SetCatalog:
		s.Catalog = act.Items
		return s, nil

	case SelectItem:
		item := act.Item
		s.Selected = &item
		return s, nil

	case Purchase:
		return purchase(s, act.Item)

	case Sell:
		return sell(s, act.Item)

	case Transact:
		if s.IsOwned(act.Item) {
			return sell(s, act.Item)
		}
		return purchase(s, act.Item)

	case Undo:
		return undo(s)

	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}

func purchase(s State, item Item) (State, error) {
	if s.IsOwned(item) {
		return s, fmt.Errorf("purchase %d: %w", item.ID, ErrAlreadyOwned)
	}
	// Insufficient funds: rejected before any mutation.
	if !s.CanAfford(item) {
		return s, nil
	}

	delta := item.Gold.Total
	s.Gold -= delta
	s.Inventory = appendItem(s.Inventory, item)
	s.History = appendEntry(s.History, HistoryEntry{Kind: KindPurchase, Item: item, GoldDelta: delta})
	return s, nil
}

func sell(s State, item Item) (State, error) {
	if !s.IsOwned(item) {
		return s, fmt.Errorf("sell %d: %w", item.ID, ErrNotOwned)
	}

	delta := item.Gold.Sell
	if s.Gold+delta < 0 {
		return s, fmt.Errorf("sell %d: %w", item.ID, ErrNegativeGold)
	}
	s.Gold += delta
	s.Inventory = removeItem(s.Inventory, item.ID)
	s.History = appendEntry(s.History, HistoryEntry{Kind: KindSell, Item: item, GoldDelta: delta})
	return s, nil
}

func undo(s State) (State, error) {
	if len(s.History) == 0 {
		return s, ErrEmptyHistory
	}
	last := s.History[len(s.History)-1]

	switch last.Kind {
	// Gold must stay non-negative in both directions, even for states not built by Reduce.
	case KindSell:
		if s.Gold-last.GoldDelta < 0 {
			return s, fmt.Errorf("undo sell %d: %w", last.Item.ID, ErrNegativeGold)
		}
		s.Gold -= last.GoldDelta
		s.Inventory = appendItem(s.Inventory, last.Item)
	case KindPurchase:
		if s.Gold+last.GoldDelta < 0 {
			return s, fmt.Errorf("undo purchase %d: %w", last.Item.ID, ErrNegativeGold)
		}
		s.Gold += last.GoldDelta
		s.Inventory = removeItem(s.Inventory, last.Item.ID)
	default:
		return s, fmt.Errorf("undo: unknown history kind %q", last.Kind)
	}

	s.History = cloneHistory(s.History[:len(s.History)-1])
	return s, nil
}

// appendItem returns a new slice; the input backing array is never shared.
func appendItem(items []Item, item Item) []Item {
	out := make([]Item, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

func removeItem(items []Item, id int) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func appendEntry(history []HistoryEntry, e HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(history)+1)
	out = append(out, history...)
	return append(out, e)
}

func cloneHistory(history []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(history))
	copy(out, history)
	return out
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
