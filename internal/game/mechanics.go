/*
Package game
File: mechanics.go
Description:
    Read-only queries over a State: ownership, affordability, lookups,
    fuzzy name search and history replay. None of these change the State;
    the API uses them to decide which actions to offer.
*/

package game

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// IsOwned reports whether an item with the same id is in the inventory.
func (s State) IsOwned(item Item) bool {
	for _, it := range s.Inventory {
		if it.ID == item.ID {
			return true
		}
	}
	return false
}

// CanAfford reports whether the session has enough gold to buy item.
func (s State) CanAfford(item Item) bool {
	return s.Gold >= item.Gold.Total
}

// CanUndo reports whether Undo would succeed.
func (s State) CanUndo() bool {
	return len(s.History) > 0
}

// Find returns the catalog item with the given id, or nil if not found.
func (s State) Find(id int) *Item {
	for i := range s.Catalog {
		if s.Catalog[i].ID == id {
			it := s.Catalog[i]
			return &it
		}
	}
	return nil
}

// Replay rebuilds gold and inventory by applying history to an empty
// inventory holding startingGold.
func Replay(startingGold int, history []HistoryEntry) (int, []Item) {
	gold := startingGold
	inventory := []Item{}
	for _, e := range history {
		switch e.Kind {
		case KindPurchase:
			gold -= e.GoldDelta
			inventory = appendItem(inventory, e.Item)
		case KindSell:
			gold += e.GoldDelta
			inventory = removeItem(inventory, e.Item.ID)
		}
	}
	return gold, inventory
}

// searchLimit scales the tolerated edit distance with the query length,
// so short queries do not match everything.
func searchLimit(length int) int {
	switch {
	case length <= 3:
		return 0
	case length <= 6:
		return 1
	default:
		return 2
	}
}

// Search returns catalog items whose name contains query, or whose name (or
// one of its words) is within a small edit distance of it. Substring matches
// come first, then fuzzy matches by distance; ties keep catalog order.
func Search(catalog []Item, query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Item{}
	}

	type hit struct {
		item  Item
		score int
		order int
	}
	hits := []hit{}
	limit := searchLimit(len(q))

	for i, it := range catalog {
		name := strings.ToLower(it.Name)
		if strings.Contains(name, q) {
			hits = append(hits, hit{item: it, score: -1, order: i})
			continue
		}
		best := levenshtein.ComputeDistance(q, name)
		for _, word := range strings.Fields(name) {
			if d := levenshtein.ComputeDistance(q, word); d < best {
				best = d
			}
		}
		if best <= limit {
			hits = append(hits, hit{item: it, score: best, order: i})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score < hits[b].score
		}
		return hits[a].order < hits[b].order
	})

	out := make([]Item, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.item)
	}
	return out
}
