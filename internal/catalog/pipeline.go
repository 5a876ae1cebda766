/*
Package catalog
File: pipeline.go
Description:
    Filter and ordering stage. Turns decoded entries into the shop catalog:
    only purchasable items, no champion-exclusive items, no excluded ids,
    optionally only items sold on one map, sorted by total price.
*/

package catalog

import (
	"sort"

	"github.com/everforgeworks/rift-armory/internal/game"
)

// FilterOptions controls which decoded entries reach the shop.
type FilterOptions struct {
	ExcludedIDs []int  // Items that are dropped regardless of other fields
	MapID       string // When set, items unavailable on this map are dropped
}

// Build filters entries and sorts the result ascending by total price.
// Items with the same price keep id order.
func Build(entries []Entry, opts FilterOptions) []game.Item {
	excluded := make(map[int]bool, len(opts.ExcludedIDs))
	for _, id := range opts.ExcludedIDs {
		excluded[id] = true
	}

	items := make([]game.Item, 0, len(entries))
	for _, e := range entries {
		if !e.Item.Gold.Purchasable {
			continue
		}
		if e.RequiredChampion != "" {
			continue
		}
		if excluded[e.Item.ID] {
			continue
		}
		if opts.MapID != "" && !e.Item.Maps[opts.MapID] {
			continue
		}
		items = append(items, e.Item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Gold.Total < items[j].Gold.Total
	})
	return items
}
