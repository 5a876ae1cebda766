/*
Package game
File: groups.go
Description:
    The classification engine. Splits the catalog into the six shop
    display groups using the tag and attribute rules of the item data.

    Every function here is pure: the same catalog always yields the same
    groups, in catalog order. Groups overlap; an item may land in several.
*/

package game

// Group names in display order.
const (
	GroupBoots      = "Boots"
	GroupConsumable = "Consumable"
	GroupStarter    = "Starter"
	GroupBasic      = "Basic"
	GroupEpic       = "Epic"
	GroupLegendary  = "Legendary"
)

// Groups holds one derived slice per display group.
type Groups struct {
	Boots      []Item `json:"boots"`
	Consumable []Item `json:"consumable"`
	Starter    []Item `json:"starter"`
	Basic      []Item `json:"basic"`
	Epic       []Item `json:"epic"`
	Legendary  []Item `json:"legendary"`
}

// NamedGroup pairs a display name with its items.
type NamedGroup struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Classify derives all six groups from the catalog.
func Classify(catalog []Item) Groups {
	return Groups{
		Boots:      Boots(catalog),
		Consumable: Consumables(catalog),
		Starter:    Starters(catalog),
		Basic:      Basics(catalog),
		Epic:       Epics(catalog),
		Legendary:  Legendaries(catalog),
	}
}

// Named returns the groups in display order.
func (g Groups) Named() []NamedGroup {
	return []NamedGroup{
		{Name: GroupBoots, Items: g.Boots},
		{Name: GroupConsumable, Items: g.Consumable},
		{Name: GroupStarter, Items: g.Starter},
		{Name: GroupBasic, Items: g.Basic},
		{Name: GroupEpic, Items: g.Epic},
		{Name: GroupLegendary, Items: g.Legendary},
	}
}

// filter keeps the items matching keep, preserving order.
// It never returns nil so empty groups encode as [] rather than null.
func filter(items []Item, keep func(Item) bool) []Item {
	out := []Item{}
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Boots returns every item tagged "Boots".
func Boots(catalog []Item) []Item {
	return filter(catalog, func(it Item) bool {
		return it.HasTag("Boots")
	})
}

// Consumables returns items tagged "Consumable", items without stats and
// items that are free to buy and worth nothing on sale.
func Consumables(catalog []Item) []Item {
	return filter(catalog, func(it Item) bool {
		return it.HasTag("Consumable") ||
			it.Stats == nil ||
			(it.Gold.Base == 0 && it.Gold.Sell == 0)
	})
}

// Starters returns the lane and jungle starting items, collapsed by name.
func Starters(catalog []Item) []Item {
	candidates := filter(catalog, func(it Item) bool {
		if !it.HasTag("Lane") && !it.HasTag("Jungle") {
			return false
		}
		if it.HasTag("Consumable") {
			return false
		}
		if it.From != nil || it.Gold.Base <= 0 {
			return false
		}
		// Pure damage lane items are components, not starters.
		return !(len(it.Tags) == 2 && it.HasTag("Damage") && it.HasTag("Lane"))
	})

	// First occurrence of a display name wins.
	seen := make(map[string]bool, len(candidates))
	out := []Item{}
	for _, it := range candidates {
		if seen[it.Name] {
			continue
		}
		seen[it.Name] = true
		out = append(out, it)
	}
	return out
}

// Basics returns base components that build into at least three items.
func Basics(catalog []Item) []Item {
	return filter(catalog, func(it Item) bool {
		if it.From != nil || it.HasTag("Boots") {
			return false
		}
		if len(it.Into) < 3 {
			return false
		}
		return !(it.HasTag("Mana") && it.HasTag("ManaRegen"))
	})
}

// epicHealthExclusion is the flat health value of the one tier-two item
// that must not be listed with the epics.
const epicHealthExclusion = 250

// Epics returns tier-two intermediate items.
func Epics(catalog []Item) []Item {
	return filter(catalog, func(it Item) bool {
		consumeOnFull := it.ConsumeOnFull != nil && *it.ConsumeOnFull
		if !(depthIs(it, 2) || consumeOnFull) {
			return false
		}
		if !(consumeOnFull || (it.Into != nil && it.From != nil)) {
			return false
		}
		if it.HasTag("Boots") {
			return false
		}
		if it.Stats != nil {
			if hp, ok := it.Stats["FlatHPPoolMod"]; ok && hp == epicHealthExclusion {
				return false
			}
		}
		return true
	})
}

// Legendaries returns finished items: built from components, building into nothing.
func Legendaries(catalog []Item) []Item {
	return filter(catalog, func(it Item) bool {
		if it.Into != nil || len(it.From) == 0 {
			return false
		}
		if !depthIs(it, 2) && !depthIs(it, 3) {
			return false
		}
		return !it.HasTag("Boots")
	})
}

func depthIs(it Item, depth int) bool {
	return it.Depth != nil && *it.Depth == depth
}
