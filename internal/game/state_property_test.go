package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// priceGen covers free, negative, ordinary and very large prices.
var priceGen = rapid.OneOf(
	rapid.Just(0),
	rapid.IntRange(-1000, -1),
	rapid.IntRange(1, 5000),
	rapid.IntRange(1<<30, 1<<31),
)

func catalogGen() *rapid.Generator[[]Item] {
	return rapid.Custom(func(t *rapid.T) []Item {
		n := rapid.IntRange(1, 8).Draw(t, "items")
		items := make([]Item, 0, n)
		for i := 0; i < n; i++ {
			total := priceGen.Draw(t, "total")
			items = append(items, Item{
				ID:   i + 1,
				Name: "item",
				Tags: []string{},
				Gold: Gold{Base: total, Total: total, Sell: priceGen.Draw(t, "sell"), Purchasable: true},
			})
		}
		return items
	})
}

func drawAction(t *rapid.T, items []Item) Action {
	item := rapid.SampledFrom(items).Draw(t, "item")
	switch rapid.IntRange(0, 3).Draw(t, "kind") {
	case 0:
		return Purchase{Item: item}
	case 1:
		return Sell{Item: item}
	case 2:
		return Transact{Item: item}
	default:
		return Undo{}
	}
}

// rejected lists the errors a transition may report without changing the state.
func rejected(err error) bool {
	return errors.Is(err, ErrAlreadyOwned) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, ErrNegativeGold) ||
		errors.Is(err, ErrEmptyHistory)
}

func requireInvariants(t require.TestingT, s State) {
	require.GreaterOrEqual(t, s.Gold, 0)

	seen := map[int]bool{}
	for _, it := range s.Inventory {
		require.False(t, seen[it.ID], "duplicate id %d in inventory", it.ID)
		seen[it.ID] = true
	}
}

func TestReduceProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := catalogGen().Draw(t, "catalog")
		start := NewState(rapid.IntRange(0, 20000).Draw(t, "gold"))
		start.Catalog = items

		s := start
		steps := rapid.IntRange(0, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			a := drawAction(t, items)
			next, err := Reduce(s, a)
			if err != nil {
				require.True(t, rejected(err), "unexpected error %v", err)
				require.True(t, reflect.DeepEqual(s, next), "rejected %s changed the state", ActionName(a))
				continue
			}
			requireInvariants(t, next)

			// Any applied transaction is reversed exactly by the next undo.
			if len(next.History) > len(s.History) {
				back, err := Reduce(next, Undo{})
				require.NoError(t, err)
				require.Equal(t, s.Gold, back.Gold)
				assert.ElementsMatch(t, s.Inventory, back.Inventory)
				require.Equal(t, s.History, back.History)
			}
			s = next
		}

		gold, inv := Replay(start.Gold, s.History)
		require.Equal(t, s.Gold, gold)
		assert.ElementsMatch(t, s.Inventory, inv)

		for len(s.History) > 0 {
			var err error
			s, err = Reduce(s, Undo{})
			require.NoError(t, err)
			requireInvariants(t, s)
		}
		require.Equal(t, start.Gold, s.Gold)
		require.Empty(t, s.Inventory)
	})
}

func TestReducePurchaseUnaffordableProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gold := rapid.IntRange(0, 10000).Draw(t, "gold")
		price := rapid.IntRange(gold+1, gold+10000).Draw(t, "price")
		s := NewState(gold)

		next, err := Reduce(s, Purchase{Item: priced(1, price, price/2)})
		require.NoError(t, err)
		require.True(t, reflect.DeepEqual(s, next))
	})
}
