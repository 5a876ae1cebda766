package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(id int, name string) Item {
	return Item{ID: id, Name: name}
}

func TestStateQueries(t *testing.T) {
	sword := priced(1036, 350, 245)
	s := NewState(300)
	s.Catalog = []Item{sword}

	assert.False(t, s.IsOwned(sword))
	assert.False(t, s.CanAfford(sword))
	assert.False(t, s.CanUndo())

	s.Gold = 350
	assert.True(t, s.CanAfford(sword))

	s = mustReduce(t, s, Purchase{Item: sword})
	assert.True(t, s.IsOwned(sword))
	assert.True(t, s.CanUndo())

	found := s.Find(1036)
	require.NotNil(t, found)
	assert.Equal(t, sword, *found)
	assert.Nil(t, s.Find(9999))
}

func TestFindReturnsCopy(t *testing.T) {
	s := NewState(0)
	s.Catalog = []Item{named(1, "Long Sword")}

	found := s.Find(1)
	require.NotNil(t, found)
	found.Name = "changed"
	assert.Equal(t, "Long Sword", s.Catalog[0].Name)
}

func TestReplayEmptyHistory(t *testing.T) {
	gold, inv := Replay(20000, nil)
	assert.Equal(t, 20000, gold)
	assert.Empty(t, inv)
}

func TestSearch(t *testing.T) {
	catalog := []Item{
		named(1001, "Boots"),
		named(1036, "Long Sword"),
		named(3031, "Infinity Edge"),
		named(3006, "Berserker's Greaves"),
		named(1037, "Pickaxe"),
	}

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{name: "substring", query: "sword", want: []int{1036}},
		{name: "case insensitive", query: "INFINITY", want: []int{3031}},
		{name: "typo in word", query: "infinty", want: []int{3031}},
		{name: "typo in long word", query: "berserkr's", want: []int{3006}},
		{name: "short query needs exact substring", query: "bot", want: []int{}},
		{name: "blank", query: "   ", want: []int{}},
		{name: "substring before fuzzy", query: "pickaxe", want: []int{1037}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(catalog, tt.query)))
		})
	}
}

func TestSearchOrdersByDistance(t *testing.T) {
	catalog := []Item{
		named(1, "Sheen"),
		named(2, "Shen's Bow"),
	}
	// "shen" is a substring of item 2 and one edit from item 1.
	assert.Equal(t, []int{2, 1}, ids(Search(catalog, "shen")))
}
