package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDispatch(t *testing.T) {
	store := NewStore(DefaultStartingGold, 0)
	item := priced(1, 500, 250)

	_, err := store.Dispatch(SetCatalog{Items: []Item{item}})
	require.NoError(t, err)

	snap, err := store.Dispatch(Purchase{Item: item})
	require.NoError(t, err)
	assert.Equal(t, 19500, snap.Gold)
	assert.True(t, snap.CanUndo)
	assert.Equal(t, store.SessionID(), snap.SessionID)

	snap, err = store.Dispatch(Undo{})
	require.NoError(t, err)
	assert.Equal(t, 20000, snap.Gold)
	assert.False(t, snap.CanUndo)

	snap, err = store.Dispatch(Undo{})
	require.ErrorIs(t, err, ErrEmptyHistory)
	assert.Equal(t, 20000, snap.Gold)
}

func TestStoreHistoryLimitDropsOldest(t *testing.T) {
	store := NewStore(10000, 2)
	items := []Item{priced(1, 100, 70), priced(2, 200, 140), priced(3, 300, 210)}

	for _, it := range items {
		_, err := store.Dispatch(Purchase{Item: it})
		require.NoError(t, err)
	}

	snap := store.Snapshot()
	require.Len(t, snap.History, 2)
	assert.Equal(t, 2, snap.History[0].Item.ID)
	assert.Equal(t, 3, snap.History[1].Item.ID)
	assert.Len(t, snap.Inventory, 3)
	assert.Equal(t, 9400, snap.Gold)

	for i := 0; i < 2; i++ {
		_, err := store.Dispatch(Undo{})
		require.NoError(t, err)
	}
	_, err := store.Dispatch(Undo{})
	require.ErrorIs(t, err, ErrEmptyHistory)

	snap = store.Snapshot()
	assert.Equal(t, 9900, snap.Gold)
	require.Len(t, snap.Inventory, 1)
	assert.Equal(t, 1, snap.Inventory[0].ID)
}

func TestStoreResetKeepsCatalog(t *testing.T) {
	store := NewStore(DefaultStartingGold, 0)
	item := priced(1, 500, 250)
	_, err := store.Dispatch(SetCatalog{Items: []Item{item}})
	require.NoError(t, err)
	_, err = store.Dispatch(Purchase{Item: item})
	require.NoError(t, err)

	oldID := store.SessionID()
	snap := store.Reset()

	assert.NotEqual(t, oldID, snap.SessionID)
	assert.Equal(t, DefaultStartingGold, snap.Gold)
	assert.Empty(t, snap.Inventory)
	assert.Empty(t, snap.History)
	assert.Len(t, store.Catalog(), 1)
}

func TestStoreSnapshotsAreIsolated(t *testing.T) {
	store := NewStore(1000, 0)
	item := priced(1, 100, 70)
	_, err := store.Dispatch(Purchase{Item: item})
	require.NoError(t, err)

	snap := store.Snapshot()
	snap.Inventory[0].Name = "mutated"
	st := store.State()
	st.Inventory = append(st.Inventory, priced(2, 1, 1))

	assert.Equal(t, "item", store.Snapshot().Inventory[0].Name)
	assert.Len(t, store.State().Inventory, 1)
}

func TestStoreConcurrentDispatch(t *testing.T) {
	items := make([]Item, 0, 20)
	for i := 1; i <= 20; i++ {
		items = append(items, priced(i, 100, 50))
	}
	store := NewStore(1000, 0)

	var wg sync.WaitGroup
	for _, it := range items {
		wg.Add(1)
		go func(it Item) {
			defer wg.Done()
			store.Dispatch(Transact{Item: it})
		}(it)
	}
	wg.Wait()

	snap := store.Snapshot()
	assert.Equal(t, 0, snap.Gold)
	assert.Len(t, snap.Inventory, 10)
	assert.Len(t, snap.History, 10)
}

func TestStoreGroupsRecomputed(t *testing.T) {
	store := NewStore(0, 0)
	assert.Empty(t, store.Groups().Boots)

	_, err := store.Dispatch(SetCatalog{Items: []Item{{ID: 1001, Name: "Boots", Tags: []string{"Boots"}}}})
	require.NoError(t, err)
	assert.Len(t, store.Groups().Boots, 1)
}

func TestStoreReportsUnaffordablePurchase(t *testing.T) {
	store := NewStore(100, 0)
	item := priced(1, 500, 250)

	for _, a := range []Action{Purchase{Item: item}, Transact{Item: item}} {
		snap, err := store.Dispatch(a)
		require.ErrorIs(t, err, ErrInsufficientGold)
		assert.Equal(t, 100, snap.Gold)
		assert.Empty(t, snap.Inventory)
		assert.False(t, snap.CanUndo)
	}
}

func TestStoreRacingPurchasesReportLoser(t *testing.T) {
	store := NewStore(500, 0)
	items := []Item{priced(1, 500, 250), priced(2, 500, 250)}

	errs := make(chan error, len(items))
	var wg sync.WaitGroup
	for _, it := range items {
		wg.Add(1)
		go func(it Item) {
			defer wg.Done()
			_, err := store.Dispatch(Purchase{Item: it})
			errs <- err
		}(it)
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		require.ErrorIs(t, err, ErrInsufficientGold)
		lost++
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
	assert.Equal(t, 0, store.Snapshot().Gold)
}
