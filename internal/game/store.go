/*
Package game
File: store.go
Description:
    Store is the single owner of the live session State.
    HTTP handlers run concurrently, so every dispatch holds the write lock
    and every read works on a snapshot copy. Nothing else holds a reference
    to the live State.
*/

package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Snapshot is a read-only view of the session handed to the display layer.
type Snapshot struct {
	SessionID string         `json:"session_id"`
	Gold      int            `json:"gold"`
	Selected  *Item          `json:"selected"`
	Inventory []Item         `json:"inventory"`
	History   []HistoryEntry `json:"history"`
	CanUndo   bool           `json:"can_undo"`
}

// Store serializes transitions on one session.
type Store struct {
	mu           sync.RWMutex // Guards every field below
	sessionID    uuid.UUID    // Regenerated by Reset
	state        State        // The live session; never handed out directly
	startingGold int          // Budget restored by Reset
	historyLimit int          // 0 keeps the whole history
}

// NewStore starts a session with startingGold.
// historyLimit caps the undo log; the oldest entries are dropped first.
func NewStore(startingGold, historyLimit int) *Store {
	return &Store{
		sessionID:    uuid.New(),
		state:        NewState(startingGold),
		startingGold: startingGold,
		historyLimit: historyLimit,
	}
}

// Dispatch applies a to the live state and returns the resulting snapshot.
// A purchase the session cannot afford leaves the state as is and is
// reported as ErrInsufficientGold, checked under the same lock that applies it.
func (st *Store) Dispatch(a Action) (Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	// 1. Run the reducer on the live state
	next, err := Reduce(st.state, a)
	if err != nil {
		return st.snapshotLocked(), err
	}

	// 2. Every applied transaction grows the history by one entry
	if isTransaction(a) && len(next.History) == len(st.state.History) {
		return st.snapshotLocked(), fmt.Errorf("%s: %w", ActionName(a), ErrInsufficientGold)
	}

	// 3. Enforce the undo cap, oldest first
	if st.historyLimit > 0 && len(next.History) > st.historyLimit {
		next.History = cloneHistory(next.History[len(next.History)-st.historyLimit:])
	}
	st.state = next
	return st.snapshotLocked(), nil
}

// Reset discards the session and starts a new one. The catalog is kept.
func (st *Store) Reset() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()

	catalog := st.state.Catalog
	st.state = NewState(st.startingGold)
	st.state.Catalog = catalog
	st.sessionID = uuid.New()
	return st.snapshotLocked()
}

// State returns a copy of the live state.
func (st *Store) State() State {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s := st.state
	s.Catalog = cloneItems(st.state.Catalog)
	s.Inventory = cloneItems(st.state.Inventory)
	s.History = cloneHistory(st.state.History)
	return s
}

// Snapshot returns the session view without the catalog.
func (st *Store) Snapshot() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snapshotLocked()
}

// Catalog returns the current catalog. Items are immutable, so the
// returned slice is a shallow copy.
func (st *Store) Catalog() []Item {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return cloneItems(st.state.Catalog)
}

// Groups classifies the current catalog. Groups are recomputed on every
// call and never cached.
func (st *Store) Groups() Groups {
	return Classify(st.Catalog())
}

// SessionID returns the id of the current session.
func (st *Store) SessionID() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessionID.String()
}

func isTransaction(a Action) bool {
	switch a.(type) {
	case Purchase, Sell, Transact:
		return true
	}
	return false
}

// Note: caller must hold mu.
func (st *Store) snapshotLocked() Snapshot {
	var selected *Item
	if st.state.Selected != nil {
		it := *st.state.Selected
		selected = &it
	}

	return Snapshot{
		SessionID: st.sessionID.String(),
		Gold:      st.state.Gold,
		Selected:  selected,
		Inventory: cloneItems(st.state.Inventory),
		History:   cloneHistory(st.state.History),
		CanUndo:   st.state.CanUndo(),
	}
}
