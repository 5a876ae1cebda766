/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the shop API.
    These functions decode JSON requests, look the item up in the catalog,
    dispatch the action to the Store and return the new session snapshot.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Does the item exist?)
    - Status mapping for Store rejections (Affordable? Owned? Anything to undo?)
    - Broadcasting the new snapshot to WebSocket clients
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/everforgeworks/rift-armory/internal/game"
)

// ItemRequest names the item an action applies to.
type ItemRequest struct {
	ItemID int `json:"item_id"` // Catalog id, e.g. 1001 for Boots
}

// QuoteResponse tells the display what the transact button would do.
type QuoteResponse struct {
	ItemID    int    `json:"item_id"`
	Owned     bool   `json:"owned"`
	CanAfford bool   `json:"can_afford"`
	Price     int    `json:"price"`
	SellValue int    `json:"sell_value"`
	Action    string `json:"action"` // "purchase", "sell" or "" when neither is possible
}

// CatalogStatus reports the outcome of the last catalog load.
type CatalogStatus struct {
	Loaded bool   `json:"loaded"`          // True once a load has succeeded
	Count  int    `json:"count"`           // Items in the current catalog
	Error  string `json:"error,omitempty"` // Last load failure, if any
}

// HealthResponse summarizes the server for probes and dashboards.
type HealthResponse struct {
	SessionID string        `json:"session_id"`
	Clients   int           `json:"clients"` // Open WebSocket connections
	Catalog   CatalogStatus `json:"catalog"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HandleHealth reports the session id, connected sockets and catalog status.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		SessionID: s.store.SessionID(),
		Clients:   s.hub.ClientCount(),
		Catalog:   s.catalogStatus(),
	})
}

// HandleGetCatalog returns the price-sorted catalog.
func (s *Server) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Catalog())
}

// HandleCatalogStatus returns whether the catalog has loaded.
func (s *Server) HandleCatalogStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalogStatus())
}

// HandleGetGroups returns the six display groups, recomputed from the catalog.
func (s *Server) HandleGetGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Groups().Named())
}

// HandleSearch returns catalog items matching the "q" query parameter.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "Missing query", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, game.Search(s.store.Catalog(), q))
}

// HandleQuote is the "pre-purchase check". It tells the display whether
// the item can be bought or sold without changing the session.
func (s *Server) HandleQuote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	// One copy of the state, so all fields describe the same moment
	state := s.store.State()
	item := state.Find(id)
	if item == nil {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}

	resp := QuoteResponse{
		ItemID:    item.ID,
		Owned:     state.IsOwned(*item),
		CanAfford: state.CanAfford(*item),
		Price:     item.Gold.Total,
		SellValue: item.Gold.Sell,
	}
	switch {
	case resp.Owned:
		resp.Action = game.KindSell.String()
	case resp.CanAfford:
		resp.Action = game.KindPurchase.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetSession returns the current session snapshot.
func (s *Server) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// HandleResetSession discards the session and starts a new one.
func (s *Server) HandleResetSession(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Reset()
	s.logger.Info("session reset", zap.String("session_id", snap.SessionID))
	s.hub.Publish(EventSessionUpdated, snap.SessionID, snap)
	writeJSON(w, http.StatusOK, snap)
}

// HandleSelect focuses an item.
func (s *Server) HandleSelect(w http.ResponseWriter, r *http.Request) {
	item, ok := s.decodeItem(w, r)
	if !ok {
		return
	}
	s.dispatch(w, game.SelectItem{Item: *item})
}

// HandlePurchase buys an item.
// Ownership and affordability are checked by the Store under its lock.
func (s *Server) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	item, ok := s.decodeItem(w, r)
	if !ok {
		return
	}
	s.dispatch(w, game.Purchase{Item: *item})
}

// HandleSell sells an owned item.
func (s *Server) HandleSell(w http.ResponseWriter, r *http.Request) {
	item, ok := s.decodeItem(w, r)
	if !ok {
		return
	}
	s.dispatch(w, game.Sell{Item: *item})
}

// HandleTransact sells the item when owned and buys it otherwise.
func (s *Server) HandleTransact(w http.ResponseWriter, r *http.Request) {
	item, ok := s.decodeItem(w, r)
	if !ok {
		return
	}
	s.dispatch(w, game.Transact{Item: *item})
}

// HandleUndo reverses the most recent purchase or sale.
func (s *Server) HandleUndo(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, game.Undo{})
}

// decodeItem reads an ItemRequest and resolves it against the catalog.
// On failure the response has already been written.
func (s *Server) decodeItem(w http.ResponseWriter, r *http.Request) (*game.Item, bool) {
	// 1. Decode the JSON body
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}

	// 2. Resolve the id against the live catalog
	item := s.store.State().Find(req.ItemID)
	if item == nil {
		http.Error(w, "Item not found", http.StatusNotFound)
		return nil, false
	}
	return item, true
}

// dispatch applies the action and writes the resulting snapshot.
func (s *Server) dispatch(w http.ResponseWriter, a game.Action) {
	// 1. Apply the action under the store lock
	snap, err := s.store.Dispatch(a)
	if err != nil {
		// 2. Rejected: nothing changed, so nothing is broadcast
		s.logger.Debug("action rejected", zap.String("action", game.ActionName(a)), zap.Error(err))
		switch {
		case errors.Is(err, game.ErrInsufficientGold):
			http.Error(w, "Insufficient Gold", http.StatusPaymentRequired)
		case errors.Is(err, game.ErrNegativeGold):
			http.Error(w, "Gold would become negative", http.StatusPaymentRequired)
		case errors.Is(err, game.ErrEmptyHistory):
			http.Error(w, "Nothing to undo", http.StatusConflict)
		case errors.Is(err, game.ErrAlreadyOwned), errors.Is(err, game.ErrNotOwned):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	// 3. Applied: log, push to every socket, answer with the new snapshot
	s.logger.Debug("action applied",
		zap.String("action", game.ActionName(a)),
		zap.Int("gold", snap.Gold),
		zap.Int("inventory", len(snap.Inventory)),
	)
	s.hub.Publish(EventSessionUpdated, snap.SessionID, snap)
	writeJSON(w, http.StatusOK, snap)
}
