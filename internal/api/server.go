/*
Package api
File: server.go
Description:
    Wires the Store, the catalog Source and the Hub into one HTTP handler.
    The catalog is loaded asynchronously; until it arrives the shop simply
    has an empty catalog.
*/

package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/everforgeworks/rift-armory/internal/catalog"
	"github.com/everforgeworks/rift-armory/internal/game"
)

// Server is the display-facing shell around one shopping session.
type Server struct {
	store         *game.Store    // The live session
	source        catalog.Source // Where LoadCatalog fetches items from
	hub           *Hub           // Real-time fan-out of every change
	logger        *zap.Logger
	allowedOrigin string // CORS origin, "*" for any

	// Outcome of the last LoadCatalog, read by /api/catalog/status.
	statusMu sync.RWMutex
	status   CatalogStatus
}

// NewServer builds a Server. allowedOrigin is echoed in CORS headers.
func NewServer(store *game.Store, source catalog.Source, hub *Hub, logger *zap.Logger, allowedOrigin string) *Server {
	return &Server{
		store:         store,
		source:        source,
		hub:           hub,
		logger:        logger.Named("api"),
		allowedOrigin: allowedOrigin,
	}
}

// LoadCatalog fetches the catalog and hands it to the Store.
// On failure the current catalog is kept and the error is recorded in the status.
func (s *Server) LoadCatalog(ctx context.Context) error {
	// 1. Fetch, validate and filter
	items, err := s.source.Load(ctx)
	if err != nil {
		s.setStatus(CatalogStatus{Loaded: false, Count: len(s.store.Catalog()), Error: err.Error()})
		s.logger.Error("catalog load failed", zap.Error(err))
		return err
	}

	// 2. Swap the catalog in and tell every client
	if _, err := s.store.Dispatch(game.SetCatalog{Items: items}); err != nil {
		return err
	}
	status := CatalogStatus{Loaded: true, Count: len(items)}
	s.setStatus(status)
	s.hub.Publish(EventCatalogLoaded, SenderSystem, status)
	return nil
}

func (s *Server) setStatus(st CatalogStatus) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = st
}

func (s *Server) catalogStatus() CatalogStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// Routes returns the API handler with CORS applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Catalog & Information Endpoints
	mux.HandleFunc("GET /api/health", s.HandleHealth)
	mux.HandleFunc("GET /api/catalog", s.HandleGetCatalog)
	mux.HandleFunc("GET /api/catalog/status", s.HandleCatalogStatus)
	mux.HandleFunc("GET /api/groups", s.HandleGetGroups)
	mux.HandleFunc("GET /api/items/search", s.HandleSearch)
	mux.HandleFunc("GET /api/items/quote", s.HandleQuote)
	mux.HandleFunc("GET /api/session", s.HandleGetSession)

	// Action Endpoints
	mux.HandleFunc("POST /api/select", s.HandleSelect)
	mux.HandleFunc("POST /api/purchase", s.HandlePurchase)
	mux.HandleFunc("POST /api/sell", s.HandleSell)
	mux.HandleFunc("POST /api/transact", s.HandleTransact)
	mux.HandleFunc("POST /api/undo", s.HandleUndo)
	mux.HandleFunc("POST /api/session/reset", s.HandleResetSession)

	// Real-Time WebSocket Endpoint
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.hub.ServeWs(upgrader, w, r)
	})

	return s.corsMiddleware(mux)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.allowedOrigin == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || origin == s.allowedOrigin
}

// corsMiddleware lets a front end served from another origin call the API.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
