/*
Package api
File: hub.go
Description:
    The WebSocket Hub pushes session and catalog changes to every connected
    front end, so a display never has to poll after a transition.

    Architecture:
    - Hub: the single manager, owns the client registry.
    - Client: one browser connection.
    - ServeWs: upgrades a GET request to a WebSocket and registers the client.
*/

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event types pushed over the socket.
const (
	EventSessionUpdated = "session_updated"
	EventCatalogLoaded  = "catalog_loaded"
)

// SenderSystem marks messages originating from the server itself.
const SenderSystem = "system"

const writeWait = 10 * time.Second

// Message defines the standard JSON envelope for all real-time communication.
type Message struct {
	Type    string      `json:"type"`    // Event type, e.g. "session_updated"
	Payload interface{} `json:"payload"` // Snapshot, catalog summary, ...
	Sender  string      `json:"sender"`  // Session id or "system"
}

// Client represents a single connected browser tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients. Only touched by the Run goroutine.
	clients map[*Client]bool

	// Inbound messages from the API to be sent to all clients.
	broadcast chan []byte

	// Register requests from new connections.
	register chan *Client

	// Unregister requests from closed connections.
	unregister chan *Client

	// ClientCount requests; Run answers on the inner channel.
	count chan chan int

	running atomic.Bool   // Set while Run is looping
	done    chan struct{} // Closed when Run returns
	logger  *zap.Logger
}

// NewHub creates a Hub. Run must be started before clients connect.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger.Named("hub"),
	}
}

// Run is the main event loop for the Hub. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer func() {
		h.running.Store(false)
		close(h.done)
	}()
	for {
		select {
		case <-ctx.Done():
			// Shutdown: closing send makes every writePump say goodbye
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("client registered", zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case reply := <-h.count:
			reply <- len(h.clients)

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client is stuck or gone.
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("dropped slow client")
				}
			}
		}
	}
}

// Publish wraps payload in a Message and queues it for every client.
// It never blocks the caller; when the queue is full the event is dropped.
func (h *Hub) Publish(eventType, sender string, payload interface{}) {
	data, err := json.Marshal(Message{Type: eventType, Payload: payload, Sender: sender})
	if err != nil {
		h.logger.Error("marshal event", zap.String("type", eventType), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast queue full, event dropped", zap.String("type", eventType))
	}
}

// ClientCount returns the number of registered clients.
// It returns 0 without blocking while Run is not looping.
func (h *Hub) ClientCount() int {
	if !h.running.Load() {
		return 0
	}
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// ServeWs handles the HTTP request that initiates a WebSocket connection.
func (h *Hub) ServeWs(upgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256)}
	// Hand the client to Run, unless the hub is already gone
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection until it closes. Clients drive the shop
// through the REST API; inbound frames are ignored.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	// Exits when the hub closes c.send.
	for message := range c.send {
		// Each frame gets its own write deadline
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
