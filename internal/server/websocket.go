package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/smartthermo/internal/config"
	"github.com/muurk/smartthermo/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Events queued per client before it is considered stuck and dropped
	sendBuffer = 32
)

// Event types sent on the change feed
const (
	EventSnapshot = "snapshot"
	EventChange   = "change"
	EventSaved    = "saved"
	EventReloaded = "reloaded"
	EventConflict = "conflict"
	EventError    = "error"
)

// Event is one message on the /ws change feed
type Event struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
	config.Change
}

func eventFor(c config.Change) Event {
	switch {
	case c.Reloaded:
		return Event{Type: EventReloaded, Change: c}
	case c.Path == "" && c.Saved:
		return Event{Type: EventSaved, Change: c}
	default:
		return Event{Type: EventChange, Change: c}
	}
}

// Hub fans store changes out to every connected WebSocket client.
type Hub struct {
	store    *config.Store
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn       *websocket.Conn
	remoteAddr string
	send       chan []byte
}

// NewHub creates a hub for store. Call Close to disconnect every client.
func NewHub(store *config.Store) *Hub {
	return &Hub{
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The feed is read-only and the device sits on a private network.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish sends a store change to every client. Clients that cannot keep
// up are disconnected.
func (h *Hub) Publish(c config.Change) {
	h.publishEvent(eventFor(c))
}

// PublishReloadError tells every client that a file reload failed. A
// conflict with unsaved changes is sent as EventConflict.
func (h *Hub) PublishReloadError(err error) {
	if err == nil {
		return
	}
	ev := Event{Type: EventError, Error: err.Error()}
	if config.IsConflict(err) {
		ev.Type = EventConflict
	}
	h.publishEvent(ev)
}

func (h *Hub) publishEvent(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logging.Error("Failed to encode change event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			logging.Warn("WebSocket client too slow, disconnecting", zap.String("remote_addr", cl.remoteAddr))
			h.removeLocked(cl)
		}
	}
}

// ServeHTTP upgrades the request and streams change events until the
// client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}

	cl := &client{
		conn:       conn,
		remoteAddr: r.RemoteAddr,
		send:       make(chan []byte, sendBuffer),
	}

	snapshot, err := json.Marshal(Event{Type: EventSnapshot, Change: config.Change{Value: h.store.Snapshot()}})
	if err != nil {
		logging.Error("Failed to encode snapshot", zap.Error(err))
		conn.Close()
		return
	}
	cl.send <- snapshot

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	logging.Info("WebSocket client connected", zap.String("remote_addr", cl.remoteAddr))

	go h.writePump(cl)
	h.readPump(cl)
}

// readPump discards client messages; it exists to process pongs and to
// notice the connection closing.
func (h *Hub) readPump(cl *client) {
	defer func() {
		h.remove(cl)
		logging.Info("WebSocket client disconnected", zap.String("remote_addr", cl.remoteAddr))
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug("WebSocket read error", zap.String("remote_addr", cl.remoteAddr), zap.Error(err))
			}
			return
		}
		logging.LogWebSocketMessage(cl.remoteAddr, "received", msgType, data)
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case data, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
			logging.LogWebSocketMessage(cl.remoteAddr, "sent", websocket.TextMessage, data)

		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(cl)
}

func (h *Hub) removeLocked(cl *client) {
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for cl := range h.clients {
		h.removeLocked(cl)
	}
}
