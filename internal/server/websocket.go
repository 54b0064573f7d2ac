package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/ncsound919/OG-Glass/internal/logging"
	"github.com/ncsound919/OG-Glass/internal/services"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 30 * time.Second

	// Per-client queue depth; a client that falls this far behind is dropped.
	clientBuffer = 64
)

// Client is one live-event subscriber.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans studio events out to every connected WebSocket client.
type Hub struct {
	clients map[*Client]struct{}
	mutex   sync.Mutex
	logger  logging.Logger
}

// NewHub creates an empty hub.
func NewHub(logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Hub{clients: make(map[*Client]struct{}), logger: logger}
}

// Run forwards events to clients until ctx is cancelled or events closes.
func (h *Hub) Run(ctx context.Context, events <-chan services.Event) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			message, err := json.Marshal(event)
			if err != nil {
				h.logger.Error(ctx, err, "Failed to marshal live event", "type", event.Type)
				continue
			}
			h.Broadcast(message)
		}
	}
}

// Broadcast queues message for every client. Clients with a full queue are
// disconnected.
func (h *Hub) Broadcast(message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) {
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mutex.Unlock()

	h.logger.Debug(context.Background(), "Client connected", "total", count)
}

func (h *Hub) unregister(c *Client) {
	h.mutex.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mutex.Unlock()

	h.logger.Debug(context.Background(), "Client disconnected", "total", count)
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// hostPatterns lists the hosts of the configured origins for the websocket
// library's own origin check.
func (p originPolicy) hostPatterns() []string {
	hosts := make([]string, 0, len(p.allowed))
	for _, origin := range p.allowed {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Validate origin before accepting connection
	if !s.origins.allows(r, r.Header.Get("Origin")) {
		writeJSON(w, http.StatusForbidden, errorBody{Error: "Origin not allowed"})
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins.hostPatterns(),
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade failed")
		return
	}

	client := &Client{conn: conn, send: make(chan []byte, clientBuffer)}
	s.hub.register(client)
	defer s.hub.unregister(client)

	// Greet with the current session so the dashboard can render at once
	if hello, err := json.Marshal(map[string]interface{}{
		"type":      "session",
		"data":      s.studio.SessionSummary(),
		"timestamp": time.Now().UTC(),
	}); err == nil {
		client.send <- hello
	}

	// Clients only listen; CloseRead discards anything they send and cancels
	// ctx once the peer goes away.
	ctx := conn.CloseRead(r.Context())
	client.writePump(ctx, s.logger)
}

// writePump writes queued messages and periodic pings until the queue is
// closed or the connection fails.
func (c *Client) writePump(ctx context.Context, logger logging.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case message, ok := <-c.send:
			if !ok {
				c.conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				if websocket.CloseStatus(err) == -1 {
					logger.Debug(ctx, "WebSocket write failed", "error", err.Error())
				}
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
