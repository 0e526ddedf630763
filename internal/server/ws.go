package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tdv-tracker/internal/metrics"
	"github.com/yourusername/tdv-tracker/internal/models"
	"github.com/yourusername/tdv-tracker/internal/stats"
)

const writeTimeout = 5 * time.Second

// wsMessage is what connected dashboards receive after every mutation.
type wsMessage struct {
	Event   string        `json:"event"`
	Summary stats.Summary `json:"summary"`
}

// Hub tracks connected websocket clients and pushes refreshed stats to them
// after every successful mutation. It implements tracker.Subscriber.
type Hub struct {
	upgrader websocket.Upgrader
	log      *logrus.Logger
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard is public read-only data; any origin may listen.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     log,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// HandleWS upgrades the connection and registers the client until it drops.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	h.add(conn)
	h.log.WithField("clients", h.Count()).Debug("Websocket client connected")

	// Clients never send anything meaningful; the read loop only exists to
	// notice the close.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// RecordChanged implements tracker.Subscriber by broadcasting the refreshed
// summary. Dead connections are dropped on write failure.
func (h *Hub) RecordChanged(event string, data *models.SortiesData) {
	msg := wsMessage{Event: event, Summary: stats.Summarize(data, time.Now())}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
			metrics.WebsocketClients.Set(float64(len(h.clients)))
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	metrics.WebsocketClients.Set(0)
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
	metrics.WebsocketClients.Set(float64(len(h.clients)))
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		conn.Close()
		delete(h.clients, conn)
		metrics.WebsocketClients.Set(float64(len(h.clients)))
	}
}
