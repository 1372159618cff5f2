// Package stream pushes fleet snapshots to dashboard clients over websockets.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client serializes writes to one connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks connected clients and sends each of them every fleet snapshot.
type Hub struct {
	updates chan struct{}

	mu      sync.Mutex
	latest  []byte
	clients map[*client]struct{}
}

// NewHub creates a hub whose clients start from the initial snapshot.
func NewHub(initial []models.Vehicle) *Hub {
	data, err := encode(initial)
	if err != nil {
		log.WithError(err).Error("failed to encode snapshot")
		data = []byte("[]")
	}
	return &Hub{
		updates: make(chan struct{}, 1),
		latest:  data,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request, sends the latest snapshot and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	// The client is registered and its write lock taken in one step with reading latest,
	// so any later broadcast reaches it after this snapshot.
	c := &client{conn: conn}
	h.mu.Lock()
	data := h.latest
	h.clients[c] = struct{}{}
	c.mu.Lock()
	h.mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteMessage(websocket.TextMessage, data)
	c.mu.Unlock()
	if err != nil {
		h.drop(c)
		return
	}

	go h.readPump(c)
}

// Broadcast records vehicles as the latest snapshot and wakes Run. It never blocks;
// slow clients skip intermediate snapshots and receive the latest one.
func (h *Hub) Broadcast(vehicles []models.Vehicle) {
	data, err := encode(vehicles)
	if err != nil {
		log.WithError(err).Error("failed to encode snapshot")
		return
	}
	h.mu.Lock()
	h.latest = data
	h.mu.Unlock()

	select {
	case h.updates <- struct{}{}:
	default:
	}
}

// Run delivers the latest snapshot after every broadcast until ctx is done, then closes
// every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-h.updates:
			h.writeAll()
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) writeAll() {
	h.mu.Lock()
	data := h.latest
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func(c *client) {
			defer wg.Done()
			if err := c.write(data); err != nil {
				log.WithError(err).Debug("dropping websocket client")
				h.drop(c)
			}
		}(c)
	}
	wg.Wait()
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for c := range clients {
		_ = c.conn.Close()
	}
}

// readPump discards client messages and unregisters the connection once it fails.
func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func encode(vehicles []models.Vehicle) ([]byte, error) {
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	return json.Marshal(vehicles)
}
