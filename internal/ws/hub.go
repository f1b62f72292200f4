package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Hub fans automation events out to connected dashboard clients.
type Hub struct {
	connections map[*websocket.Conn]bool
	mutex       sync.Mutex
	logger      *logrus.Logger
}

// event is the wire envelope pushed to dashboard clients.
type event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

const maxConnections = 100

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]bool),
		logger:      logger,
	}
}

// Add registers a dashboard connection.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if len(h.connections) >= maxConnections {
		h.logger.Warnf("Max dashboard connections reached, rejecting client")
		conn.Close()
		return
	}
	h.connections[conn] = true
	h.logger.Infof("Dashboard client connected (total: %d)", len(h.connections))
}

// Remove drops a dashboard connection.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, exists := h.connections[conn]; exists {
		delete(h.connections, conn)
		h.logger.Infof("Dashboard client disconnected (remaining: %d)", len(h.connections))
	}
}

// Publish sends an event to every connected client, dropping clients
// whose connection is broken.
func (h *Hub) Publish(name string, payload interface{}) {
	message, err := json.Marshal(event{Event: name, Payload: payload})
	if err != nil {
		h.logger.Errorf("Failed to encode %s event: %v", name, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.connections {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.logger.Errorf("Failed to push %s event: %v", name, err)
			conn.Close()
			delete(h.connections, conn)
		}
	}
}
