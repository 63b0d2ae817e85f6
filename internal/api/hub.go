package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"emergency-alert-service/internal/logging"
	"emergency-alert-service/internal/models"
)

const maxConnsPerDevice = 10

// Hub manages WebSocket connections keyed by device token and pushes every
// newly ingested alert to all of them.
type Hub struct {
	connections map[string]map[*websocket.Conn]bool // device token -> set of connections
	mutex       sync.Mutex
	upgrader    websocket.Upgrader
	logger      *logging.Logger
}

func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		connections: make(map[string]map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Serve upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) Serve(c *gin.Context) {
	token := c.Param("device_token")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed for %s: %v", token, err)
		return
	}

	if !h.add(token, conn) {
		_ = conn.Close()
		return
	}
	defer func() {
		h.remove(token, conn)
		_ = conn.Close()
	}()

	// Drain client frames; exit on error or close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends an ingested alert to every connected client. Implements the
// pipeline's Broadcaster.
func (h *Hub) Broadcast(alert models.Alert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		h.logger.Errorf("Failed to marshal alert %s for broadcast: %v", alert.AlertID, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for token, conns := range h.connections {
		for conn := range conns {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Errorf("Failed to push alert to device %s: %v", token, err)
				delete(conns, conn)
			}
		}
		if len(conns) == 0 {
			delete(h.connections, token)
		}
	}
}

func (h *Hub) add(token string, conn *websocket.Conn) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, exists := h.connections[token]; !exists {
		h.connections[token] = make(map[*websocket.Conn]bool)
	}
	if len(h.connections[token]) >= maxConnsPerDevice {
		h.logger.Warnf("Max connections reached for device %s", token)
		return false
	}
	h.connections[token][conn] = true
	h.logger.Infof("Added WebSocket connection for device %s (total: %d)", token, len(h.connections[token]))
	return true
}

func (h *Hub) remove(token string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if conns, exists := h.connections[token]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.connections, token)
		}
	}
}
