// Package ws streams observable session notifications to host shells.
//
// Each connected shell receives pip.active, pip.restoring, and
// pip.restore_requested messages as the session transitions, and may push
// view geometry reports and pings upstream on the same connection.
package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/glasswing/pipcore/internal/domain/session"
	"github.com/glasswing/pipcore/internal/domain/view"
	"github.com/glasswing/pipcore/internal/infrastructure/logging"
	"github.com/glasswing/pipcore/internal/infrastructure/monitoring"
	"github.com/glasswing/pipcore/internal/shared/id"
	"github.com/glasswing/pipcore/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin policy is enforced by the CORS layer
	},
}

// Hub manages WebSocket connections and fans session notifications out
// to every connected host shell.
type Hub struct {
	manager *session.Manager
	views   *view.Registry
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu      sync.Mutex
	clients map[id.ConnID]*client
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // Serializes writes; gorilla allows one writer at a time
}

// NewHub creates a hub and registers the session's observable hooks
func NewHub(manager *session.Manager, views *view.Registry, logger *logging.Logger, metrics *monitoring.Metrics) *Hub {
	h := &Hub{
		manager: manager,
		views:   views,
		logger:  logger.Component("ws"),
		metrics: metrics,
		clients: make(map[id.ConnID]*client),
	}

	manager.OnActiveChanged(func(active bool) {
		h.Broadcast(types.WSMessage{
			Type: types.WSActive,
			Data: map[string]interface{}{"active": active},
		})
	})
	manager.OnRestoringChanged(func(restoring bool) {
		h.Broadcast(types.WSMessage{
			Type: types.WSRestoring,
			Data: map[string]interface{}{"restoring": restoring},
		})
	})
	manager.OnRestoreRequested(func() {
		h.Broadcast(types.WSMessage{Type: types.WSRestoreRequested})
	})

	return h
}

// HandleConnection upgrades and serves one host shell connection
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	connID := id.NewConnID()
	cl := &client{conn: conn}

	h.mu.Lock()
	h.clients[connID] = cl
	h.mu.Unlock()
	h.metrics.WSConnections.Inc()
	h.logger.Info("shell connected", zap.String("conn_id", connID.String()))

	defer func() {
		h.mu.Lock()
		delete(h.clients, connID)
		h.mu.Unlock()
		h.metrics.WSConnections.Dec()
		conn.Close()
		h.logger.Info("shell disconnected", zap.String("conn_id", connID.String()))
	}()

	// Current state first so a late-joining shell is not left guessing.
	stats := h.manager.Stats()
	h.send(cl, types.WSMessage{
		Type: "system",
		Data: map[string]interface{}{
			"message": "connected to pipd",
			"state":   stats.State,
		},
	})

	for {
		var msg types.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		h.metrics.RecordWSMessage(msg.Type, "in")

		switch msg.Type {
		case "view.report":
			h.handleViewReport(cl, msg)
		case "view.remove":
			if msg.ViewID != "" {
				h.views.Remove(msg.ViewID)
			}
		case "ping":
			h.send(cl, types.WSMessage{Type: "pong"})
		default:
			h.send(cl, types.WSMessage{
				Type: "error",
				Data: map[string]interface{}{"error": "unknown message type"},
			})
		}
	}
}

func (h *Hub) handleViewReport(cl *client, msg types.WSMessage) {
	if msg.View == nil || msg.View.ID == "" {
		h.send(cl, types.WSMessage{
			Type: "error",
			Data: map[string]interface{}{"error": "view.report requires a view"},
		})
		return
	}

	h.views.Put(types.ViewReport{
		ID:       msg.View.ID,
		WindowID: msg.View.WindowID,
		Frame:    msg.View.Frame,
	})
	h.manager.ViewUpdated(msg.View.ID)
}

// Broadcast sends a message to every connected shell
func (h *Hub) Broadcast(msg types.WSMessage) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		h.send(cl, msg)
	}
}

// Count returns the number of connected shells
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) send(cl *client, msg types.WSMessage) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if err := cl.conn.WriteJSON(msg); err != nil {
		h.logger.Warn("websocket write failed", zap.Error(err))
		return
	}
	h.metrics.RecordWSMessage(msg.Type, "out")
}

// Close disconnects all shells
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for connID, cl := range h.clients {
		cl.conn.Close()
		delete(h.clients, connID)
	}
}
