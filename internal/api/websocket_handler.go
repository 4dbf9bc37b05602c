package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/KTMO24/github-event-logger/internal/services"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// WebSocketHandler streams newly appended events to connected clients.
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	broadcaster *services.EventBroadcaster
	logger      *slog.Logger
}

// NewWebSocketHandler creates a new websocket handler.
func NewWebSocketHandler(broadcaster *services.EventBroadcaster, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				// The feed is public, same as GET /events.
				return true
			},
		},
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// StreamEvents upgrades the connection and forwards appended events as JSON
// until the client disconnects. The log itself remains the source of truth;
// a slow client may miss events.
func (h *WebSocketHandler) StreamEvents(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			h.logger.Debug("Websocket close failed", "error", cerr)
		}
	}()

	id, events := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if writeErr := conn.WriteJSON(event); writeErr != nil {
				h.logger.Debug("Websocket write failed", "subscriber_id", id, "error", writeErr)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if pingErr := conn.WriteMessage(websocket.PingMessage, nil); pingErr != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// RegisterWebSocketRoutes registers the live event feed route.
func RegisterWebSocketRoutes(r *gin.Engine, handler *WebSocketHandler) {
	r.GET("/events/ws", handler.StreamEvents)
}
