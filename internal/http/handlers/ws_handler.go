package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/influencer-marketplace/webclient/internal/config"
	"github.com/influencer-marketplace/webclient/internal/events"
	"github.com/influencer-marketplace/webclient/internal/middleware"
	"github.com/influencer-marketplace/webclient/internal/rbac"
	"go.uber.org/zap"
)

// WSHub pushes marketplace events to the connections of the user they are addressed to.
type WSHub struct {
	cfg         *config.Config
	subscriber  events.Subscriber
	log         *zap.Logger
	mu          sync.RWMutex
	writeMu     sync.Mutex
	connections map[string][]*websocket.Conn
}

func NewWSHub(cfg *config.Config, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		cfg:         cfg,
		subscriber:  subscriber,
		log:         log,
		connections: make(map[string][]*websocket.Conn),
	}
}

func (h *WSHub) Start(ctx context.Context) error {
	return h.subscriber.Subscribe(ctx, h.cfg.EventsChannel, h.dispatch)
}

func (h *WSHub) dispatch(event events.Event) {
	if userID := event.Recipient(); userID != "" {
		h.SendToUser(userID, event)
		return
	}
	h.broadcast(event)
}

func (h *WSHub) broadcast(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conns := range h.connections {
		for _, conn := range conns {
			h.write(conn, data)
		}
	}
}

func (h *WSHub) SendToUser(userID string, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[userID] {
		h.write(conn, data)
	}
}

func (h *WSHub) write(conn *websocket.Conn, data []byte) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.log.Debug("ws write failed", zap.Error(err))
	}
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// HandleWS registers conn under the viewer that RequireVerifiedUser confirmed during the upgrade.
func (h *WSHub) HandleWS(conn *websocket.Conn) {
	v, _ := conn.Locals(middleware.CtxViewer).(rbac.Viewer)
	if v.Anonymous() {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"authentication required"}`))
		conn.Close()
		return
	}
	userID := v.UserID

	h.mu.Lock()
	h.connections[userID] = append(h.connections[userID], conn)
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		conns := h.connections[userID]
		for i, c := range conns {
			if c == conn {
				h.connections[userID] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		if len(h.connections[userID]) == 0 {
			delete(h.connections, userID)
		}
		h.mu.Unlock()
		conn.Close()
	}()

	// Read loop (keep alive / pings)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
