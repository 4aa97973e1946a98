package api

import (
	"context"
	"net/http"
	"sync"

	"shardbot/pkg/auth"
	"shardbot/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub fans notifications out to every open websocket a user holds.
// It backs the in-app notification feed alongside the bot's direct
// messages.
type Hub struct {
	mu    sync.Mutex
	conns map[int64]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[int64]map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[userID][conn] = struct{}{}
}

func (h *Hub) unregister(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// Notify implements the notifier contract over the websocket feed.
// Users without an open socket are skipped silently.
func (h *Hub) Notify(_ context.Context, userID int64, text string) {
	out, err := json.Marshal(Message{
		Type: "notification",
		Data: gin.H{"text": text},
	})
	if err != nil {
		logger.Logger().Error("failed to marshal notification", zap.Error(err))
		return
	}

	h.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(h.conns[userID]))
	for conn := range h.conns[userID] {
		targets = append(targets, conn)
	}
	h.mu.Unlock()

	for _, conn := range targets {
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			logger.Logger().Warn("failed to push notification",
				zap.Int64("telegram_id", userID), zap.Error(err))
		}
	}
}

type wsRoutes struct {
	hub *Hub
	a   *auth.TelegramAuth
}

func NewWSRoutes(handler *gin.RouterGroup, hub *Hub, a *auth.TelegramAuth) {
	r := &wsRoutes{hub: hub, a: a}
	h := handler.Group("/ws")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.GET("", r.handleWebSocket)
	}
}

func (r *wsRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	user, ok := telegramUser(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	r.hub.register(user.ID, conn)
	go r.readLoop(user.ID, conn)
}

// readLoop drains inbound frames so close and ping control messages
// are processed; the feed itself is push-only.
func (r *wsRoutes) readLoop(userID int64, conn *websocket.Conn) {
	defer func() {
		r.hub.unregister(userID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Logger().Warn("websocket unexpected close",
					zap.Int64("telegram_id", userID), zap.Error(err))
			}
			return
		}
	}
}
