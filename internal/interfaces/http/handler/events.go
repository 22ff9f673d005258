package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
	"github.com/takizuka/todo-backend/internal/infrastructure/log"
	"github.com/takizuka/todo-backend/internal/infrastructure/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// EventsHandler 待办变更事件推送处理器
type EventsHandler struct {
	hub      *websocket.Hub
	upgrader gws.Upgrader
	logger   *slog.Logger
}

// NewEventsHandler 创建事件推送处理器
func NewEventsHandler(hub *websocket.Hub) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		upgrader: gws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // 本机服务，允许所有来源
			},
		},
		logger: log.NewModuleLogger("http", "events_handler"),
	}
}

// Stream 订阅待办变更事件
// @Summary 订阅待办变更事件
// @Description WebSocket 连接，推送 todo.created / todo.finished / todo.deleted 事件
// @Tags 待办
// @Success 101
// @Router /ws/todos [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写入了错误响应
		h.logger.Warn("Failed to upgrade websocket", "error", err)
		return
	}

	sub := websocket.NewConnection(uuid.New().String())
	h.hub.Register(sub)
	h.logger.Debug("Subscriber connected", "subscriber_id", sub.ID)

	go h.writePump(conn, sub)
	go h.readPump(conn, sub)
}

// readPump 只处理控制帧，客户端消息直接丢弃
// 连接断开时从 Hub 注销，Hub 关闭 Send 后 writePump 随之退出
func (h *EventsHandler) readPump(conn *gws.Conn, sub *websocket.Connection) {
	defer h.hub.Unregister(sub)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if gws.IsUnexpectedCloseError(err, gws.CloseGoingAway, gws.CloseNormalClosure) {
				h.logger.Warn("Subscriber read error", "subscriber_id", sub.ID, "error", err)
			}
			return
		}
	}
}

// writePump 将 Hub 分发的消息写入连接，并定期发送 Ping
func (h *EventsHandler) writePump(conn *gws.Conn, sub *websocket.Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
		h.logger.Debug("Subscriber disconnected", "subscriber_id", sub.ID)
	}()

	for {
		select {
		case message, ok := <-sub.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(gws.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(gws.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(gws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
