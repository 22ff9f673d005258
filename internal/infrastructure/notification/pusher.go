package notification

import (
	"log/slog"

	appTodo "github.com/takizuka/todo-backend/internal/application/todo"
	"github.com/takizuka/todo-backend/internal/domain/todo"
	"github.com/takizuka/todo-backend/internal/infrastructure/log"
	"github.com/takizuka/todo-backend/internal/infrastructure/websocket"
)

// EventMessage 推送给订阅者的事件消息
type EventMessage struct {
	Type      string       `json:"type"`
	Todo      TodoSnapshot `json:"todo"`
	Timestamp int64        `json:"timestamp"` // Unix 毫秒时间戳
}

// TodoSnapshot 事件中的待办快照，字段与 HTTP 资源一致
type TodoSnapshot struct {
	TodoID    int64  `json:"todoId"`
	TodoTitle string `json:"todoTitle"`
	Finished  bool   `json:"finished"`
	CreatedAt string `json:"createdAt"`
}

// WebSocketPusher WebSocket 推送实现
type WebSocketPusher struct {
	hub    *websocket.Hub
	logger *slog.Logger
}

// NewWebSocketPusher 创建 WebSocket 推送器
func NewWebSocketPusher(hub *websocket.Hub) *WebSocketPusher {
	return &WebSocketPusher{
		hub:    hub,
		logger: log.NewModuleLogger("notification", "pusher"),
	}
}

// Publish 广播待办事件
func (p *WebSocketPusher) Publish(event *todo.Event) {
	if err := p.hub.Broadcast(toMessage(event)); err != nil {
		p.logger.Warn("Failed to broadcast todo event",
			"type", event.Type,
			"todo_id", event.Todo.ID,
			"error", err,
		)
	}
}

// toMessage 转换为推送消息
func toMessage(event *todo.Event) *EventMessage {
	return &EventMessage{
		Type: string(event.Type),
		Todo: TodoSnapshot{
			TodoID:    event.Todo.ID,
			TodoTitle: event.Todo.Title,
			Finished:  event.Todo.Finished,
			CreatedAt: event.Todo.CreatedAt.Local().Format(todo.DateTimeLayout),
		},
		Timestamp: event.Timestamp.UnixMilli(),
	}
}

// 编译时检查接口实现
var _ appTodo.Publisher = (*WebSocketPusher)(nil)

