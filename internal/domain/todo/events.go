package todo

import "time"

// EventType 待办事件类型
type EventType string

const (
	// EventCreated 待办已创建
	EventCreated EventType = "todo.created"
	// EventFinished 待办已完成
	EventFinished EventType = "todo.finished"
	// EventDeleted 待办已删除
	EventDeleted EventType = "todo.deleted"
)

// Event 待办变更事件
type Event struct {
	Type      EventType
	Todo      Todo
	Timestamp time.Time
}

// NewEvent 创建事件
func NewEvent(eventType EventType, t *Todo) *Event {
	return &Event{
		Type:      eventType,
		Todo:      *t,
		Timestamp: time.Now(),
	}
}
