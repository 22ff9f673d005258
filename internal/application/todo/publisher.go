package todo

import "github.com/takizuka/todo-backend/internal/domain/todo"

// Publisher 待办事件发布接口（定义在 application 层）
// 发布是尽力而为的：实现方不得阻塞调用方，也不向调用方返回错误
type Publisher interface {
	Publish(event *todo.Event)
}
