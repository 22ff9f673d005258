package handler

import (
	"github.com/google/wire"
	appTodo "github.com/takizuka/todo-backend/internal/application/todo"
)

// ProviderSet Handler ProviderSet
var ProviderSet = wire.NewSet(
	NewTodoHandler,
	NewEventsHandler,
	wire.Bind(new(TodoService), new(*appTodo.Service)),
)
