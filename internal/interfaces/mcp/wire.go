package mcp

import (
	"github.com/google/wire"
	appTodo "github.com/takizuka/todo-backend/internal/application/todo"
)

// ProviderSet MCP 接口层 ProviderSet
var ProviderSet = wire.NewSet(
	NewServer,
	wire.Bind(new(TodoService), new(*appTodo.Service)),
)
