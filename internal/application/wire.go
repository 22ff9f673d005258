package application

import (
	"github.com/google/wire"
	"github.com/takizuka/todo-backend/internal/application/todo"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	todo.ProviderSet,
)
