package infrastructure

import (
	"github.com/google/wire"
	"github.com/takizuka/todo-backend/internal/infrastructure/config"
	"github.com/takizuka/todo-backend/internal/infrastructure/notification"
	"github.com/takizuka/todo-backend/internal/infrastructure/storage"
	"github.com/takizuka/todo-backend/internal/infrastructure/websocket"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	websocket.ProviderSet,
	notification.ProviderSet,
	storage.ProviderSet,
)
