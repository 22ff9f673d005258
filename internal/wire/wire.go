//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"
	"github.com/takizuka/todo-backend/internal/application"
	appTodo "github.com/takizuka/todo-backend/internal/application/todo"
	"github.com/takizuka/todo-backend/internal/infrastructure"
	infraNotification "github.com/takizuka/todo-backend/internal/infrastructure/notification"
	"github.com/takizuka/todo-backend/internal/interfaces"
)

// InitializeAll 初始化所有服务（HTTP + MCP）
// 返回的 cleanup 负责关闭数据库连接
func InitializeAll() (*App, func(), error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,     // 接口层
		// 接口绑定：application.Publisher -> infrastructure.WebSocketPusher
		wire.Bind(
			new(appTodo.Publisher),
			new(*infraNotification.WebSocketPusher),
		),
		NewApp, // 组合所有服务的应用结构
	)
	return nil, nil, nil
}
