package storage

import (
	"github.com/google/wire"
	"github.com/takizuka/todo-backend/internal/domain/todo"
)

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideDB,     // 提供数据库连接
	NewTransactor, // 事务执行器
	wire.Bind(new(todo.Transactor), new(*Transactor)),
)
