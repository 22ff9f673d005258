package todo

import "context"

// Repository 待办事项仓储接口
type Repository interface {
	// FindByID 根据 ID 查找待办事项，不存在时返回 nil, nil
	FindByID(ctx context.Context, id int64) (*Todo, error)

	// FindAll 获取所有待办事项
	FindAll(ctx context.Context) ([]*Todo, error)

	// Create 插入待办事项，并将生成的 ID 回写到 todo.ID
	Create(ctx context.Context, todo *Todo) error

	// FinishByID 将待办标记为完成，返回受影响行数
	FinishByID(ctx context.Context, id int64) (int64, error)

	// DeleteByID 删除待办事项，返回受影响行数
	DeleteByID(ctx context.Context, id int64) (int64, error)

	// CountByFinished 统计指定完成状态的待办数量
	CountByFinished(ctx context.Context, finished bool) (int64, error)
}

// Transactor 事务执行器
// fn 内通过 repo 执行的所有操作处于同一事务中：fn 返回 nil 时提交，否则回滚
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
