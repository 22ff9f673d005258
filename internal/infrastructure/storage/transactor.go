package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/takizuka/todo-backend/internal/domain/todo"
)

// Transactor 基于 *sql.Tx 的事务执行器
type Transactor struct {
	db *sql.DB
}

// NewTransactor 创建事务执行器
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx 在单个事务中执行 fn
// fn 返回错误或 panic 时回滚，否则提交
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repo todo.Repository) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, &todoRepository{db: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// 编译时检查接口实现
var _ todo.Transactor = (*Transactor)(nil)
