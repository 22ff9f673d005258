package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/takizuka/todo-backend/internal/domain/todo"
)

// dbtx *sql.DB 与 *sql.Tx 的公共方法
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner *sql.Row 与 *sql.Rows 的公共方法
type rowScanner interface {
	Scan(dest ...any) error
}

// todoRepository 待办事项 SQLite 仓储实现
type todoRepository struct {
	db dbtx
}

// NewTodoRepository 创建待办事项仓储实例
func NewTodoRepository(db *sql.DB) todo.Repository {
	return &todoRepository{db: db}
}

const selectTodoColumns = `SELECT todo_id, todo_title, finished, created_at FROM todo`

// FindByID 根据 ID 查找待办事项
func (r *todoRepository) FindByID(ctx context.Context, id int64) (*todo.Todo, error) {
	row := r.db.QueryRowContext(ctx, selectTodoColumns+` WHERE todo_id = ?`, id)

	item, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}
	return item, nil
}

// FindAll 获取所有待办事项
func (r *todoRepository) FindAll(ctx context.Context) ([]*todo.Todo, error) {
	rows, err := r.db.QueryContext(ctx, selectTodoColumns+` ORDER BY todo_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	items := make([]*todo.Todo, 0)
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return items, nil
}

// Create 插入待办事项
func (r *todoRepository) Create(ctx context.Context, item *todo.Todo) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO todo (todo_title, finished, created_at) VALUES (?, ?, ?)`,
		item.Title,
		boolToInt(item.Finished),
		item.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get generated todo id: %w", err)
	}
	item.ID = id

	return nil
}

// FinishByID 将待办标记为完成
func (r *todoRepository) FinishByID(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE todo SET finished = 1 WHERE todo_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to finish todo: %w", err)
	}
	return result.RowsAffected()
}

// DeleteByID 删除待办事项
func (r *todoRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todo WHERE todo_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todo: %w", err)
	}
	return result.RowsAffected()
}

// CountByFinished 统计指定完成状态的待办数量
func (r *todoRepository) CountByFinished(ctx context.Context, finished bool) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM todo WHERE finished = ?`,
		boolToInt(finished),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return count, nil
}

// scanTodo 扫描一行待办数据
func scanTodo(row rowScanner) (*todo.Todo, error) {
	var item todo.Todo
	var finished int
	var createdAt int64

	if err := row.Scan(&item.ID, &item.Title, &finished, &createdAt); err != nil {
		return nil, err
	}

	item.Finished = finished == 1
	item.CreatedAt = time.UnixMilli(createdAt)
	return &item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// 编译时检查接口实现
var _ todo.Repository = (*todoRepository)(nil)
