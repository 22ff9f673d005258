package todo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/takizuka/todo-backend/internal/domain/todo"
	"github.com/takizuka/todo-backend/internal/infrastructure/log"
)

// Service 待办应用服务
// 每个操作在一个事务中执行；未完成数量检查与插入之间没有加锁，
// 并发创建可能短暂超过上限，这是已知的弱一致性。
type Service struct {
	tx        todo.Transactor
	publisher Publisher
	now       func() time.Time
	logger    *slog.Logger
}

// NewService 创建待办应用服务
func NewService(tx todo.Transactor, publisher Publisher) *Service {
	return &Service{
		tx:        tx,
		publisher: publisher,
		now:       time.Now,
		logger:    log.NewModuleLogger("todo", "service"),
	}
}

// WithClock 替换时钟（用于测试）
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// FindOne 查询单个待办，不存在时返回 ErrNotFound
func (s *Service) FindOne(ctx context.Context, id int64) (*todo.Todo, error) {
	var found *todo.Todo
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repo todo.Repository) error {
		var err error
		found, err = findOne(ctx, repo, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// FindAll 查询全部待办
func (s *Service) FindAll(ctx context.Context) ([]*todo.Todo, error) {
	var items []*todo.Todo
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repo todo.Repository) error {
		var err error
		items, err = repo.FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*todo.Todo{}
	}
	return items, nil
}

// Create 创建待办
// input 为 nil 时返回 ErrInvalidTitle，未完成数量达到上限时返回 ErrBusinessRule
// 调用方传入的 ID、完成状态和创建时间会被忽略
func (s *Service) Create(ctx context.Context, input *todo.Todo) (*todo.Todo, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: todo must not be nil", todo.ErrInvalidTitle)
	}

	created := &todo.Todo{
		Title:     input.Title,
		Finished:  false,
		CreatedAt: s.now().Truncate(time.Second),
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repo todo.Repository) error {
		unfinished, err := repo.CountByFinished(ctx, false)
		if err != nil {
			return err
		}
		if unfinished >= todo.MaxUnfinished {
			return todo.UnfinishedLimitError()
		}
		return repo.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	log.FromContext(log.WithTodoID(ctx, created.ID), s.logger).Info("Todo created")
	s.publish(todo.EventCreated, created)
	return created, nil
}

// Finish 将待办标记为完成
// 不存在时返回 ErrNotFound，已完成时返回 ErrBusinessRule
func (s *Service) Finish(ctx context.Context, id int64) (*todo.Todo, error) {
	var found *todo.Todo
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repo todo.Repository) error {
		var err error
		found, err = findOne(ctx, repo, id)
		if err != nil {
			return err
		}
		if found.Finished {
			return todo.AlreadyFinishedError(id)
		}

		if _, err := repo.FinishByID(ctx, id); err != nil {
			return err
		}
		found.MarkFinished()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.FromContext(log.WithTodoID(ctx, id), s.logger).Info("Todo finished")
	s.publish(todo.EventFinished, found)
	return found, nil
}

// Delete 删除待办，不存在时返回 ErrNotFound
func (s *Service) Delete(ctx context.Context, id int64) error {
	var found *todo.Todo
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repo todo.Repository) error {
		var err error
		found, err = findOne(ctx, repo, id)
		if err != nil {
			return err
		}
		_, err = repo.DeleteByID(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	log.FromContext(log.WithTodoID(ctx, id), s.logger).Info("Todo deleted")
	s.publish(todo.EventDeleted, found)
	return nil
}

// findOne 在给定仓储上查询，不存在时返回 ErrNotFound
func findOne(ctx context.Context, repo todo.Repository, id int64) (*todo.Todo, error) {
	found, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, todo.NotFoundError(id)
	}
	return found, nil
}

// publish 事务提交后发布事件
func (s *Service) publish(eventType todo.EventType, item *todo.Todo) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(todo.NewEvent(eventType, item))
}
