package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/takizuka/todo-backend/internal/domain/todo"
)

// ListTodosInput 列表工具输入（空输入）
type ListTodosInput struct{}

// TodoIDInput 按 ID 操作的工具输入
type TodoIDInput struct {
	TodoID int64 `json:"todo_id" jsonschema:"待办 ID，正整数"`
}

// CreateTodoInput 创建工具输入
type CreateTodoInput struct {
	TodoTitle string `json:"todo_title" jsonschema:"待办标题，1 到 30 个字符"`
}

// TodoOutput 待办
type TodoOutput struct {
	TodoID    int64  `json:"todo_id" jsonschema:"待办 ID"`
	TodoTitle string `json:"todo_title" jsonschema:"标题"`
	Finished  bool   `json:"finished" jsonschema:"是否完成"`
	CreatedAt string `json:"created_at" jsonschema:"创建时间，格式 yyyy/MM/dd HH:mm:ss"`
}

// ListTodosOutput 列表工具输出
type ListTodosOutput struct {
	Todos []TodoOutput `json:"todos" jsonschema:"待办列表"`
	Total int          `json:"total" jsonschema:"总数"`
}

// DeleteTodoOutput 删除工具输出
type DeleteTodoOutput struct {
	Success bool   `json:"success" jsonschema:"是否成功"`
	Message string `json:"message" jsonschema:"结果描述"`
}

// toOutput 领域模型转换为工具输出
func toOutput(item *todo.Todo) TodoOutput {
	return TodoOutput{
		TodoID:    item.ID,
		TodoTitle: item.Title,
		Finished:  item.Finished,
		CreatedAt: item.CreatedAt.Local().Format(todo.DateTimeLayout),
	}
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("todo_id must be a positive integer (got %d)", id)
	}
	return nil
}

func (s *MCPServer) listTodosTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListTodosInput,
) (*mcp.CallToolResult, ListTodosOutput, error) {
	items, err := s.service.FindAll(ctx)
	if err != nil {
		return nil, ListTodosOutput{}, err
	}

	todos := make([]TodoOutput, 0, len(items))
	for _, item := range items {
		todos = append(todos, toOutput(item))
	}
	return nil, ListTodosOutput{Todos: todos, Total: len(todos)}, nil
}

func (s *MCPServer) getTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TodoIDInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	if err := validateID(input.TodoID); err != nil {
		return nil, TodoOutput{}, err
	}

	item, err := s.service.FindOne(ctx, input.TodoID)
	if err != nil {
		return nil, TodoOutput{}, err
	}
	return nil, toOutput(item), nil
}

func (s *MCPServer) createTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateTodoInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	if err := todo.ValidateTitle(input.TodoTitle); err != nil {
		return nil, TodoOutput{}, err
	}

	created, err := s.service.Create(ctx, &todo.Todo{Title: input.TodoTitle})
	if err != nil {
		return nil, TodoOutput{}, err
	}
	return nil, toOutput(created), nil
}

func (s *MCPServer) finishTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TodoIDInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	if err := validateID(input.TodoID); err != nil {
		return nil, TodoOutput{}, err
	}

	finished, err := s.service.Finish(ctx, input.TodoID)
	if err != nil {
		return nil, TodoOutput{}, err
	}
	return nil, toOutput(finished), nil
}

func (s *MCPServer) deleteTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TodoIDInput,
) (*mcp.CallToolResult, DeleteTodoOutput, error) {
	if err := validateID(input.TodoID); err != nil {
		return nil, DeleteTodoOutput{}, err
	}

	if err := s.service.Delete(ctx, input.TodoID); err != nil {
		return nil, DeleteTodoOutput{}, err
	}
	return nil, DeleteTodoOutput{
		Success: true,
		Message: fmt.Sprintf("Todo %d deleted", input.TodoID),
	}, nil
}
