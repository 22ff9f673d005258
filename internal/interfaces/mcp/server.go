package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/takizuka/todo-backend/internal/domain/todo"
	"github.com/takizuka/todo-backend/internal/infrastructure/log"
)

const (
	// ServerName MCP 服务名
	ServerName = "todo-backend"
	// ServerVersion MCP 服务版本
	ServerVersion = "0.1.0"
)

// TodoService 待办应用服务
type TodoService interface {
	FindAll(ctx context.Context) ([]*todo.Todo, error)
	FindOne(ctx context.Context, id int64) (*todo.Todo, error)
	Create(ctx context.Context, input *todo.Todo) (*todo.Todo, error)
	Finish(ctx context.Context, id int64) (*todo.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// MCPServer MCP 服务器
type MCPServer struct {
	server  *mcp.Server
	handler http.Handler
	service TodoService
	logger  *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(service TodoService) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil, // 使用默认能力
	)

	mcpServer := &MCPServer{
		server:  server,
		service: service,
		logger:  log.NewModuleLogger("mcp", "server"),
	}
	mcpServer.registerTools()

	// 所有 SSE 会话共用同一个服务器实例
	mcpServer.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			return server
		},
		nil,
	)
	return mcpServer
}

// registerTools 注册待办工具
func (s *MCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_todos",
		Description: "List all todos ordered by todo_id. No parameters required. Returns: todos array and total count.",
	}, s.listTodosTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_todo",
		Description: "Get a single todo. Parameters: todo_id (int, required). Fails when the todo does not exist.",
	}, s.getTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "create_todo",
		Description: `Create a new unfinished todo.
Parameters:
- todo_title (string, required): 1 to 30 characters

Fails when 5 todos are already unfinished.`,
	}, s.createTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "finish_todo",
		Description: "Mark a todo as finished. Parameters: todo_id (int, required). Fails when the todo does not exist or is already finished.",
	}, s.finishTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_todo",
		Description: "Delete a todo. Parameters: todo_id (int, required). Fails when the todo does not exist.",
	}, s.deleteTodoTool)
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}

// Server 底层 MCP 服务器
func (s *MCPServer) Server() *mcp.Server {
	return s.server
}

// Stop 停止服务器
// SSE 会话随 HTTP 服务器关闭，这里只记录日志
func (s *MCPServer) Stop() error {
	s.logger.Info("MCP server stopped")
	return nil
}
