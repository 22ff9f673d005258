package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/takizuka/todo-backend/internal/infrastructure/config"
	"github.com/takizuka/todo-backend/internal/infrastructure/log"
	"github.com/takizuka/todo-backend/internal/interfaces/http/handler"
	"github.com/takizuka/todo-backend/internal/interfaces/http/middleware"
	"github.com/takizuka/todo-backend/internal/interfaces/mcp"

	_ "github.com/takizuka/todo-backend/docs" // Swagger docs
)

// ShutdownTimeout 优雅关闭超时时间
const ShutdownTimeout = 5 * time.Second

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.ServerConfig,
	todoHandler *handler.TodoHandler,
	eventsHandler *handler.EventsHandler,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.EnsureUTF8Body(),
	)

	todos := router.Group("/todos")
	{
		todos.GET("", todoHandler.List)
		todos.POST("", todoHandler.Create)
		todos.GET("/:id", todoHandler.Get)
		todos.PUT("/:id", todoHandler.Finish)
		todos.DELETE("/:id", todoHandler.Delete)
	}

	// 变更事件推送
	if eventsHandler != nil {
		router.GET("/ws/todos", eventsHandler.Stream)
	}

	router.GET("/health", handler.HealthHandler)

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	port := config.DefaultHTTPPort
	if cfg != nil && cfg.HTTPPort != "" {
		port = cfg.HTTPPort
	}

	return &HTTPServer{
		router:   router,
		httpPort: port,
		server: &http.Server{
			Addr:              port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log.NewModuleLogger("http", "server"),
	}
}

// Handler 返回路由，供测试直接调用
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Addr 监听地址
func (s *HTTPServer) Addr() string {
	return s.httpPort
}

// Start 启动服务器，阻塞直到服务器关闭
// listener 不为空时直接复用（单例锁已占用的端口），否则自行监听
func (s *HTTPServer) Start(listener net.Listener) error {
	var err error
	if listener != nil {
		s.logger.Info("HTTP server starting", "addr", listener.Addr().String())
		err = s.server.Serve(listener)
	} else {
		s.logger.Info("HTTP server starting", "port", s.httpPort)
		err = s.server.ListenAndServe()
	}

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}
