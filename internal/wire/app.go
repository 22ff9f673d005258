package wire

import (
	"errors"
	"log/slog"
	"net"

	"github.com/takizuka/todo-backend/internal/infrastructure/config"
	applog "github.com/takizuka/todo-backend/internal/infrastructure/log"
	"github.com/takizuka/todo-backend/internal/infrastructure/websocket"
	"github.com/takizuka/todo-backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *interfaces.HTTPServer
	MCPServer  *interfaces.MCPServer
	cfg        *config.Config
	wsHub      *websocket.Hub
	watcher    *config.Watcher
	errCh      chan error
	logger     *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	cfg *config.Config,
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	wsHub *websocket.Hub,
	watcher *config.Watcher,
) *App {
	return &App{
		HTTPServer: httpServer,
		MCPServer:  mcpServer,
		cfg:        cfg,
		wsHub:      wsHub,
		watcher:    watcher,
		errCh:      make(chan error, 1),
		logger:     applog.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务
// listener 为单例锁占用的端口，为 nil 时由 HTTP 服务器自行监听
func (a *App) Start(listener net.Listener) error {
	a.logger.Info("Starting todo backend application")

	// 配置文件中的日志级别
	applyLogLevel(a.cfg.Log.Level)

	// 启动 WebSocket Hub
	a.wsHub.Start()

	// 配置热更新：目前只有日志级别可以在运行时调整
	if a.watcher != nil {
		a.watcher.OnChange(func(cfg *config.Config) {
			level := applyLogLevel(cfg.Log.Level)
			a.logger.Info("Log level reloaded", "level", level)
		})
		if err := a.watcher.Start(); err != nil {
			// 监听失败不影响主流程
			a.logger.Warn("Failed to start config watcher",
				"error", err,
			)
		}
	}

	// 启动 HTTP 服务器（goroutine）
	// MCP 服务器通过 HTTP Handler 提供服务，已注册在 /mcp/sse
	go func() {
		if err := a.HTTPServer.Start(listener); err != nil {
			a.logger.Error("HTTP server exited",
				"error", err,
			)
			a.errCh <- err
		}
	}()

	a.logger.Info("Todo backend application started",
		"addr", a.HTTPServer.Addr(),
	)
	return nil
}

// applyLogLevel 应用配置文件中的日志级别并返回实际生效的级别
// 配置文件未设置时回退到 LOG_LEVEL 环境变量或默认级别
func applyLogLevel(level string) string {
	if level == "" {
		level = applog.NewConfigFromEnv().Level
	}
	applog.SetLevel(level)
	return level
}

// Errors HTTP 服务器异常退出时返回错误
func (a *App) Errors() <-chan error {
	return a.errCh
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping todo backend application")

	var errs []error
	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		errs = append(errs, err)
	}
	if err := a.MCPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop MCP server",
			"error", err,
		)
		errs = append(errs, err)
	}

	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.wsHub.Stop()

	a.logger.Info("Todo backend application stopped")
	return errors.Join(errs...)
}
