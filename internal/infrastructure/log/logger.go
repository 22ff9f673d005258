package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/takizuka/todo-backend/internal/infrastructure/log/handler"
)

// 全局 logger 实例
var (
	defaultLogger *slog.Logger
	level         = new(slog.LevelVar)
)

// Init 初始化日志系统
func Init(cfg *Config) {
	if cfg == nil {
		cfg = NewConfigFromEnv()
	}
	c := *cfg
	c.normalize()
	if err := c.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log config, falling back to defaults: %v\n", err)
	}
	cfg = &c

	level.Set(parseLevel(cfg.Level))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	out, err := openOutput(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log output %q, falling back to stdout: %v\n", cfg.Output, err)
		out = os.Stdout
	}

	// 根据格式选择处理器
	var logHandler slog.Handler
	if cfg.Format == FormatJSON {
		logHandler = handler.NewJSONHandler(out, opts)
	} else {
		logHandler = handler.NewConsoleHandler(out, opts)
	}

	// 添加服务标识
	defaultLogger = slog.New(logHandler.WithAttrs([]slog.Attr{
		slog.String("service", "todo-backend"),
	}))

	slog.SetDefault(defaultLogger)
}

// GetLogger 获取默认 logger
func GetLogger() *slog.Logger {
	if defaultLogger == nil {
		// 未初始化，使用默认配置
		Init(nil)
	}
	return defaultLogger
}

// With 创建带有额外字段的 logger
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// NewModuleLogger 为特定模块创建 logger
func NewModuleLogger(module, component string) *slog.Logger {
	return GetLogger().With(
		slog.String("module", module),
		slog.String("component", component),
	)
}

// SetLevel 运行时调整日志级别，空字符串不做修改
func SetLevel(lvl string) {
	if lvl == "" {
		return
	}
	level.Set(parseLevel(lvl))
}

// IsDebugMode 检查是否为调试模式
func IsDebugMode() bool {
	return level.Level() <= slog.LevelDebug
}

// openOutput 解析输出目标
func openOutput(cfg *Config) (io.Writer, error) {
	if path, ok := cfg.FilePath(); ok {
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	}
	switch cfg.Output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("unsupported log output: %s", cfg.Output)
	}
}

// parseLevel 解析日志级别
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
