package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// EnvHTTPPort HTTP 端口环境变量名
	EnvHTTPPort = "TODO_HTTP_PORT"
	// EnvDBPath 数据库文件路径环境变量名
	EnvDBPath = "TODO_DB_PATH"
	// EnvLogLevel 日志级别环境变量名（与 log 包共用）
	EnvLogLevel = "LOG_LEVEL"

	// DefaultHTTPPort 默认 HTTP 端口
	DefaultHTTPPort = ":19970"
	// DefaultDBFileName 默认数据库文件名
	DefaultDBFileName = "todo.db"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"` // 固定端口，用于单例锁
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Path SQLite 文件路径，":memory:" 表示内存库
	Path string `yaml:"path"`
}

// LogConfig 运行时可调整的日志配置
type LogConfig struct {
	Level string `yaml:"level"`
}

// NewConfig 创建配置
// 优先级：环境变量 > 配置文件 > 默认值
func NewConfig() (*Config, error) {
	return Load(FilePath())
}

// Load 从指定配置文件加载配置，文件不存在时仅使用默认值和环境变量
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	return cfg, nil
}

// defaultConfig 默认配置
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(GetDataDir(), DefaultDBFileName),
		},
	}
}

// mergeFile 读取 YAML 配置文件并覆盖默认值（空字段不覆盖）
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fileCfg.Server.HTTPPort != "" {
		c.Server.HTTPPort = fileCfg.Server.HTTPPort
	}
	if fileCfg.Database.Path != "" {
		c.Database.Path = fileCfg.Database.Path
	}
	if fileCfg.Log.Level != "" {
		c.Log.Level = fileCfg.Log.Level
	}
	return nil
}

// applyEnv 应用环境变量覆盖
func (c *Config) applyEnv() {
	if port := os.Getenv(EnvHTTPPort); port != "" {
		c.Server.HTTPPort = port
	}
	if path := os.Getenv(EnvDBPath); path != "" {
		c.Database.Path = path
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}
