package log

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// 日志相关环境变量
const (
	EnvLevel     = "LOG_LEVEL"
	EnvFormat    = "LOG_FORMAT"
	EnvOutput    = "LOG_OUTPUT"
	EnvAddSource = "LOG_ADD_SOURCE"
	EnvMode      = "ENV"

	FormatConsole = "console"
	FormatJSON    = "json"

	outputFilePrefix = "file:"
)

// Config 日志配置
type Config struct {
	// Level 日志级别：debug, info, warn, error
	Level string `json:"level" env:"LOG_LEVEL"`

	// Format 日志格式：console, json
	Format string `json:"format" env:"LOG_FORMAT"`

	// Output 输出目标：stdout, stderr, file:/path/to/log
	Output string `json:"output" env:"LOG_OUTPUT"`

	AddSource bool `json:"add_source" env:"LOG_ADD_SOURCE"`
}

// lookupFunc 与 os.LookupEnv 签名一致，便于测试注入
type lookupFunc func(key string) (string, bool)

// NewConfigFromEnv 从环境变量创建配置
// ENV=development 时强制 debug 级别、console 格式并输出源码位置
func NewConfigFromEnv() *Config {
	return loadConfig(os.LookupEnv)
}

func loadConfig(lookup lookupFunc) *Config {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		Level:  get(EnvLevel),
		Format: get(EnvFormat),
		Output: get(EnvOutput),
	}
	if v := get(EnvAddSource); v != "" {
		// 无法解析时保持关闭
		cfg.AddSource, _ = strconv.ParseBool(v)
	}

	if strings.EqualFold(get(EnvMode), "development") {
		cfg.Level = "debug"
		cfg.Format = FormatConsole
		cfg.AddSource = true
	}

	cfg.normalize()
	return cfg
}

// normalize 填充默认值并统一大小写，file: 路径保持原样
func (c *Config) normalize() {
	c.Level = strings.ToLower(c.Level)
	if c.Level == "" {
		c.Level = "info"
	}

	c.Format = strings.ToLower(c.Format)
	if c.Format == "" {
		c.Format = FormatConsole
	}

	if c.Output == "" {
		c.Output = "stdout"
	} else if !strings.HasPrefix(c.Output, outputFilePrefix) {
		c.Output = strings.ToLower(c.Output)
	}
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Level)
	}

	switch c.Format {
	case FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("invalid log format: %q", c.Format)
	}

	switch {
	case c.Output == "stdout", c.Output == "stderr":
	case strings.HasPrefix(c.Output, outputFilePrefix):
		if strings.TrimPrefix(c.Output, outputFilePrefix) == "" {
			return fmt.Errorf("log output %q has empty file path", c.Output)
		}
	default:
		return fmt.Errorf("unsupported log output: %s", c.Output)
	}
	return nil
}

// FilePath 输出为文件时返回文件路径
func (c *Config) FilePath() (string, bool) {
	if !strings.HasPrefix(c.Output, outputFilePrefix) {
		return "", false
	}
	return strings.TrimPrefix(c.Output, outputFilePrefix), true
}
