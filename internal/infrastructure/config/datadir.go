package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// EnvDataDir 数据目录环境变量名
	EnvDataDir = "TODO_DATA_DIR"
	// DefaultDataDirName 默认数据目录名
	DefaultDataDirName = ".todo-api"
	// ConfigFileName 配置文件名
	ConfigFileName = "config.yaml"
)

// dataDirResolver 按 环境变量 > 用户主目录 > 当前目录 的顺序确定数据目录
type dataDirResolver struct {
	getenv  func(string) string
	homeDir func() (string, error)
}

func (r dataDirResolver) resolve() string {
	if dir := r.getenv(EnvDataDir); dir != "" {
		return filepath.Clean(dir)
	}
	home, err := r.homeDir()
	if err != nil || home == "" {
		return DefaultDataDirName
	}
	return filepath.Join(home, DefaultDataDirName)
}

var (
	dataDirMu   sync.Mutex
	dataDirPath string

	defaultResolver = dataDirResolver{getenv: os.Getenv, homeDir: os.UserHomeDir}
)

// GetDataDir 获取数据根目录，首次解析后缓存
// 优先读取 TODO_DATA_DIR 环境变量，默认 ~/.todo-api/
func GetDataDir() string {
	dataDirMu.Lock()
	defer dataDirMu.Unlock()

	if dataDirPath == "" {
		dataDirPath = defaultResolver.resolve()
	}
	return dataDirPath
}

// ResetDataDir 重置数据目录缓存（仅用于测试）
func ResetDataDir() {
	dataDirMu.Lock()
	dataDirPath = ""
	dataDirMu.Unlock()
}

// EnsureDataDir 创建数据目录并返回其路径
func EnsureDataDir() (string, error) {
	dir := GetDataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return dir, nil
}

// FilePath 配置文件路径：<data dir>/config.yaml
func FilePath() string {
	return filepath.Join(GetDataDir(), ConfigFileName)
}
