package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupConfigEnv 隔离数据目录和相关环境变量
func setupConfigEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	ResetDataDir()
	t.Setenv(EnvDataDir, dir)
	t.Setenv(EnvHTTPPort, "")
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvLogLevel, "")
	t.Cleanup(ResetDataDir)

	return dir
}

func TestNewConfig_Defaults(t *testing.T) {
	dir := setupConfigEnv(t)

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, ":19970", cfg.Server.HTTPPort)
	assert.Equal(t, filepath.Join(dir, "todo.db"), cfg.Database.Path)
	assert.Empty(t, cfg.Log.Level)
}

func TestNewConfig_EnvOverride(t *testing.T) {
	setupConfigEnv(t)
	t.Setenv(EnvHTTPPort, ":29970")
	t.Setenv(EnvDBPath, ":memory:")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, ":29970", cfg.Server.HTTPPort)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestNewConfig_File(t *testing.T) {
	dir := setupConfigEnv(t)

	content := "server:\n  http_port: \":30000\"\nlog:\n  level: warn\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, ":30000", cfg.Server.HTTPPort)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "todo.db"), cfg.Database.Path, "未配置的字段应使用默认值")

	// 环境变量优先于配置文件
	t.Setenv(EnvHTTPPort, ":30001")
	cfg, err = NewConfig()
	require.NoError(t, err)
	assert.Equal(t, ":30001", cfg.Server.HTTPPort)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := setupConfigEnv(t)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
