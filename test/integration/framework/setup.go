//go:build integration
// +build integration

package framework

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// BinaryPath 编译后的 todo-daemon 路径，由 BuildDaemon 设置
var BinaryPath string

// findModuleRoot 从 start 向上查找包含 go.mod 的目录
func findModuleRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above " + start)
		}
		dir = parent
	}
}

// BuildDaemon 编译 cmd/server 到临时目录，TestMain 中调用一次
// 使用纯 Go 构建（CGO_ENABLED=0），与 modernc sqlite 驱动一致
func BuildDaemon() error {
	_, currentFile, _, _ := runtime.Caller(0)
	rootDir, err := findModuleRoot(filepath.Dir(currentFile))
	if err != nil {
		return fmt.Errorf("failed to locate module root: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "todo-test-bin-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	name := "todo-daemon"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	output := filepath.Join(tmpDir, name)

	cmd := exec.Command("go", "build", "-trimpath", "-o", output, "./cmd/server")
	cmd.Dir = rootDir
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(tmpDir)
		return fmt.Errorf("failed to build daemon binary: %w\n%s", err, out)
	}

	BinaryPath = output
	return nil
}

// Cleanup 删除编译产物，TestMain 结束时调用
func Cleanup() {
	if BinaryPath == "" {
		return
	}
	os.RemoveAll(filepath.Dir(BinaryPath))
	BinaryPath = ""
}

// RequireDaemonBinary 确认 BuildDaemon 已成功执行
func RequireDaemonBinary(t *testing.T) {
	t.Helper()
	if BinaryPath == "" {
		t.Fatal("daemon binary not built, call BuildDaemon() in TestMain first")
	}
	if _, err := os.Stat(BinaryPath); err != nil {
		t.Fatalf("daemon binary not available at %s: %v", BinaryPath, err)
	}
}
