//go:build integration
// +build integration

// TestDaemon 管理独立 todo-daemon 进程的启动与关闭
package framework

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// TestDaemon 测试守护进程
type TestDaemon struct {
	Name     string // 实例名称
	HTTPPort int    // HTTP 端口
	DataDir  string // 数据目录（隔离）

	binaryPath string
	cmd        *exec.Cmd
	baseURL    string
}

// DaemonOption 守护进程配置选项
type DaemonOption func(*TestDaemon)

// WithConfigYAML 启动前写入 config.yaml
func WithConfigYAML(content string) DaemonOption {
	return func(d *TestDaemon) {
		_ = os.WriteFile(filepath.Join(d.DataDir, "config.yaml"), []byte(content), 0644)
	}
}

// NewTestDaemon 创建测试守护进程，分配空闲端口和独立数据目录
func NewTestDaemon(binaryPath, name string, opts ...DaemonOption) (*TestDaemon, error) {
	httpPort, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate HTTP port: %w", err)
	}

	dataDir, err := os.MkdirTemp("", fmt.Sprintf("todo-test-%s-", name))
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	d := newDaemon(binaryPath, name, dataDir, httpPort)
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// NewTestDaemonWithConfig 复用已有数据目录和端口（用于重启场景）
func NewTestDaemonWithConfig(binaryPath, name, dataDir string, httpPort int) *TestDaemon {
	return newDaemon(binaryPath, name, dataDir, httpPort)
}

func newDaemon(binaryPath, name, dataDir string, httpPort int) *TestDaemon {
	d := &TestDaemon{
		Name:       name,
		HTTPPort:   httpPort,
		DataDir:    dataDir,
		binaryPath: binaryPath,
		baseURL:    fmt.Sprintf("http://127.0.0.1:%d", httpPort),
	}
	d.cmd = d.command()
	return d
}

// command 构建进程命令
func (d *TestDaemon) command() *exec.Cmd {
	cmd := exec.Command(d.binaryPath)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("TODO_DATA_DIR=%s", d.DataDir),
		fmt.Sprintf("TODO_HTTP_PORT=127.0.0.1:%d", d.HTTPPort),
		"TODO_DB_PATH=",
		"GIN_MODE=test",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Start 启动守护进程并等待就绪
func (d *TestDaemon) Start() error {
	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon %s: %w", d.Name, err)
	}
	return d.waitForReady(30 * time.Second)
}

// RunDuplicate 在同一端口上再启动一个实例，返回其退出错误
// 单例锁生效时该进程应立即以 0 退出
func (d *TestDaemon) RunDuplicate(timeout time.Duration) error {
	cmd := d.command()
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		<-done
		return fmt.Errorf("duplicate daemon did not exit within %v", timeout)
	}
}

// Stop 停止守护进程并清理数据目录
func (d *TestDaemon) Stop() error {
	return d.StopWithCleanup(true)
}

// StopWithCleanup 停止守护进程，可选择是否清理数据目录
func (d *TestDaemon) StopWithCleanup(cleanup bool) error {
	if d.cmd.Process != nil {
		_ = d.cmd.Process.Signal(os.Interrupt)

		done := make(chan error, 1)
		go func() {
			done <- d.cmd.Wait()
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			_ = d.cmd.Process.Kill()
			<-done
		}
	}

	if cleanup {
		return os.RemoveAll(d.DataDir)
	}
	return nil
}

// BaseURL 返回 HTTP 基础 URL
func (d *TestDaemon) BaseURL() string {
	return d.baseURL
}

// WebSocketURL 返回事件推送地址
func (d *TestDaemon) WebSocketURL() string {
	return fmt.Sprintf("ws://127.0.0.1:%d/ws/todos", d.HTTPPort)
}

// waitForReady 等待守护进程 health 端点就绪
func (d *TestDaemon) waitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(d.baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(200 * time.Millisecond)
	}

	return fmt.Errorf("daemon %s failed to become ready within %v", d.Name, timeout)
}

// getFreePort 获取一个空闲的 TCP 端口
func getFreePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
