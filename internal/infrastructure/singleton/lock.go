package singleton

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"
)

const (
	// HealthCheckTimeout 健康检查超时时间
	HealthCheckTimeout = 2 * time.Second

	// wsaeaddrinuse Windows 下的地址占用错误码
	wsaeaddrinuse = syscall.Errno(10048)
)

// CheckAndLock 通过占用 HTTP 端口保证单实例运行
//   - 端口可用：返回 listener
//   - 端口被健康的实例占用：返回 nil, nil，调用者应直接退出
//   - 端口被占用但健康检查失败：返回错误
func CheckAndLock(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err == nil {
		return listener, nil
	}

	if !isAddrInUse(err) {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if isInstanceRunning(addr) {
		return nil, nil
	}
	return nil, fmt.Errorf("port %s is in use but health check failed", addr)
}

// isAddrInUse 检查错误是否是地址已在使用
func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE) || errors.Is(err, wsaeaddrinuse)
}

// isInstanceRunning 检查端口上是否有健康的实例
func isInstanceRunning(addr string) bool {
	url, err := healthURL(addr)
	if err != nil {
		return false
	}

	client := &http.Client{Timeout: HealthCheckTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// healthURL 由监听地址构造本机健康检查地址
// ":19970"、"0.0.0.0:19970"、"[::]:19970" 都指向 127.0.0.1
func healthURL(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", err
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s/health", net.JoinHostPort(host, port)), nil
}
