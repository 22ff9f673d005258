package http

import (
	"encoding/json"
	"fmt"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appTodo "github.com/takizuka/todo-backend/internal/application/todo"
	"github.com/takizuka/todo-backend/internal/infrastructure/config"
	"github.com/takizuka/todo-backend/internal/infrastructure/notification"
	"github.com/takizuka/todo-backend/internal/infrastructure/storage"
	"github.com/takizuka/todo-backend/internal/infrastructure/websocket"
	"github.com/takizuka/todo-backend/internal/interfaces/http/handler"
	"github.com/takizuka/todo-backend/internal/interfaces/http/middleware"
	"github.com/takizuka/todo-backend/internal/interfaces/mcp"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupServer 按生产路由组装服务器，存储使用内存 SQLite
func setupServer(t *testing.T) *HTTPServer {
	t.Helper()

	db, cleanup, err := storage.ProvideDB(&config.DatabaseConfig{Path: storage.MemoryDSN})
	require.NoError(t, err)
	t.Cleanup(cleanup)

	hub := websocket.NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)

	service := appTodo.NewService(storage.NewTransactor(db), notification.NewWebSocketPusher(hub))
	return NewServer(
		&config.ServerConfig{HTTPPort: "127.0.0.1:0"},
		handler.NewTodoHandler(service),
		handler.NewEventsHandler(hub),
		mcp.NewServer(service),
	)
}

func serve(s *HTTPServer, method, path, body string) *httptest.ResponseRecorder {
	var req *nethttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_TodoScenario(t *testing.T) {
	s := setupServer(t)

	w := serve(s, nethttp.MethodGet, "/todos", "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = serve(s, nethttp.MethodPost, "/todos", `{"todoTitle":"first"}`)
	require.Equal(t, nethttp.StatusCreated, w.Code)
	var created handler.TodoResource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "first", created.TodoTitle)
	assert.False(t, created.Finished)

	path := fmt.Sprintf("/todos/%d", created.TodoID)

	w = serve(s, nethttp.MethodGet, path, "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
	var fetched handler.TodoResource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created, fetched)

	w = serve(s, nethttp.MethodPut, path, "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"finished":true`)

	w = serve(s, nethttp.MethodPut, path, "")
	assert.Equal(t, nethttp.StatusConflict, w.Code)

	w = serve(s, nethttp.MethodDelete, path, "")
	assert.Equal(t, nethttp.StatusNoContent, w.Code)

	w = serve(s, nethttp.MethodGet, path, "")
	assert.Equal(t, nethttp.StatusNotFound, w.Code)

	w = serve(s, nethttp.MethodDelete, path, "")
	assert.Equal(t, nethttp.StatusNotFound, w.Code)
}

func TestServer_UnfinishedLimit(t *testing.T) {
	s := setupServer(t)

	for i := 0; i < 5; i++ {
		w := serve(s, nethttp.MethodPost, "/todos", fmt.Sprintf(`{"todoTitle":"task %d"}`, i))
		require.Equal(t, nethttp.StatusCreated, w.Code)
	}

	w := serve(s, nethttp.MethodPost, "/todos", `{"todoTitle":"task 6"}`)
	assert.Equal(t, nethttp.StatusConflict, w.Code)

	// 完成一个后可以继续创建
	w = serve(s, nethttp.MethodPut, "/todos/1", "")
	require.Equal(t, nethttp.StatusOK, w.Code)
	w = serve(s, nethttp.MethodPost, "/todos", `{"todoTitle":"task 6"}`)
	assert.Equal(t, nethttp.StatusCreated, w.Code)
}

func TestServer_GBKTitle(t *testing.T) {
	s := setupServer(t)

	gbk, err := simplifiedchinese.GBK.NewEncoder().String(`{"todoTitle":"买牛奶"}`)
	require.NoError(t, err)

	w := serve(s, nethttp.MethodPost, "/todos", gbk)
	require.Equal(t, nethttp.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"todoTitle":"买牛奶"`)
}

func TestServer_AmbientRoutes(t *testing.T) {
	s := setupServer(t)

	w := serve(s, nethttp.MethodGet, "/health", "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	w = serve(s, nethttp.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/todos/{id}")

	w = serve(s, nethttp.MethodGet, "/unknown", "")
	assert.Equal(t, nethttp.StatusNotFound, w.Code)
}

func TestServer_StartWithListener(t *testing.T) {
	s := setupServer(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(listener) }()

	url := "http://" + listener.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := nethttp.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == nethttp.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, s.Stop())
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewServer_DefaultPort(t *testing.T) {
	s := NewServer(nil, handler.NewTodoHandler(nil), nil, nil)
	assert.Equal(t, config.DefaultHTTPPort, s.Addr())
}
