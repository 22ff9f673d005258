package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/takizuka/todo-backend/internal/domain/todo"
	"github.com/takizuka/todo-backend/internal/interfaces/http/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockTodoService 模拟待办服务
type MockTodoService struct {
	mock.Mock
}

func (m *MockTodoService) FindAll(ctx context.Context) ([]*todo.Todo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*todo.Todo), args.Error(1)
}

func (m *MockTodoService) FindOne(ctx context.Context, id int64) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) Create(ctx context.Context, input *todo.Todo) (*todo.Todo, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) Finish(ctx context.Context, id int64) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// setupTodoRouter 创建测试路由
func setupTodoRouter(service TodoService) *gin.Engine {
	router := gin.New()
	handler := NewTodoHandler(service)

	todos := router.Group("/todos")
	{
		todos.GET("", handler.List)
		todos.POST("", handler.Create)
		todos.GET("/:id", handler.Get)
		todos.PUT("/:id", handler.Finish)
		todos.DELETE("/:id", handler.Delete)
	}
	router.GET("/health", HealthHandler)
	return router
}

func sampleTodo(id int64, title string, finished bool) *todo.Todo {
	return &todo.Todo{
		ID:        id,
		Title:     title,
		Finished:  finished,
		CreatedAt: time.Date(2019, 9, 19, 1, 1, 1, 0, time.Local),
	}
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestTodoHandler_List(t *testing.T) {
	service := new(MockTodoService)
	service.On("FindAll", mock.Anything).Return([]*todo.Todo{
		sampleTodo(1, "sample todo 1", false),
		sampleTodo(2, "sample todo 2", true),
	}, nil)

	w := doRequest(setupTodoRouter(service), http.MethodGet, "/todos", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"todoId":1,"todoTitle":"sample todo 1","finished":false,"createdAt":"2019/09/19 01:01:01"},
		{"todoId":2,"todoTitle":"sample todo 2","finished":true,"createdAt":"2019/09/19 01:01:01"}
	]`, w.Body.String())
}

func TestTodoHandler_List_Empty(t *testing.T) {
	service := new(MockTodoService)
	service.On("FindAll", mock.Anything).Return([]*todo.Todo{}, nil)

	w := doRequest(setupTodoRouter(service), http.MethodGet, "/todos", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestTodoHandler_List_StorageError(t *testing.T) {
	service := new(MockTodoService)
	service.On("FindAll", mock.Anything).Return(nil, errors.New("disk I/O error"))

	w := doRequest(setupTodoRouter(service), http.MethodGet, "/todos", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, response.CodeInternalError, body.Code)
	assert.NotContains(t, body.Message, "disk")
}

func TestTodoHandler_Get(t *testing.T) {
	service := new(MockTodoService)
	service.On("FindOne", mock.Anything, int64(1)).Return(sampleTodo(1, "sample todo 1", false), nil)

	w := doRequest(setupTodoRouter(service), http.MethodGet, "/todos/1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var res TodoResource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, int64(1), res.TodoID)
	assert.Equal(t, "sample todo 1", res.TodoTitle)
	assert.False(t, res.Finished)
	assert.Equal(t, "2019/09/19 01:01:01", res.CreatedAt)
}

func TestTodoHandler_Get_NotFound(t *testing.T) {
	service := new(MockTodoService)
	service.On("FindOne", mock.Anything, int64(99)).Return(nil, todo.NotFoundError(99))

	w := doRequest(setupTodoRouter(service), http.MethodGet, "/todos/99", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, response.CodeNotFound, body.Code)
	assert.Equal(t, "The requested Todo is not found. (id=99)", body.Message)
}

func TestTodoHandler_InvalidID(t *testing.T) {
	service := new(MockTodoService)
	router := setupTodoRouter(service)

	for _, path := range []string{"/todos/abc", "/todos/0", "/todos/-1", "/todos/1.5"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := doRequest(router, method, path, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", method, path)
			assert.Equal(t, response.CodeInvalidParam, decodeError(t, w).Code)
		}
	}
	service.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
	service.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything)
	service.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTodoHandler_Create(t *testing.T) {
	service := new(MockTodoService)
	service.On("Create", mock.Anything, mock.MatchedBy(func(in *todo.Todo) bool {
		// 客户端提交的 id、finished、createdAt 不应传入服务
		return in.Title == "buy milk" && in.ID == 0 && !in.Finished && in.CreatedAt.IsZero()
	})).Return(sampleTodo(3, "buy milk", false), nil)

	w := doRequest(setupTodoRouter(service), http.MethodPost, "/todos",
		`{"todoId":42,"todoTitle":"buy milk","finished":true,"createdAt":"2000/01/01 00:00:00"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var res TodoResource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, int64(3), res.TodoID)
	assert.Equal(t, "buy milk", res.TodoTitle)
	assert.False(t, res.Finished)
	service.AssertExpectations(t)
}

func TestTodoHandler_Create_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{}`},
		{"empty title", `{"todoTitle":""}`},
		{"too long", `{"todoTitle":"` + strings.Repeat("a", todo.MaxTitleLength+1) + `"}`},
		{"too long multibyte", `{"todoTitle":"` + strings.Repeat("牛", todo.MaxTitleLength+1) + `"}`},
		{"wrong type", `{"todoTitle":123}`},
		{"malformed json", `{"todoTitle":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockTodoService)
			w := doRequest(setupTodoRouter(service), http.MethodPost, "/todos", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, response.CodeInvalidParam, decodeError(t, w).Code)
			service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestTodoHandler_Create_MaxLengthMultibyte(t *testing.T) {
	title := strings.Repeat("牛", todo.MaxTitleLength)
	service := new(MockTodoService)
	service.On("Create", mock.Anything, mock.Anything).Return(sampleTodo(1, title, false), nil)

	w := doRequest(setupTodoRouter(service), http.MethodPost, "/todos", `{"todoTitle":"`+title+`"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestTodoHandler_Create_LimitReached(t *testing.T) {
	service := new(MockTodoService)
	service.On("Create", mock.Anything, mock.Anything).Return(nil, todo.UnfinishedLimitError())

	w := doRequest(setupTodoRouter(service), http.MethodPost, "/todos", `{"todoTitle":"sixth"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, response.CodeBusinessRule, body.Code)
	assert.Equal(t, "The count of un-finished Todo must not be over 5.", body.Message)
}

func TestTodoHandler_Finish(t *testing.T) {
	service := new(MockTodoService)
	service.On("Finish", mock.Anything, int64(1)).Return(sampleTodo(1, "sample todo 1", true), nil)

	w := doRequest(setupTodoRouter(service), http.MethodPut, "/todos/1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var res TodoResource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Finished)
}

func TestTodoHandler_Finish_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		wantCode int
	}{
		{"not found", todo.NotFoundError(1), http.StatusNotFound, response.CodeNotFound},
		{"already finished", todo.AlreadyFinishedError(1), http.StatusConflict, response.CodeBusinessRule},
		{"storage", errors.New("database is locked"), http.StatusInternalServerError, response.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockTodoService)
			service.On("Finish", mock.Anything, int64(1)).Return(nil, tt.err)

			w := doRequest(setupTodoRouter(service), http.MethodPut, "/todos/1", "")

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestTodoHandler_Delete(t *testing.T) {
	service := new(MockTodoService)
	service.On("Delete", mock.Anything, int64(1)).Return(nil)

	w := doRequest(setupTodoRouter(service), http.MethodDelete, "/todos/1", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	service.AssertExpectations(t)
}

func TestTodoHandler_Delete_NotFound(t *testing.T) {
	service := new(MockTodoService)
	service.On("Delete", mock.Anything, int64(7)).Return(todo.NotFoundError(7))

	w := doRequest(setupTodoRouter(service), http.MethodDelete, "/todos/7", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeNotFound, decodeError(t, w).Code)
}

func TestHealthHandler(t *testing.T) {
	w := doRequest(setupTodoRouter(new(MockTodoService)), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestErrInvalidTitle_IsDomainError(t *testing.T) {
	assert.True(t, errors.Is(todo.ValidateTitle(""), ErrInvalidTitle))
}
