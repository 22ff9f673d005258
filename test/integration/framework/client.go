//go:build integration
// +build integration

// APIClient 基于 resty 封装的 HTTP 客户端，直接复用 handler 的资源结构体
package framework

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/takizuka/todo-backend/internal/interfaces/http/handler"
	"github.com/takizuka/todo-backend/internal/interfaces/http/response"
)

// APIClient 测试用 HTTP 客户端
type APIClient struct {
	client  *resty.Client
	baseURL string
}

// NewAPIClient 创建测试用 HTTP 客户端
func NewAPIClient(baseURL string) *APIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")

	return &APIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// Result 一次调用的结果：成功时 Data 有值，失败时 Error 有值
type Result[T any] struct {
	Status int
	Data   T
	Error  *response.ErrorResponse
}

// do 执行请求，2xx 解析到 Data，4xx/5xx 解析到 Error
func do[T any](r *resty.Request, method, url string) (*Result[T], error) {
	var result Result[T]
	errBody := &response.ErrorResponse{}

	resp, err := r.SetResult(&result.Data).SetError(errBody).Execute(method, url)
	if err != nil {
		return nil, err
	}

	result.Status = resp.StatusCode()
	if resp.IsError() {
		result.Error = errBody
	}
	return &result, nil
}

// HealthCheck 健康检查
func (c *APIClient) HealthCheck() error {
	resp, err := c.client.R().Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode())
	}
	return nil
}

// ListTodos 获取待办列表
func (c *APIClient) ListTodos() (*Result[[]handler.TodoResource], error) {
	return do[[]handler.TodoResource](c.client.R(), resty.MethodGet, "/todos")
}

// GetTodo 获取单个待办
func (c *APIClient) GetTodo(id int64) (*Result[handler.TodoResource], error) {
	return do[handler.TodoResource](c.client.R(), resty.MethodGet, fmt.Sprintf("/todos/%d", id))
}

// CreateTodo 创建待办
func (c *APIClient) CreateTodo(title string) (*Result[handler.TodoResource], error) {
	body := handler.CreateTodoRequest{TodoTitle: title}
	return do[handler.TodoResource](c.client.R().SetBody(body), resty.MethodPost, "/todos")
}

// CreateTodoRaw 使用原始请求体创建待办
func (c *APIClient) CreateTodoRaw(body string) (*Result[handler.TodoResource], error) {
	return do[handler.TodoResource](c.client.R().SetBody(body), resty.MethodPost, "/todos")
}

// FinishTodo 完成待办
func (c *APIClient) FinishTodo(id int64) (*Result[handler.TodoResource], error) {
	return do[handler.TodoResource](c.client.R(), resty.MethodPut, fmt.Sprintf("/todos/%d", id))
}

// DeleteTodo 删除待办
func (c *APIClient) DeleteTodo(id int64) (*Result[struct{}], error) {
	return do[struct{}](c.client.R(), resty.MethodDelete, fmt.Sprintf("/todos/%d", id))
}
