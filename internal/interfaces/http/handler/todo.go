package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/takizuka/todo-backend/internal/domain/todo"
	"github.com/takizuka/todo-backend/internal/infrastructure/log"
	"github.com/takizuka/todo-backend/internal/interfaces/http/response"
)

// ErrInvalidTitle 标题校验失败
var ErrInvalidTitle = todo.ErrInvalidTitle

// errInvalidID 路径中的 id 不是正整数
var errInvalidID = errors.New("id must be a positive integer")

// TodoService 待办应用服务
type TodoService interface {
	FindAll(ctx context.Context) ([]*todo.Todo, error)
	FindOne(ctx context.Context, id int64) (*todo.Todo, error)
	Create(ctx context.Context, input *todo.Todo) (*todo.Todo, error)
	Finish(ctx context.Context, id int64) (*todo.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// TodoHandler 待办事项处理器
type TodoHandler struct {
	service TodoService
	logger  *slog.Logger
}

// NewTodoHandler 创建待办事项处理器
func NewTodoHandler(service TodoService) *TodoHandler {
	return &TodoHandler{
		service: service,
		logger:  log.NewModuleLogger("http", "todo_handler"),
	}
}

// TodoResource 待办资源
type TodoResource struct {
	TodoID    int64  `json:"todoId" example:"1"`
	TodoTitle string `json:"todoTitle" example:"sample todo 1"`
	Finished  bool   `json:"finished" example:"false"`
	CreatedAt string `json:"createdAt" example:"2019/09/19 01:01:01"`
}

// CreateTodoRequest 创建待办请求
// 请求中的 todoId、finished、createdAt 会被忽略
type CreateTodoRequest struct {
	TodoTitle string `json:"todoTitle" binding:"required" example:"buy milk"`
}

// HealthHandler 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router /health [get]
func HealthHandler(c *gin.Context) {
	response.OK(c, response.HealthResponse{Status: "ok"})
}

// toResource 领域模型转换为资源
func toResource(item *todo.Todo) *TodoResource {
	return &TodoResource{
		TodoID:    item.ID,
		TodoTitle: item.Title,
		Finished:  item.Finished,
		CreatedAt: item.CreatedAt.Local().Format(todo.DateTimeLayout),
	}
}

// toDomain 请求转换为领域模型，只取标题
func toDomain(req *CreateTodoRequest) *todo.Todo {
	return &todo.Todo{Title: req.TodoTitle}
}

// List 获取待办列表
// @Summary 获取待办列表
// @Description 按 todoId 升序返回全部待办
// @Tags 待办
// @Produce json
// @Success 200 {array} TodoResource
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	items, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resources := make([]*TodoResource, 0, len(items))
	for _, item := range items {
		resources = append(resources, toResource(item))
	}
	response.OK(c, resources)
}

// Get 获取单个待办
// @Summary 获取单个待办
// @Tags 待办
// @Produce json
// @Param id path int true "待办ID"
// @Success 200 {object} TodoResource
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [get]
func (h *TodoHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := h.service.FindOne(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, toResource(item))
}

// Create 创建待办
// @Summary 创建待办
// @Description 未完成待办达到上限时返回 409
// @Tags 待办
// @Accept json
// @Produce json
// @Param body body CreateTodoRequest true "待办标题"
// @Success 201 {object} TodoResource
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeInvalidParam, "Invalid request body", err.Error())
		return
	}
	if err := todo.ValidateTitle(req.TodoTitle); err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeInvalidParam, "Invalid request body", err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), toDomain(&req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, toResource(created))
}

// Finish 完成待办
// @Summary 完成待办
// @Tags 待办
// @Produce json
// @Param id path int true "待办ID"
// @Success 200 {object} TodoResource
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /todos/{id} [put]
func (h *TodoHandler) Finish(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	finished, err := h.service.Finish(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, toResource(finished))
}

// Delete 删除待办
// @Summary 删除待办
// @Tags 待办
// @Param id path int true "待办ID"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

// parseID 解析路径参数 id，失败时直接写入 400
func (h *TodoHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeInvalidParam, errInvalidID.Error(), "id="+c.Param("id"))
		return 0, false
	}
	return id, true
}

// writeError 按错误类别写入响应
// 领域错误不记录错误日志，存储错误在这里记录一次
func (h *TodoHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, todo.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, todo.ErrBusinessRule):
		response.Error(c, http.StatusConflict, response.CodeBusinessRule, err.Error())
	case errors.Is(err, todo.ErrInvalidTitle):
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeInvalidParam, "Invalid request body", err.Error())
	default:
		log.FromContext(c.Request.Context(), h.logger).Error("Todo operation failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Internal server error")
	}
}
