package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 待办不存在
	ErrNotFound = errors.New("todo not found")
	// ErrBusinessRule 违反业务规则
	ErrBusinessRule = errors.New("business rule violation")
)

// Error 带业务描述的领域错误
// Kind 为 ErrNotFound 或 ErrBusinessRule，可通过 errors.Is 判断
type Error struct {
	Kind    error
	Message string
}

// Error 返回错误描述
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap 返回错误类别
func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFoundError 创建待办不存在错误
func NotFoundError(id int64) error {
	return &Error{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("The requested Todo is not found. (id=%d)", id),
	}
}

// UnfinishedLimitError 创建未完成数量超限错误
func UnfinishedLimitError() error {
	return &Error{
		Kind:    ErrBusinessRule,
		Message: fmt.Sprintf("The count of un-finished Todo must not be over %d.", MaxUnfinished),
	}
}

// AlreadyFinishedError 创建重复完成错误
func AlreadyFinishedError(id int64) error {
	return &Error{
		Kind:    ErrBusinessRule,
		Message: fmt.Sprintf("The requested Todo is already finished. (id=%d)", id),
	}
}
