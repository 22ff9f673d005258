package todo

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidTitle 标题为空或超长
var ErrInvalidTitle = errors.New("invalid todo title")

// ValidateTitle 校验标题：不能为空，长度不超过 MaxTitleLength 个字符
func ValidateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: todoTitle must not be empty", ErrInvalidTitle)
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return fmt.Errorf("%w: todoTitle size must be between 1 and %d (got %d)", ErrInvalidTitle, MaxTitleLength, n)
	}
	return nil
}
