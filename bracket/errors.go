package bracket

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration 税率表或封顶费率配置非法
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidInput 计算输入非法（如负数金额）
	ErrInvalidInput = errors.New("invalid input")
)

// CalcError 计算错误
// 功能：携带错误类别与具体描述，Kind为ErrInvalidConfiguration或ErrInvalidInput
// 说明：两类错误都是致命错误，调用方应直接修正配置或输入，不应重试
type CalcError struct {
	Kind    error
	Message string
}

func (e *CalcError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *CalcError) Unwrap() error {
	return e.Kind
}

func configErrorf(format string, args ...any) error {
	return &CalcError{Kind: ErrInvalidConfiguration, Message: fmt.Sprintf(format, args...)}
}

func inputErrorf(format string, args ...any) error {
	return &CalcError{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}
