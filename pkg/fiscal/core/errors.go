package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument 参数无效（空输入、格式错误、存储空值）
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState 状态无效（读取未赋值的值）
	ErrInvalidState = errors.New("invalid state")

	// ErrUnsupportedCountry 指定类型下没有注册该国家的验证器
	ErrUnsupportedCountry = errors.New("unsupported country")
)

// UnsupportedCountryError 不支持的(类型, 国家)组合
type UnsupportedCountryError struct {
	Kind    IdentifierKind
	Country string
}

// Error 实现 error 接口
func (e *UnsupportedCountryError) Error() string {
	return fmt.Sprintf("%s: no %s validator for country '%s'", ErrUnsupportedCountry, e.Kind, e.Country)
}

// Unwrap 支持 errors.Is(err, ErrUnsupportedCountry)
func (e *UnsupportedCountryError) Unwrap() error {
	return ErrUnsupportedCountry
}
