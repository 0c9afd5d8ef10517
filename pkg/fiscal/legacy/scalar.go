// Package legacy 提供旧式的可变验证值：一个字符串加一条诊断消息
//
// 新代码应使用 types 包的 ScalarValue 或 fiscal.Identifier；
// 本包保留给仍以 "先设置、再读取诊断" 方式对接税务标识验证器的调用方。
package legacy

import (
	"fmt"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
	"github.com/stivlo/obliquid-lib-sub001/pkg/types"
)

// CheckFunc 验证钩子，返回是否有效以及诊断消息
type CheckFunc func(text string) (ok bool, message string)

// Scalar 旧式可变验证值
//
// 两个状态：Unassigned 和 Assigned(value)，另有一条诊断消息。
// 赋值失败总是回到 Unassigned（types.ResetOnFailure），之前的有效值不保留。
// value 和 message 成对更新，并发修改需要外部串行化。
type Scalar struct {
	typeName string
	check    CheckFunc
	value    *string
	message  string
}

// New 创建未赋值的旧式值，check 为 nil 时接受任何值
func New(typeName string, check CheckFunc) *Scalar {
	return &Scalar{typeName: typeName, check: check}
}

// TypeName 类型名称
func (s *Scalar) TypeName() string {
	return s.typeName
}

// Policy 赋值失败策略，固定为 types.ResetOnFailure
func (s *Scalar) Policy() types.FailurePolicy {
	return types.ResetOnFailure
}

// Set 验证并存储
// 失败时重置为未赋值，记录诊断消息，返回包含类型名称、尝试的值和诊断消息的 core.ErrInvalidArgument
func (s *Scalar) Set(text string) error {
	ok, message := true, ""
	if s.check != nil {
		ok, message = s.check(text)
	}
	if !ok {
		s.value = nil
		s.message = message
		return fmt.Errorf("%w: invalid %s value '%s': %s", core.ErrInvalidArgument, s.typeName, text, message)
	}

	v := text
	s.value = &v
	s.message = ""
	return nil
}

// SetPtr 同 Set，nil 视为失败的赋值
func (s *Scalar) SetPtr(text *string) error {
	if text == nil {
		s.value = nil
		s.message = "value is nil"
		return fmt.Errorf("%w: invalid %s value: %s", core.ErrInvalidArgument, s.typeName, s.message)
	}
	return s.Set(*text)
}

// Get 获取值，未赋值返回 core.ErrInvalidState
func (s *Scalar) Get() (string, error) {
	if s.value == nil {
		return "", fmt.Errorf("%w: %s value is not assigned", core.ErrInvalidState, s.typeName)
	}
	return *s.value, nil
}

// IsAssigned 是否已成功赋值
func (s *Scalar) IsAssigned() bool {
	return s.value != nil
}

// Message 最近一次验证的诊断消息，成功赋值后为空
func (s *Scalar) Message() string {
	return s.message
}

// String 实现 fmt.Stringer 接口，未赋值时返回空字符串
func (s *Scalar) String() string {
	if s.value == nil {
		return ""
	}
	return *s.value
}
