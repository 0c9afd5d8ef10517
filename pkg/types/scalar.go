package types

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
)

// ScalarValue 类型化标量值：恰好持有一个 T 类型的值，并显式区分已赋值/未赋值状态
//
// 状态机：
//   - Unassigned -> Assigned(T)：仅通过 Set / SetPtr / SetText / SetTextPtr 成功赋值
//   - Assigned 之后不会回到 Unassigned（ResetOnFailure 策略除外）
//   - 读取未赋值的值返回 core.ErrInvalidState，从不返回零值
//
// 线程安全：已赋值并发布的实例可以并发读取；并发写入需要外部串行化
type ScalarValue[T any] interface {
	// Display 面向用户的展示文本；日期类型按 locale 输出长格式，其他类型与 locale 无关
	Display(loc language.Tag) (string, error)

	// Get 获取值；复合类型（列表）返回防御性副本
	Get() (T, error)

	// Text 规范文本形式，SetText(Text()) 可还原原值
	Text() (string, error)

	// SetText 从文本解析、验证并存储
	SetText(text string) error

	// SetTextPtr 同 SetText，nil 返回 core.ErrInvalidArgument
	SetTextPtr(text *string) error

	// Set 验证并存储
	Set(value T) error

	// SetPtr 同 Set，nil 返回 core.ErrInvalidArgument
	SetPtr(value *T) error

	// IsAssigned 是否已成功赋值
	IsAssigned() bool
}

// FailurePolicy 赋值失败时对已有值的处理策略
type FailurePolicy int

const (
	// KeepPrevious 赋值失败时保留之前的值（默认）
	KeepPrevious FailurePolicy = iota
	// ResetOnFailure 赋值失败时丢弃之前的值，回到未赋值状态
	ResetOnFailure
)

// String 实现Stringer接口
func (p FailurePolicy) String() string {
	switch p {
	case KeepPrevious:
		return "KeepPrevious"
	case ResetOnFailure:
		return "ResetOnFailure"
	default:
		return "Unknown"
	}
}

// IsValid 验证策略是否有效
func (p FailurePolicy) IsValid() bool {
	return p == KeepPrevious || p == ResetOnFailure
}

// Option 构造选项
type Option func(*options)

type options struct {
	policy FailurePolicy
}

// WithPolicy 设置赋值失败策略，无效策略被忽略
func WithPolicy(p FailurePolicy) Option {
	return func(o *options) {
		if p.IsValid() {
			o.policy = p
		}
	}
}

// codec 变体的解析、格式化和验证规则
type codec[T any] interface {
	// typeName 类型名称，用于错误消息
	typeName() string
	// parse 从文本解析（不包括 nil 检查）
	parse(text string) (T, error)
	// format 规范文本形式
	format(v T) string
	// check 语义验证，返回的错误已包装 core.ErrInvalidArgument
	check(v T) error
	// clone 复制值，避免暴露内部可变状态
	clone(v T) T
}

// displayer 需要 locale 相关展示的变体实现此接口
type displayer[T any] interface {
	display(v T, loc language.Tag) string
}

// scalar ScalarValue 的通用实现
// 编解码规则由类型参数 C 提供，零值即为可用的未赋值状态（KeepPrevious 策略）
type scalar[T any, C codec[T]] struct {
	policy   FailurePolicy
	value    T
	assigned bool
}

func newScalar[T any, C codec[T]](opts []Option) scalar[T, C] {
	o := options{policy: KeepPrevious}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return scalar[T, C]{policy: o.policy}
}

// codec 变体的编解码规则（无状态）
func (s *scalar[T, C]) codec() C {
	var c C
	return c
}

// Policy 当前的赋值失败策略
func (s *scalar[T, C]) Policy() FailurePolicy {
	return s.policy
}

// IsAssigned 实现 ScalarValue 接口
func (s *scalar[T, C]) IsAssigned() bool {
	return s.assigned
}

// Get 实现 ScalarValue 接口
func (s *scalar[T, C]) Get() (T, error) {
	if !s.assigned {
		var zero T
		return zero, s.unassignedErr()
	}
	return s.codec().clone(s.value), nil
}

// Text 实现 ScalarValue 接口
func (s *scalar[T, C]) Text() (string, error) {
	if !s.assigned {
		return "", s.unassignedErr()
	}
	return s.codec().format(s.value), nil
}

// Display 实现 ScalarValue 接口
func (s *scalar[T, C]) Display(loc language.Tag) (string, error) {
	if !s.assigned {
		return "", s.unassignedErr()
	}
	if d, ok := any(s.codec()).(displayer[T]); ok {
		return d.display(s.value, loc), nil
	}
	return s.codec().format(s.value), nil
}

// Set 实现 ScalarValue 接口
func (s *scalar[T, C]) Set(value T) error {
	if err := s.codec().check(value); err != nil {
		return s.fail(err)
	}
	s.value = s.codec().clone(value)
	s.assigned = true
	return nil
}

// SetPtr 实现 ScalarValue 接口
func (s *scalar[T, C]) SetPtr(value *T) error {
	if value == nil {
		return s.fail(fmt.Errorf("%w: %s value cannot be nil", core.ErrInvalidArgument, s.codec().typeName()))
	}
	return s.Set(*value)
}

// SetText 实现 ScalarValue 接口
func (s *scalar[T, C]) SetText(text string) error {
	v, err := s.codec().parse(text)
	if err != nil {
		return s.fail(err)
	}
	return s.Set(v)
}

// SetTextPtr 实现 ScalarValue 接口
func (s *scalar[T, C]) SetTextPtr(text *string) error {
	if text == nil {
		return s.fail(fmt.Errorf("%w: %s text cannot be nil", core.ErrInvalidArgument, s.codec().typeName()))
	}
	return s.SetText(*text)
}

// String 实现 fmt.Stringer 接口，未赋值时返回空字符串
func (s *scalar[T, C]) String() string {
	if !s.assigned {
		return ""
	}
	return s.codec().format(s.value)
}

// fail 按策略处理赋值失败
func (s *scalar[T, C]) fail(err error) error {
	if s.policy == ResetOnFailure {
		var zero T
		s.value = zero
		s.assigned = false
	}
	return err
}

func (s *scalar[T, C]) unassignedErr() error {
	return fmt.Errorf("%w: %s value is not assigned", core.ErrInvalidState, s.codec().typeName())
}
