package types

import (
	"fmt"
	"strconv"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
)

// Integer 整数标量，文本形式为十进制
type Integer struct {
	scalar[int64, integerCodec]
}

// NewInteger 创建未赋值的整数标量
func NewInteger(opts ...Option) *Integer {
	return &Integer{scalar: newScalar[int64, integerCodec](opts)}
}

type integerCodec struct{}

func (integerCodec) typeName() string { return "Integer" }

// parse 解析失败同时包装 core.ErrInvalidArgument 和 *strconv.NumError
func (integerCodec) parse(text string) (int64, error) {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: Integer text '%s': %w", core.ErrInvalidArgument, text, err)
	}
	return v, nil
}

func (integerCodec) format(v int64) string {
	return strconv.FormatInt(v, 10)
}

func (integerCodec) check(int64) error { return nil }

func (integerCodec) clone(v int64) int64 { return v }
