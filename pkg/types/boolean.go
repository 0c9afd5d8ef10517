package types

import (
	"fmt"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
)

const (
	// booleanTrue 布尔真值的文本形式
	booleanTrue = "Y"
	// booleanFalse 布尔假值的文本形式
	booleanFalse = "N"
)

// Boolean 布尔标量，文本形式为 "Y" / "N"
type Boolean struct {
	scalar[bool, booleanCodec]
}

// NewBoolean 创建未赋值的布尔标量
func NewBoolean(opts ...Option) *Boolean {
	return &Boolean{scalar: newScalar[bool, booleanCodec](opts)}
}

type booleanCodec struct{}

func (booleanCodec) typeName() string { return "Boolean" }

func (booleanCodec) parse(text string) (bool, error) {
	switch text {
	case booleanTrue:
		return true, nil
	case booleanFalse:
		return false, nil
	default:
		return false, fmt.Errorf("%w: Boolean text must be '%s' or '%s', got '%s'",
			core.ErrInvalidArgument, booleanTrue, booleanFalse, text)
	}
}

func (booleanCodec) format(v bool) string {
	if v {
		return booleanTrue
	}
	return booleanFalse
}

func (booleanCodec) check(bool) error { return nil }

func (booleanCodec) clone(v bool) bool { return v }
