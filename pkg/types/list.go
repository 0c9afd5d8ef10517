package types

import (
	"fmt"
	"strings"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
)

// listSeparator 列表元素分隔符
const listSeparator = ","

// StringList 字符串列表标量，文本形式以逗号分隔
//
// 解析规则：按 "," 分割，去除每个元素首尾空白，丢弃空元素，保持顺序，允许重复
// 存储的列表总是规范形式：元素非空、无首尾空白、不含逗号
type StringList struct {
	scalar[[]string, listCodec]
}

// NewStringList 创建未赋值的列表标量
func NewStringList(opts ...Option) *StringList {
	return &StringList{scalar: newScalar[[]string, listCodec](opts)}
}

type listCodec struct{}

func (listCodec) typeName() string { return "StringList" }

func (listCodec) parse(text string) ([]string, error) {
	parts := strings.Split(text, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (listCodec) format(v []string) string {
	return strings.Join(v, listSeparator)
}

func (listCodec) check(v []string) error {
	if v == nil {
		return fmt.Errorf("%w: StringList value cannot be nil", core.ErrInvalidArgument)
	}
	for i, e := range v {
		switch {
		case strings.TrimSpace(e) == "":
			return fmt.Errorf("%w: StringList element %d is empty", core.ErrInvalidArgument, i)
		case strings.TrimSpace(e) != e:
			return fmt.Errorf("%w: StringList element %d has surrounding whitespace", core.ErrInvalidArgument, i)
		case strings.Contains(e, listSeparator):
			return fmt.Errorf("%w: StringList element %d contains '%s'", core.ErrInvalidArgument, i, listSeparator)
		}
	}
	return nil
}

func (listCodec) clone(v []string) []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}
