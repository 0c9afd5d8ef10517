package legacy

import (
	"fmt"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/registry"
)

// NewIdentifier 创建以注册表验证器为钩子的旧式税务标识值
// 不支持的组合在构造时返回 *core.UnsupportedCountryError
func NewIdentifier(kind core.IdentifierKind, country core.CountryCode) (*Scalar, error) {
	v, err := registry.Get(kind, country)
	if err != nil {
		return nil, err
	}

	typeName := fmt.Sprintf("%s_%s", country, kind)
	check := func(text string) (bool, string) {
		if v.Validate(text) {
			return true, ""
		}
		return false, fmt.Sprintf("not a valid %s for country %s (%s)", kind, country, v.Name())
	}
	return New(typeName, check), nil
}

// MustNewIdentifier 同 NewIdentifier，不支持的组合直接 panic
func MustNewIdentifier(kind core.IdentifierKind, country core.CountryCode) *Scalar {
	s, err := NewIdentifier(kind, country)
	if err != nil {
		panic(err)
	}
	return s
}
