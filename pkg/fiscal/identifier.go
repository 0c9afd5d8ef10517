// Package fiscal 提供税务标识的类型化值
//
// 调用方通常通过 ParseIdentifier 在信任边界处构造 Identifier：
// 构造成功即表示候选值已通过对应 (类型, 国家) 验证器的校验。
// 需要仅获取布尔结果时，直接使用 registry 包。
package fiscal

import (
	"encoding/json"
	"fmt"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/registry"
)

// Identifier 已验证的税务标识
// 零值表示未赋值；直接构造结构体会绕过验证
type Identifier struct {
	kind     core.IdentifierKind
	country  core.CountryCode
	value    string
	strength core.Strength
}

// ParseIdentifier 验证并构造税务标识
// 错误：
//   - 不支持的组合返回 *core.UnsupportedCountryError
//   - 候选值无效返回 core.ErrInvalidArgument
func ParseIdentifier(kind core.IdentifierKind, countryCode, candidate string) (Identifier, error) {
	v, err := registry.Default().Lookup(kind, countryCode)
	if err != nil {
		return Identifier{}, err
	}

	if !v.Validate(candidate) {
		return Identifier{}, fmt.Errorf("%w: '%s' is not a valid %s for %s",
			core.ErrInvalidArgument, candidate, kind, countryCode)
	}

	// Lookup 成功意味着国家代码可解析
	country, _ := core.ParseCountryCode(countryCode)
	return Identifier{
		kind:     kind,
		country:  country,
		value:    candidate,
		strength: v.Strength(),
	}, nil
}

// Kind 标识类型
func (id Identifier) Kind() core.IdentifierKind {
	return id.kind
}

// Country 国家代码
func (id Identifier) Country() core.CountryCode {
	return id.country
}

// Value 原始文本
func (id Identifier) Value() string {
	return id.value
}

// String 实现 fmt.Stringer 接口
func (id Identifier) String() string {
	return id.value
}

// IsZero 是否为零值
func (id Identifier) IsZero() bool {
	return id.kind == "" && id.country == "" && id.value == ""
}

// Strength 构造时使用的校验强度
func (id Identifier) Strength() core.Strength {
	return id.strength
}

// Verified 是否经过真正的校验和验证
// 仅格式检查或占位验证器接受的标识返回 false
func (id Identifier) Verified() bool {
	return !id.IsZero() && id.strength == core.StrengthChecksum
}

// identifierJSON JSON 表示
type identifierJSON struct {
	Kind    core.IdentifierKind `json:"kind"`
	Country core.CountryCode    `json:"country"`
	Value   string              `json:"value"`
}

// MarshalJSON 实现 json.Marshaler 接口
func (id Identifier) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(identifierJSON{Kind: id.kind, Country: id.country, Value: id.value})
}

// UnmarshalJSON 实现 json.Unmarshaler 接口，反序列化时重新验证
func (id *Identifier) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = Identifier{}
		return nil
	}

	var raw identifierJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}

	parsed, err := ParseIdentifier(raw.Kind, string(raw.Country), raw.Value)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
