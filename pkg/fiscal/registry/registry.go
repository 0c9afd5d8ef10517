package registry

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/checksum"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
	"github.com/stivlo/obliquid-lib-sub001/pkg/logging"
)

// table 单个标识类型的 国家 -> 验证器 映射
type table map[core.CountryCode]core.Validator

// Registry 验证器注册表
// 注册表在创建后不可修改，并发读取无需加锁
type Registry struct {
	tables map[core.IdentifierKind]table
}

var (
	// defaultRegistry 默认注册表（包加载时构建）
	defaultRegistry = newDefault()
)

// Default 获取默认注册表
func Default() *Registry {
	return defaultRegistry
}

// newDefault 构建默认的注册表
//
// 罗马尼亚的个人税号和增值税号沿用意大利算法，这是已有行为的占位实现，
// 在确认罗马尼亚的校验算法之前保持不变
func newDefault() *Registry {
	personal := checksum.NewItalianTaxCode()
	vat := checksum.NewItalianVAT()
	esVAT := checksum.NewSpanishVAT()

	return &Registry{
		tables: map[core.IdentifierKind]table{
			core.KindPersonalTaxID: {
				core.CountryIT: personal,
				core.CountryFR: checksum.NewUnimplementedAlwaysValid("fr_personal_tax_code"),
				core.CountryRO: personal,
			},
			core.KindVATID: {
				core.CountryIT: vat,
				core.CountryES: esVAT,
				core.CountryFR: checksum.NewUnimplementedAlwaysValid("fr_vat_number"),
				core.CountryRO: vat,
				core.CountryDE: checksum.NewUnimplementedAlwaysValid("de_vat_number"),
			},
			core.KindCompanyTaxID: {
				core.CountryIT: checksum.NewAnyOf("it_company_tax_id", personal, vat),
				core.CountryES: esVAT,
			},
		},
	}
}

// Get 获取指定类型和国家的验证器
// 不支持的组合返回 *core.UnsupportedCountryError，绝不回退到默认验证器
func (r *Registry) Get(kind core.IdentifierKind, country core.CountryCode) (core.Validator, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown identifier kind '%s'", core.ErrInvalidArgument, kind)
	}

	v, ok := r.tables[kind][country]
	if !ok {
		logging.L().Debug("validator not registered",
			zap.Stringer("kind", kind), zap.String("country", string(country)))
		return nil, &core.UnsupportedCountryError{Kind: kind, Country: string(country)}
	}
	return v, nil
}

// Has 检查是否注册了指定组合
func (r *Registry) Has(kind core.IdentifierKind, country core.CountryCode) bool {
	_, ok := r.tables[kind][country]
	return ok
}

// Lookup 从外部输入的国家代码查找验证器
// 未知国家代码同样视为不支持的组合
func (r *Registry) Lookup(kind core.IdentifierKind, countryCode string) (core.Validator, error) {
	country, err := core.ParseCountryCode(countryCode)
	if err != nil {
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: unknown identifier kind '%s'", core.ErrInvalidArgument, kind)
		}
		return nil, &core.UnsupportedCountryError{Kind: kind, Country: countryCode}
	}
	return r.Get(kind, country)
}

// Validate 验证候选标识
// 返回：
//   - 候选值是否有效；格式错误的候选值返回 false 而非错误
//   - 不支持的组合返回 *core.UnsupportedCountryError
func (r *Registry) Validate(kind core.IdentifierKind, countryCode, candidate string) (bool, error) {
	v, err := r.Lookup(kind, countryCode)
	if err != nil {
		return false, err
	}
	return v.Validate(candidate), nil
}

// ValidateNullable 验证可能为空的候选标识
// nil 属于调用约定违规，返回 core.ErrInvalidArgument
func (r *Registry) ValidateNullable(kind core.IdentifierKind, countryCode string, candidate *string) (bool, error) {
	if candidate == nil {
		return false, fmt.Errorf("%w: candidate cannot be nil", core.ErrInvalidArgument)
	}
	return r.Validate(kind, countryCode, *candidate)
}

// IsValid 布尔入口：nil、不支持的组合和无效候选值一律返回 false
func (r *Registry) IsValid(kind core.IdentifierKind, countryCode string, candidate *string) bool {
	ok, err := r.ValidateNullable(kind, countryCode, candidate)
	return err == nil && ok
}

// Supported 列出指定类型支持的国家（按字母排序）
func (r *Registry) Supported(kind core.IdentifierKind) []core.CountryCode {
	t := r.tables[kind]
	out := make([]core.CountryCode, 0, len(t))
	for c := range t {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Get 使用默认注册表获取验证器
func Get(kind core.IdentifierKind, country core.CountryCode) (core.Validator, error) {
	return Default().Get(kind, country)
}

// Validate 使用默认注册表验证候选标识
func Validate(kind core.IdentifierKind, countryCode, candidate string) (bool, error) {
	return Default().Validate(kind, countryCode, candidate)
}

// ValidateNullable 使用默认注册表验证可能为空的候选标识
func ValidateNullable(kind core.IdentifierKind, countryCode string, candidate *string) (bool, error) {
	return Default().ValidateNullable(kind, countryCode, candidate)
}

// IsValid 使用默认注册表的布尔入口
func IsValid(kind core.IdentifierKind, countryCode string, candidate *string) bool {
	return Default().IsValid(kind, countryCode, candidate)
}

// Supported 列出默认注册表中指定类型支持的国家
func Supported(kind core.IdentifierKind) []core.CountryCode {
	return Default().Supported(kind)
}
