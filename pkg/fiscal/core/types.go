package core

import (
	"fmt"
	"strings"
)

// CountryCode ISO 3166-1 alpha-2 国家代码（封闭集合）
type CountryCode string

const (
	// CountryIT 意大利
	CountryIT CountryCode = "IT"
	// CountryES 西班牙
	CountryES CountryCode = "ES"
	// CountryFR 法国
	CountryFR CountryCode = "FR"
	// CountryRO 罗马尼亚
	CountryRO CountryCode = "RO"
	// CountryDE 德国
	CountryDE CountryCode = "DE"
)

// allCountries 所有已知国家，按字母顺序
var allCountries = []CountryCode{CountryDE, CountryES, CountryFR, CountryIT, CountryRO}

// ParseCountryCode 从外部输入解析国家代码
// 说明：去除首尾空白并转为大写；未知代码返回 ErrInvalidArgument，绝不回退到默认值
func ParseCountryCode(s string) (CountryCode, error) {
	c := CountryCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown country code '%s'", ErrInvalidArgument, s)
	}
	return c, nil
}

// Countries 返回所有已知国家代码的副本
func Countries() []CountryCode {
	out := make([]CountryCode, len(allCountries))
	copy(out, allCountries)
	return out
}

// String 实现Stringer接口
func (c CountryCode) String() string {
	return string(c)
}

// IsValid 验证国家代码是否属于已知集合
func (c CountryCode) IsValid() bool {
	switch c {
	case CountryIT, CountryES, CountryFR, CountryRO, CountryDE:
		return true
	default:
		return false
	}
}

// IdentifierKind 税务标识类型
type IdentifierKind string

const (
	// KindPersonalTaxID 个人税号（如意大利 Codice Fiscale）
	KindPersonalTaxID IdentifierKind = "personal_tax_id"
	// KindVATID 增值税号（如意大利 Partita IVA）
	KindVATID IdentifierKind = "vat_id"
	// KindCompanyTaxID 公司税号（个人税号或增值税号之一）
	KindCompanyTaxID IdentifierKind = "company_tax_id"
)

// kindAliases 简写别名，便于命令行和HTTP参数
var kindAliases = map[string]IdentifierKind{
	"personal": KindPersonalTaxID,
	"vat":      KindVATID,
	"company":  KindCompanyTaxID,
}

// ParseIdentifierKind 解析标识类型，支持规范名称和简写别名
func ParseIdentifierKind(s string) (IdentifierKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if k := IdentifierKind(name); k.IsValid() {
		return k, nil
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown identifier kind '%s'", ErrInvalidArgument, s)
}

// Kinds 返回所有标识类型
func Kinds() []IdentifierKind {
	return []IdentifierKind{KindPersonalTaxID, KindVATID, KindCompanyTaxID}
}

// String 实现Stringer接口
func (k IdentifierKind) String() string {
	return string(k)
}

// IsValid 验证标识类型是否有效
func (k IdentifierKind) IsValid() bool {
	switch k {
	case KindPersonalTaxID, KindVATID, KindCompanyTaxID:
		return true
	default:
		return false
	}
}

// Strength 验证器的校验强度
// 用于区分真正的校验和算法、仅格式检查和未实现的占位验证器
type Strength int

const (
	// StrengthChecksum 完整的校验和验证
	StrengthChecksum Strength = iota
	// StrengthFormatOnly 仅检查前缀和长度，不做算术校验
	StrengthFormatOnly
	// StrengthUnimplemented 未实现，任何输入都视为有效
	StrengthUnimplemented
)

// String 实现Stringer接口
func (s Strength) String() string {
	switch s {
	case StrengthChecksum:
		return "checksum"
	case StrengthFormatOnly:
		return "format_only"
	case StrengthUnimplemented:
		return "unimplemented"
	default:
		return "unknown"
	}
}

// IsValid 验证强度值是否有效
func (s Strength) IsValid() bool {
	return s >= StrengthChecksum && s <= StrengthUnimplemented
}

// Weaker 返回两者中较弱的强度
func (s Strength) Weaker(other Strength) Strength {
	if other > s {
		return other
	}
	return s
}
