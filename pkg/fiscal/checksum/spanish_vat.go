package checksum

import (
	"strings"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
)

const (
	// spanishVATPrefix 西班牙增值税号文本前缀
	spanishVATPrefix = "ES-"
	// spanishVATLength 总长度（含前缀）
	spanishVATLength = 12
)

// SpanishVAT 西班牙增值税号（NIF）验证器
// 注意：仅检查前缀 "ES-" 和总长度12，不做任何算术校验
type SpanishVAT struct{}

// NewSpanishVAT 创建西班牙增值税号验证器
func NewSpanishVAT() *SpanishVAT {
	return &SpanishVAT{}
}

// Validate 实现 core.Validator 接口
func (v *SpanishVAT) Validate(candidate string) bool {
	return len(candidate) == spanishVATLength && strings.HasPrefix(candidate, spanishVATPrefix)
}

// Name 实现 core.Validator 接口
func (v *SpanishVAT) Name() string {
	return "es_vat_number"
}

// Strength 实现 core.Validator 接口
func (v *SpanishVAT) Strength() core.Strength {
	return core.StrengthFormatOnly
}
