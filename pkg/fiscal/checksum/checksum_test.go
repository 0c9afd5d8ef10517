package checksum

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
)

// TestItalianTaxCode_Validate 测试意大利个人税号校验
func TestItalianTaxCode_Validate(t *testing.T) {
	v := NewItalianTaxCode()

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"有效税号", "RSSMRA85T10A562S", true},
		{"有效税号-米兰", "MRTMTT91D08F205J", true},
		{"有效税号-罗马", "BNCGVN80A01H501J", true},
		{"修改后重新计算校验位", "RSSMRA85T10A512N", true},
		{"校验位错误", "RSSMRA85T10A512S", false},
		{"空字符串", "", false},
		{"15位", "RSSMRA85T10A562", false},
		{"17位", "RSSMRA85T10A562SX", false},
		{"小写字母", "rssmra85t10a562s", false},
		{"包含空格", "RSSMRA85T10A562 ", false},
		{"包含连字符", "RSSMRA85-10A562S", false},
		{"非ASCII字符", "RSSMRA85T10A56É", false},
		{"校验位为数字", "RSSMRA85T10A5622", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.candidate))
		})
	}
}

// TestItalianTaxCode_OnlyOneCheckLetter 每个前缀只有唯一的校验字母
func TestItalianTaxCode_OnlyOneCheckLetter(t *testing.T) {
	v := NewItalianTaxCode()
	prefixes := []string{"RSSMRA85T10A562", "MRTMTT91D08F205", "BNCGVN80A01H501", "000000000000000", "ZZZZZZZZZZZZZZZ"}

	for _, prefix := range prefixes {
		valid := 0
		for c := byte('A'); c <= 'Z'; c++ {
			if v.Validate(prefix + string(c)) {
				valid++
			}
		}
		assert.Equal(t, 1, valid, "prefix %s", prefix)
	}
}

// TestItalianTaxCode_RejectsBeforeChecksum 长度或字符不合法时直接拒绝
func TestItalianTaxCode_RejectsBeforeChecksum(t *testing.T) {
	v := NewItalianTaxCode()

	for n := 0; n <= 32; n++ {
		if n == italianTaxCodeLength {
			continue
		}
		assert.False(t, v.Validate(strings.Repeat("A", n)), "length %d", n)
	}

	// 在有效税号的每一位替换非法字符
	valid := "RSSMRA85T10A562S"
	for i := 0; i < len(valid); i++ {
		for _, bad := range []byte{'a', '-', ' ', '@', '[', '/'} {
			candidate := valid[:i] + string(bad) + valid[i+1:]
			assert.False(t, v.Validate(candidate), "candidate %q", candidate)
		}
	}
}

// TestItalianTaxCodeCheckChar 测试校验字符计算
func TestItalianTaxCodeCheckChar(t *testing.T) {
	c, ok := ItalianTaxCodeCheckChar("RSSMRA85T10A562")
	require.True(t, ok)
	assert.Equal(t, byte('S'), c)

	c, ok = ItalianTaxCodeCheckChar("RSSMRA85T10A512")
	require.True(t, ok)
	assert.Equal(t, byte('N'), c)

	_, ok = ItalianTaxCodeCheckChar("RSSMRA85T10A56")
	assert.False(t, ok)

	_, ok = ItalianTaxCodeCheckChar("RSSMRA85T10A56s")
	assert.False(t, ok)
}

// TestItalianVAT_Validate 测试意大利增值税号校验
func TestItalianVAT_Validate(t *testing.T) {
	v := NewItalianVAT()

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"有效增值税号", "IT-01032450072", true},
		{"有效增值税号2", "IT-00743110157", true},
		{"有效增值税号3", "IT-12345678903", true},
		{"校验位错误", "IT-01032450071", false},
		{"缺少连字符", "IT01032450072", false},
		{"前缀错误", "ES-01032450072", false},
		{"小写前缀", "it-01032450072", false},
		{"过短", "IT-0103245007", false},
		{"过长", "IT-010324500721", false},
		{"包含字母", "IT-0103245007A", false},
		{"主体包含字母", "IT-01O32450072", false},
		{"空字符串", "", false},
		{"仅前缀", "IT-", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.candidate))
		})
	}
}

// TestItalianVAT_SingleDigitCorruption 任一位数字被修改都会导致校验失败
func TestItalianVAT_SingleDigitCorruption(t *testing.T) {
	v := NewItalianVAT()
	valid := "IT-01032450072"
	require.True(t, v.Validate(valid))

	for i := len(italianVATPrefix); i < len(valid); i++ {
		for d := byte('0'); d <= '9'; d++ {
			if d == valid[i] {
				continue
			}
			candidate := valid[:i] + string(d) + valid[i+1:]
			assert.False(t, v.Validate(candidate), "candidate %s", candidate)
		}
	}
}

// TestItalianVATCheckDigit 测试校验位计算
func TestItalianVATCheckDigit(t *testing.T) {
	c, ok := ItalianVATCheckDigit("0103245007")
	require.True(t, ok)
	assert.Equal(t, byte('2'), c)

	_, ok = ItalianVATCheckDigit("010324500")
	assert.False(t, ok)

	_, ok = ItalianVATCheckDigit("01032450x7")
	assert.False(t, ok)
}

// TestSpanishVAT_Validate 西班牙增值税号只检查前缀和长度
func TestSpanishVAT_Validate(t *testing.T) {
	v := NewSpanishVAT()

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"数字主体", "ES-123456789", true},
		{"任意内容", "ES-ABCDEFGHI", true},
		{"符号内容", "ES-!!!!!!!!!", true},
		{"缺少连字符", "ES12345678901", false},
		{"长度不足", "ES-12345678", false},
		{"长度过长", "ES-12345678901", false},
		{"前缀错误", "IT-123456789", false},
		{"空字符串", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.candidate))
		})
	}

	assert.Equal(t, core.StrengthFormatOnly, v.Strength())
}

// TestUnimplementedAlwaysValid 占位验证器接受任何输入，并明确标记为未实现
func TestUnimplementedAlwaysValid(t *testing.T) {
	v := NewUnimplementedAlwaysValid("fr_vat_number")

	for _, candidate := range []string{"", "garbage", "FR-00000000000", "\x00", strings.Repeat("x", 1000)} {
		assert.True(t, v.Validate(candidate))
	}
	assert.Equal(t, "fr_vat_number", v.Name())
	assert.Equal(t, core.StrengthUnimplemented, v.Strength())
}

// TestAnyOf 测试组合验证器
func TestAnyOf(t *testing.T) {
	company := NewAnyOf("it_company_tax_id", NewItalianTaxCode(), NewItalianVAT())

	assert.True(t, company.Validate("RSSMRA85T10A562S"))
	assert.True(t, company.Validate("IT-01032450072"))
	assert.False(t, company.Validate("AAAF"))
	assert.False(t, company.Validate(""))
	assert.Equal(t, core.StrengthChecksum, company.Strength())
	assert.Len(t, company.Members(), 2)

	t.Run("最弱强度", func(t *testing.T) {
		mixed := NewAnyOf("mixed", NewItalianVAT(), NewSpanishVAT())
		assert.Equal(t, core.StrengthFormatOnly, mixed.Strength())
	})

	t.Run("空成员", func(t *testing.T) {
		empty := NewAnyOf("empty", nil)
		assert.False(t, empty.Validate("anything"))
	})

	t.Run("短路求值", func(t *testing.T) {
		calls := 0
		counting := core.NewFunc("counting", core.StrengthChecksum, func(string) bool {
			calls++
			return false
		})
		v := NewAnyOf("short", NewUnimplementedAlwaysValid("stub"), counting)
		assert.True(t, v.Validate("x"))
		assert.Equal(t, 0, calls)
	})
}

// TestValidators_Concurrent 验证器可并发使用
func TestValidators_Concurrent(t *testing.T) {
	validators := []core.Validator{
		NewItalianTaxCode(),
		NewItalianVAT(),
		NewSpanishVAT(),
		NewAnyOf("company", NewItalianTaxCode(), NewItalianVAT()),
	}
	inputs := []string{"RSSMRA85T10A562S", "IT-01032450072", "ES-123456789", "AAAF"}

	const goroutines = 100
	const iterations = 1000

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				for _, v := range validators {
					for _, in := range inputs {
						_ = v.Validate(in)
					}
				}
			}
		}()
	}
	wg.Wait()

	assert.True(t, validators[0].Validate("RSSMRA85T10A562S"))
}

// BenchmarkItalianTaxCode_Validate 基准测试：个人税号校验
func BenchmarkItalianTaxCode_Validate(b *testing.B) {
	v := NewItalianTaxCode()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.Validate("RSSMRA85T10A562S")
	}
}

// BenchmarkItalianVAT_Validate 基准测试：增值税号校验
func BenchmarkItalianVAT_Validate(b *testing.B) {
	v := NewItalianVAT()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.Validate("IT-01032450072")
	}
}
