package registry_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/registry"
	"github.com/stivlo/obliquid-lib-sub001/pkg/logging"
)

func strPtr(s string) *string {
	return &s
}

// ============================================================================
// 1. 分派表
// ============================================================================

// TestGet_DispatchTable 测试每个组合映射到正确的验证器
func TestGet_DispatchTable(t *testing.T) {
	tests := []struct {
		kind     core.IdentifierKind
		country  core.CountryCode
		name     string
		strength core.Strength
	}{
		{core.KindPersonalTaxID, core.CountryIT, "it_personal_tax_code", core.StrengthChecksum},
		{core.KindPersonalTaxID, core.CountryFR, "fr_personal_tax_code", core.StrengthUnimplemented},
		{core.KindPersonalTaxID, core.CountryRO, "it_personal_tax_code", core.StrengthChecksum},
		{core.KindVATID, core.CountryIT, "it_vat_number", core.StrengthChecksum},
		{core.KindVATID, core.CountryES, "es_vat_number", core.StrengthFormatOnly},
		{core.KindVATID, core.CountryFR, "fr_vat_number", core.StrengthUnimplemented},
		{core.KindVATID, core.CountryRO, "it_vat_number", core.StrengthChecksum},
		{core.KindVATID, core.CountryDE, "de_vat_number", core.StrengthUnimplemented},
		{core.KindCompanyTaxID, core.CountryIT, "it_company_tax_id", core.StrengthChecksum},
		{core.KindCompanyTaxID, core.CountryES, "es_vat_number", core.StrengthFormatOnly},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+string(tt.country), func(t *testing.T) {
			v, err := registry.Get(tt.kind, tt.country)
			require.NoError(t, err)
			assert.Equal(t, tt.name, v.Name())
			assert.Equal(t, tt.strength, v.Strength())
		})
	}
}

// TestGet_Unsupported 不支持的组合必须报错，不能回退到默认验证器
func TestGet_Unsupported(t *testing.T) {
	tests := []struct {
		kind    core.IdentifierKind
		country core.CountryCode
	}{
		{core.KindPersonalTaxID, core.CountryES},
		{core.KindPersonalTaxID, core.CountryDE},
		{core.KindCompanyTaxID, core.CountryFR},
		{core.KindCompanyTaxID, core.CountryRO},
		{core.KindCompanyTaxID, core.CountryDE},
		{core.KindVATID, core.CountryCode("US")},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+string(tt.country), func(t *testing.T) {
			v, err := registry.Get(tt.kind, tt.country)
			assert.Nil(t, v)
			require.ErrorIs(t, err, core.ErrUnsupportedCountry)

			var unsupported *core.UnsupportedCountryError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, tt.kind, unsupported.Kind)
			assert.Equal(t, string(tt.country), unsupported.Country)
			assert.Contains(t, err.Error(), string(tt.kind))
			assert.Contains(t, err.Error(), string(tt.country))
		})
	}

	t.Run("无效类型", func(t *testing.T) {
		_, err := registry.Get(core.IdentifierKind("passport"), core.CountryIT)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

// TestGet_LogsMiss 分派失败记录 debug 日志
func TestGet_LogsMiss(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	restore := logging.ReplaceGlobal(zap.New(obs))
	defer restore()

	_, err := registry.Get(core.KindCompanyTaxID, core.CountryDE)
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("validator not registered").Len())
}

// ============================================================================
// 2. Validate 入口
// ============================================================================

// TestValidate 测试对外入口
func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		kind      core.IdentifierKind
		country   string
		candidate string
		want      bool
	}{
		{"意大利个人税号", core.KindPersonalTaxID, "IT", "RSSMRA85T10A562S", true},
		{"意大利个人税号-校验错误", core.KindPersonalTaxID, "IT", "RSSMRA85T10A512S", false},
		{"小写国家代码", core.KindPersonalTaxID, "it", "RSSMRA85T10A562S", true},
		{"罗马尼亚沿用意大利算法", core.KindPersonalTaxID, "RO", "RSSMRA85T10A562S", true},
		{"罗马尼亚增值税沿用意大利算法", core.KindVATID, "RO", "IT-01032450072", true},
		{"意大利增值税号", core.KindVATID, "IT", "IT-01032450072", true},
		{"意大利增值税号-损坏", core.KindVATID, "IT", "IT-01032450073", false},
		{"西班牙增值税号", core.KindVATID, "ES", "ES-123456789", true},
		{"法国占位", core.KindVATID, "FR", "not a vat number", true},
		{"德国占位", core.KindVATID, "DE", "", true},
		{"法国个人税号占位", core.KindPersonalTaxID, "FR", "???", true},
		{"意大利公司-个人税号", core.KindCompanyTaxID, "IT", "RSSMRA85T10A562S", true},
		{"意大利公司-增值税号", core.KindCompanyTaxID, "IT", "IT-01032450072", true},
		{"意大利公司-两者都不是", core.KindCompanyTaxID, "IT", "AAAF", false},
		{"西班牙公司", core.KindCompanyTaxID, "ES", "ES-000000000", true},
		{"西班牙公司-缺少连字符", core.KindCompanyTaxID, "ES", "ES12345678901", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.Validate(tt.kind, tt.country, tt.candidate)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestLookup_CountryCodeNormalization 国家代码去除首尾空白并忽略大小写
func TestLookup_CountryCodeNormalization(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		kind      core.IdentifierKind
		want      string
		wantValid bool
	}{
		{"小写", "de", core.KindVATID, "de_vat_number", true},
		{"大小写混合", "Es", core.KindVATID, "es_vat_number", false},
		{"首尾空白", "  it\t", core.KindPersonalTaxID, "it_personal_tax_code", false},
		{"小写罗马尼亚", "ro", core.KindVATID, "it_vat_number", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := registry.Default().Lookup(tt.kind, tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Name())

			ok, err := registry.Validate(tt.kind, tt.code, "IT-01032450072")
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, ok)
		})
	}

	// 内部空白不会被去除
	_, err := registry.Validate(core.KindVATID, "d e", "x")
	assert.ErrorIs(t, err, core.ErrUnsupportedCountry)
}

// TestValidate_UnknownCountry 未知国家代码返回不支持错误
func TestValidate_UnknownCountry(t *testing.T) {
	for _, code := range []string{"", "XX", "ITA", "U S"} {
		_, err := registry.Validate(core.KindVATID, code, "IT-01032450072")
		require.ErrorIs(t, err, core.ErrUnsupportedCountry, "code %q", code)

		var unsupported *core.UnsupportedCountryError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, code, unsupported.Country)
	}

	_, err := registry.Validate(core.IdentifierKind("bogus"), "XX", "x")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

// TestSpanishCompanyEqualsSpanishVAT 西班牙公司税号与西班牙增值税号完全一致
func TestSpanishCompanyEqualsSpanishVAT(t *testing.T) {
	inputs := []string{"ES-123456789", "ES-ABCDEFGHI", "ES12345678901", "ES-1234", "", "IT-01032450072", "ES-12345678901"}
	for _, in := range inputs {
		company, err := registry.Validate(core.KindCompanyTaxID, "ES", in)
		require.NoError(t, err)
		vat, err := registry.Validate(core.KindVATID, "ES", in)
		require.NoError(t, err)
		assert.Equal(t, vat, company, "input %q", in)
	}
}

// TestValidateNullable nil 候选值属于调用约定违规
func TestValidateNullable(t *testing.T) {
	_, err := registry.ValidateNullable(core.KindVATID, "IT", nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	ok, err := registry.ValidateNullable(core.KindVATID, "IT", strPtr("IT-01032450072"))
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestIsValid 布尔入口从不返回错误
func TestIsValid(t *testing.T) {
	assert.False(t, registry.IsValid(core.KindCompanyTaxID, "IT", nil))
	assert.False(t, registry.IsValid(core.KindCompanyTaxID, "IT", strPtr("AAAF")))
	assert.False(t, registry.IsValid(core.KindCompanyTaxID, "DE", strPtr("anything")))
	assert.True(t, registry.IsValid(core.KindCompanyTaxID, "IT", strPtr("IT-01032450072")))
}

// TestSupported 测试支持列表
func TestSupported(t *testing.T) {
	assert.Equal(t, []core.CountryCode{core.CountryFR, core.CountryIT, core.CountryRO},
		registry.Supported(core.KindPersonalTaxID))
	assert.Equal(t, []core.CountryCode{core.CountryDE, core.CountryES, core.CountryFR, core.CountryIT, core.CountryRO},
		registry.Supported(core.KindVATID))
	assert.Equal(t, []core.CountryCode{core.CountryES, core.CountryIT},
		registry.Supported(core.KindCompanyTaxID))
	assert.Empty(t, registry.Supported(core.IdentifierKind("unknown")))

	assert.True(t, registry.Default().Has(core.KindVATID, core.CountryDE))
	assert.False(t, registry.Default().Has(core.KindCompanyTaxID, core.CountryDE))
}

// TestValidate_Concurrent 并发调用同一个注册表
func TestValidate_Concurrent(t *testing.T) {
	const goroutines = 100
	const iterations = 500

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				ok, err := registry.Validate(core.KindCompanyTaxID, "IT", "RSSMRA85T10A562S")
				if err != nil || !ok {
					errs <- errors.New("unexpected result under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

// BenchmarkValidate 基准测试：分派 + 校验
func BenchmarkValidate(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = registry.Validate(core.KindCompanyTaxID, "IT", "IT-01032450072")
	}
}
