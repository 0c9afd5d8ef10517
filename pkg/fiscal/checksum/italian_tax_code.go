package checksum

import "github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"

const (
	// italianTaxCodeLength 意大利个人税号（Codice Fiscale）长度
	italianTaxCodeLength = 16
)

// italianEvenWeights 偶数位（从0开始）字符的权重表，按 letter-'A' 索引
var italianEvenWeights = [26]int{
	1, 0, 5, 7, 9, 13, 15, 17, 19, 21, 2, 4, 18, 20,
	11, 3, 6, 8, 12, 14, 16, 10, 22, 25, 24, 23,
}

// ItalianTaxCode 意大利个人税号验证器
type ItalianTaxCode struct{}

// NewItalianTaxCode 创建意大利个人税号验证器
func NewItalianTaxCode() *ItalianTaxCode {
	return &ItalianTaxCode{}
}

// Validate 实现 core.Validator 接口
// 规则：恰好16个字符，每个字符为 ASCII 数字或大写字母，第16位为校验字符
// 不做出生日期等业务规则校验
func (v *ItalianTaxCode) Validate(candidate string) bool {
	if len(candidate) != italianTaxCodeLength {
		return false
	}
	for i := 0; i < italianTaxCodeLength; i++ {
		if !isDigit(candidate[i]) && !isUpper(candidate[i]) {
			return false
		}
	}

	check, ok := ItalianTaxCodeCheckChar(candidate[:italianTaxCodeLength-1])
	return ok && check == candidate[italianTaxCodeLength-1]
}

// Name 实现 core.Validator 接口
func (v *ItalianTaxCode) Name() string {
	return "it_personal_tax_code"
}

// Strength 实现 core.Validator 接口
func (v *ItalianTaxCode) Strength() core.Strength {
	return core.StrengthChecksum
}

// ItalianTaxCodeCheckChar 计算前15个字符对应的校验字符
// 参数：
//   - first15: 税号前15个字符，仅允许 [0-9A-Z]
//
// 返回：
//   - 校验字符 'A'..'Z'；输入长度或字符不合法时 ok 为 false
func ItalianTaxCodeCheckChar(first15 string) (check byte, ok bool) {
	if len(first15) != italianTaxCodeLength-1 {
		return 0, false
	}

	sum := 0
	for i := 0; i < len(first15); i++ {
		c := first15[i]
		switch {
		case isDigit(c), isUpper(c):
		default:
			return 0, false
		}

		if i%2 == 1 {
			// 奇数位：数字取 c-'0'，字母取 c-'A'
			if isDigit(c) {
				sum += int(c - '0')
			} else {
				sum += int(c - 'A')
			}
			continue
		}

		// 偶数位：数字先替换为 'A'..'J'，再查权重表
		if isDigit(c) {
			c = 'A' + (c - '0')
		}
		sum += italianEvenWeights[c-'A']
	}

	return byte('A' + sum%26), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
