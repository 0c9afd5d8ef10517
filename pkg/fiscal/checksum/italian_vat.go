package checksum

import (
	"strings"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
)

const (
	// italianVATPrefix 意大利增值税号文本前缀
	italianVATPrefix = "IT-"
	// italianVATDigits 前缀之后的数字位数
	italianVATDigits = 11
)

// ItalianVAT 意大利增值税号（Partita IVA）验证器
// 文本格式："IT-" + 11位数字，总长度14
type ItalianVAT struct{}

// NewItalianVAT 创建意大利增值税号验证器
func NewItalianVAT() *ItalianVAT {
	return &ItalianVAT{}
}

// Validate 实现 core.Validator 接口
func (v *ItalianVAT) Validate(candidate string) bool {
	if len(candidate) != len(italianVATPrefix)+italianVATDigits {
		return false
	}
	if !strings.HasPrefix(candidate, italianVATPrefix) {
		return false
	}

	body := candidate[len(italianVATPrefix):]
	check, ok := ItalianVATCheckDigit(body[:italianVATDigits-1])
	return ok && check == body[italianVATDigits-1]
}

// Name 实现 core.Validator 接口
func (v *ItalianVAT) Name() string {
	return "it_vat_number"
}

// Strength 实现 core.Validator 接口
func (v *ItalianVAT) Strength() core.Strength {
	return core.StrengthChecksum
}

// ItalianVATCheckDigit 计算前10位数字对应的校验位（Luhn变体）
// 算法：
//  1. 偶数下标（0,2,4,6,8）的数字直接累加
//  2. 奇数下标（1,3,5,7,9）的数字乘2，大于9则减9，再累加
//  3. 校验位 = (10 - sum%10) % 10
func ItalianVATCheckDigit(first10 string) (check byte, ok bool) {
	if len(first10) != italianVATDigits-1 {
		return 0, false
	}

	sum := 0
	for i := 0; i < len(first10); i++ {
		c := first10[i]
		if !isDigit(c) {
			return 0, false
		}

		d := int(c - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}

	return byte('0' + (10-sum%10)%10), true
}
