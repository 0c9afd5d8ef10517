package checksum

import "github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"

// AnyOf 组合验证器：任一成员验证通过即有效
type AnyOf struct {
	name    string
	members []core.Validator
}

// NewAnyOf 创建组合验证器
// 说明：成员按顺序求值，第一个通过即返回；成员为空时任何输入均无效
func NewAnyOf(name string, members ...core.Validator) *AnyOf {
	ms := make([]core.Validator, 0, len(members))
	for _, m := range members {
		if m != nil {
			ms = append(ms, m)
		}
	}
	return &AnyOf{name: name, members: ms}
}

// Validate 实现 core.Validator 接口
func (v *AnyOf) Validate(candidate string) bool {
	for _, m := range v.members {
		if m.Validate(candidate) {
			return true
		}
	}
	return false
}

// Name 实现 core.Validator 接口
func (v *AnyOf) Name() string {
	return v.name
}

// Strength 返回成员中最弱的校验强度
func (v *AnyOf) Strength() core.Strength {
	s := core.StrengthChecksum
	for _, m := range v.members {
		s = s.Weaker(m.Strength())
	}
	return s
}

// Members 返回成员验证器的副本
func (v *AnyOf) Members() []core.Validator {
	out := make([]core.Validator, len(v.members))
	copy(out, v.members)
	return out
}
