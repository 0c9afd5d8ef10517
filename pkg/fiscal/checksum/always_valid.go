package checksum

import "github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"

// UnimplementedAlwaysValid 未实现的占位验证器，对任何输入都返回 true
// 法国、德国增值税号和法国个人税号目前没有校验算法
type UnimplementedAlwaysValid struct {
	name string
}

// NewUnimplementedAlwaysValid 创建占位验证器
func NewUnimplementedAlwaysValid(name string) *UnimplementedAlwaysValid {
	return &UnimplementedAlwaysValid{name: name}
}

// Validate 实现 core.Validator 接口，总是返回 true
func (v *UnimplementedAlwaysValid) Validate(string) bool {
	return true
}

// Name 实现 core.Validator 接口
func (v *UnimplementedAlwaysValid) Name() string {
	return v.name
}

// Strength 实现 core.Validator 接口
func (v *UnimplementedAlwaysValid) Strength() core.Strength {
	return core.StrengthUnimplemented
}
