package core

// Validator 税务标识验证器接口
// 实现必须是无状态、不可变的纯函数，可被任意数量的goroutine并发调用
type Validator interface {
	// Validate 判断候选字符串是否为有效标识
	// 格式错误的候选值返回false，不返回错误
	Validate(candidate string) bool

	// Name 验证器名称，用于日志和审计
	Name() string

	// Strength 校验强度
	Strength() Strength
}

// Func 将普通函数适配为 Validator
type Func struct {
	name     string
	strength Strength
	fn       func(string) bool
}

// NewFunc 创建函数式验证器
func NewFunc(name string, strength Strength, fn func(string) bool) *Func {
	return &Func{name: name, strength: strength, fn: fn}
}

// Validate 实现 Validator 接口
func (f *Func) Validate(candidate string) bool {
	return f.fn(candidate)
}

// Name 实现 Validator 接口
func (f *Func) Name() string {
	return f.name
}

// Strength 实现 Validator 接口
func (f *Func) Strength() Strength {
	return f.strength
}
