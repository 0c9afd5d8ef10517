package types

// String 字符串标量，原样存储；空字符串是有效的已赋值值
type String struct {
	scalar[string, stringCodec]
}

// NewString 创建未赋值的字符串标量
func NewString(opts ...Option) *String {
	return &String{scalar: newScalar[string, stringCodec](opts)}
}

type stringCodec struct{}

func (stringCodec) typeName() string { return "String" }

func (stringCodec) parse(text string) (string, error) { return text, nil }

func (stringCodec) format(v string) string { return v }

func (stringCodec) check(string) error { return nil }

func (stringCodec) clone(v string) string { return v }
