package validator

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/legacy"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/registry"
	"github.com/stivlo/obliquid-lib-sub001/pkg/types"
)

// 税务标识验证标签
//
// 参数为国家代码或同一结构体中保存国家代码的字段名：
//
//	type InvoiceForm struct {
//	    Country   string `json:"country" validate:"required,fiscal_country"`
//	    VatNumber string `json:"vat_number" validate:"required,fiscal_vat=Country"`
//	    TaxCode   string `json:"tax_code" validate:"omitempty,fiscal_personal=IT"`
//	}
const (
	TagFiscalPersonal = "fiscal_personal"
	TagFiscalVAT      = "fiscal_vat"
	TagFiscalCompany  = "fiscal_company"
	TagFiscalCountry  = "fiscal_country"
)

// fiscalTags 标签 -> 标识类型
var fiscalTags = map[string]core.IdentifierKind{
	TagFiscalPersonal: core.KindPersonalTaxID,
	TagFiscalVAT:      core.KindVATID,
	TagFiscalCompany:  core.KindCompanyTaxID,
}

// registerFiscalTags 注册税务标识验证标签
func (v *Validator) registerFiscalTags() {
	for tag, kind := range fiscalTags {
		if err := v.RegisterValidation(tag, identifierRule(kind)); err != nil {
			panic(err)
		}
	}
	if err := v.RegisterValidation(TagFiscalCountry, countryRule); err != nil {
		panic(err)
	}
}

// identifierRule 返回按注册表验证指定类型标识的规则
// 不支持的 (类型, 国家) 组合视为验证失败
func identifierRule(kind core.IdentifierKind) ValidationFunc {
	return func(fl FieldLevel) bool {
		candidate, ok := stringValue(fl.Field())
		if !ok {
			return false
		}
		valid, err := registry.Validate(kind, countryParam(fl), candidate)
		return err == nil && valid
	}
}

// countryRule 字段必须是受支持的国家代码
func countryRule(fl FieldLevel) bool {
	s, ok := stringValue(fl.Field())
	if !ok {
		return false
	}
	_, err := core.ParseCountryCode(s)
	return err == nil
}

// countryParam 解析标签参数：国家代码本身，或同级字段名
func countryParam(fl FieldLevel) string {
	return resolveCountry(fl.Parent(), fl.Param())
}

// resolveCountry param 不是国家代码时，取 parent 结构体中同名字段的值
func resolveCountry(parent reflect.Value, param string) string {
	if _, err := core.ParseCountryCode(param); err == nil {
		return param
	}

	parent = indirect(parent)
	if parent.Kind() == reflect.Struct {
		if f := parent.FieldByName(param); f.IsValid() {
			if s, ok := stringValue(f); ok && s != "" {
				return s
			}
		}
	}
	return param
}

// messageParam 税务标签的参数解析为实际国家代码，其他标签原样返回
func messageParam(parent reflect.Value, tag, param string) string {
	if _, ok := fiscalTags[tag]; !ok {
		return param
	}
	return resolveCountry(parent, param)
}

// parentOf 按 StructNamespace（如 Order.Items[0].Vat）定位字段所在的结构体
func parentOf(obj any, structNamespace string) reflect.Value {
	segments := strings.Split(structNamespace, ".")
	if obj == nil || len(segments) < 2 {
		return reflect.Value{}
	}

	v := reflect.ValueOf(obj)
	for _, seg := range segments[1 : len(segments)-1] {
		v = indirect(v)
		if v.Kind() != reflect.Struct {
			return reflect.Value{}
		}

		name, index := seg, -1
		if i := strings.IndexByte(seg, '['); i >= 0 && strings.HasSuffix(seg, "]") {
			n, err := strconv.Atoi(seg[i+1 : len(seg)-1])
			if err != nil {
				// map 键
				return reflect.Value{}
			}
			name, index = seg[:i], n
		}

		v = v.FieldByName(name)
		if index >= 0 {
			v = indirect(v)
			if (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || index >= v.Len() {
				return reflect.Value{}
			}
			v = v.Index(index)
		}
	}
	return indirect(v)
}

func indirect(v reflect.Value) reflect.Value {
	for (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// stringValue 取字段的字符串值，支持 string 及其派生类型和 fmt.Stringer
func stringValue(v reflect.Value) (string, bool) {
	if !v.IsValid() {
		return "", false
	}
	if v.Kind() == reflect.String {
		return v.String(), true
	}
	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			if v.Kind() == reflect.Ptr && v.IsNil() {
				return "", false
			}
			return s.String(), true
		}
	}
	return "", false
}

// registerValueTypes 类型化值按其内部值参与验证，未赋值时视为零值
func (v *Validator) registerValueTypes() {
	v.registerValueType(valueTypeFunc(func(s *types.Boolean) (bool, error) { return s.Get() }), types.Boolean{})
	v.registerValueType(valueTypeFunc(func(s *types.Integer) (int64, error) { return s.Get() }), types.Integer{})
	v.registerValueType(valueTypeFunc(func(s *types.Date) (time.Time, error) { return s.Get() }), types.Date{})
	v.registerValueType(valueTypeFunc(func(s *types.StringList) ([]string, error) { return s.Get() }), types.StringList{})
	v.registerValueType(valueTypeFunc(func(s *types.String) (string, error) { return s.Get() }), types.String{})
	v.registerValueType(valueTypeFunc(func(s *legacy.Scalar) (string, error) { return s.Get() }), legacy.Scalar{})
	v.registerValueType(valueTypeFunc(func(id *fiscal.Identifier) (string, error) { return id.Value(), nil }), fiscal.Identifier{})
}

func (v *Validator) registerValueType(fn validator.CustomTypeFunc, sample any) {
	v.validate.RegisterCustomTypeFunc(fn, sample)
	v.valueTypes[reflect.TypeOf(sample)] = true
}

// valueTypeFunc 将 Get 风格的访问器转换为 validator.CustomTypeFunc
func valueTypeFunc[T any, S any](get func(*S) (T, error)) validator.CustomTypeFunc {
	return func(field reflect.Value) any {
		var zero T
		s, ok := field.Interface().(S)
		if !ok {
			return zero
		}
		value, err := get(&s)
		if err != nil {
			return zero
		}
		return value
	}
}

// messageFor 生成友好的错误消息
func messageFor(field, tag, param, fallback string) string {
	if kind, ok := fiscalTags[tag]; ok {
		return fmt.Sprintf("%s is not a valid %s for country %s", field, kind, param)
	}

	switch tag {
	case TagFiscalCountry:
		return fmt.Sprintf("%s is not a supported country code", field)
	case "required":
		return fmt.Sprintf("%s is required", field)
	}

	if fallback != "" {
		return fallback
	}
	if param != "" {
		return fmt.Sprintf("%s failed on '%s=%s'", field, tag, param)
	}
	return fmt.Sprintf("%s failed on '%s'", field, tag)
}
