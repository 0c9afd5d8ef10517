package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
)

// ValidateScene 验证场景标识符，使用位运算支持场景组合验证
//
// 使用示例：
//
//	const (
//	    SceneCreate ValidateScene = 1 << 0
//	    SceneUpdate ValidateScene = 1 << 1
//	)
//
//	// 场景匹配：判断当前场景是否包含创建场景
//	if scene & SceneCreate != 0 {
//	    // 执行创建场景的验证
//	}
type ValidateScene int64

// 预定义的通用验证场景常量
const (
	SceneNone ValidateScene = 0  // 无场景
	SceneAll  ValidateScene = -1 // 所有场景(111...111)
)

// maxNestedDepth 最大嵌套验证深度，防止无限递归导致栈溢出
const maxNestedDepth = 100

// RuleValidator 规则验证器接口，提供场景化的字段规则
//
// 示例：
//
//	func (f *InvoiceForm) RuleValidation() map[ValidateScene]map[string]string {
//	    return map[ValidateScene]map[string]string{
//	        SceneCreate: {"VatNumber": "required,fiscal_vat=IT"},
//	        SceneUpdate: {"VatNumber": "omitempty,fiscal_vat=IT"},
//	    }
//	}
type RuleValidator interface {
	// RuleValidation 返回 map[场景][字段名]规则字符串
	// 字段名可以是结构体字段名或 json 名称，规则遵循 go-playground/validator 的标签语法
	RuleValidation() map[ValidateScene]map[string]string
}

// CustomValidator 自定义验证器接口，用于跨字段验证和复杂业务逻辑
//
// 示例：
//
//	func (f *InvoiceForm) CustomValidation(scene ValidateScene, report FuncReportError) {
//	    if f.Country == "IT" && f.TaxCode == "" && f.VatNumber == "" {
//	        report("InvoiceForm.tax_code", "required_without", "vat_number")
//	    }
//	}
type CustomValidator interface {
	// CustomValidation 执行业务验证逻辑，所有错误通过 report 报告
	CustomValidation(scene ValidateScene, report FuncReportError)
}

// FuncReportError 错误报告函数类型
//   - namespace: 字段路径，如 "InvoiceForm.vat_number"
//   - tag: 验证标签
//   - param: 验证参数
type FuncReportError func(namespace, tag, param string)

// ValidationFunc 自定义验证函数类型，用于注册自定义验证标签
type ValidationFunc func(fl FieldLevel) bool

// FieldLevel 字段级别验证上下文（封装第三方库）
type FieldLevel interface {
	// Field 返回当前字段的反射值
	Field() reflect.Value

	// Param 返回验证标签的参数
	Param() string

	// FieldName 返回字段名
	FieldName() string

	// StructFieldName 返回结构体字段名
	StructFieldName() string

	// Parent 返回父结构体的反射值
	Parent() reflect.Value
}

// fieldLevelWrapper 封装第三方库的 FieldLevel
type fieldLevelWrapper struct {
	fl validator.FieldLevel
}

func (w *fieldLevelWrapper) Field() reflect.Value { return w.fl.Field() }
func (w *fieldLevelWrapper) Param() string { return w.fl.Param() }
func (w *fieldLevelWrapper) FieldName() string { return w.fl.FieldName() }
func (w *fieldLevelWrapper) StructFieldName() string { return w.fl.StructFieldName() }
func (w *fieldLevelWrapper) Parent() reflect.Value { return w.fl.Parent() }

// Validator 验证器，提供结构体字段验证功能
//
// 特性：
//   - 场景化验证、嵌套验证、自定义验证
//   - 税务标识标签：fiscal_personal / fiscal_vat / fiscal_company / fiscal_country
//   - 类型化标量（types 包、legacy 包、fiscal.Identifier）按其值参与验证
//
// New 返回后验证器可以并发使用；RegisterValidation 需要在并发使用之前完成
type Validator struct {
	// validate 底层验证器实例（go-playground/validator）
	validate *validator.Validate
	// typeCache 类型信息缓存，key: reflect.Type, value: *typeCache
	typeCache *sync.Map
	// valueTypes 以值参与验证的类型，嵌套验证时不再深入
	valueTypes map[reflect.Type]bool
}

// typeCache 类型信息缓存结构，避免重复的类型断言
type typeCache struct {
	isRuleValidator   bool
	isCustomValidator bool
	validationRules   map[ValidateScene]map[string]string
}

var (
	// defaultValidator 默认验证器实例
	defaultValidator *Validator
	once             sync.Once
)

// Default 获取默认验证器实例
func Default() *Validator {
	once.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// Validate 使用默认验证器验证对象
// 返回验证错误列表，nil 表示验证通过
func Validate(obj any, scene ValidateScene) []*FieldError {
	return Default().Validate(obj, scene)
}

// New 创建新的验证器实例
func New() *Validator {
	v := validator.New()

	// 使用 json tag 作为字段名，验证错误中显示 json 字段名
	v.RegisterTagNameFunc(jsonFieldName)

	val := &Validator{
		validate:   v,
		typeCache:  &sync.Map{},
		valueTypes: make(map[reflect.Type]bool),
	}
	val.registerValueTypes()
	val.registerFiscalTags()
	return val
}

// RegisterValidation 注册自定义验证标签
func (v *Validator) RegisterValidation(tag string, fn ValidationFunc) error {
	if tag == "" || fn == nil {
		return fmt.Errorf("%w: validation tag and function are required", core.ErrInvalidArgument)
	}
	return v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(&fieldLevelWrapper{fl: fl})
	})
}

// Var 使用规则验证单个值，如 Var("IT-01032450072", "fiscal_vat=IT")
func (v *Validator) Var(value any, rule string) []*FieldError {
	ctx := NewValidationContext(SceneNone)
	if err := v.validate.Var(value, rule); err != nil {
		v.addFieldErrors(nil, err, ctx)
	}
	return buildValidationResult(ctx)
}

// Validate 验证模型，支持指定场景和嵌套验证
//
// 验证流程：
//  1. 字段规则：RuleValidator 提供的场景化规则，否则使用 struct tag
//  2. 递归处理嵌套结构体（RuleValidator / CustomValidator）
//  3. 结构规则：CustomValidator
//
// 收集所有错误后统一返回，而非遇到第一个错误就停止
func (v *Validator) Validate(obj any, scene ValidateScene) []*FieldError {
	if obj == nil {
		return []*FieldError{
			NewFieldError(nil, "", "", "required", "").
				WithMessage("validation target cannot be nil"),
		}
	}

	val := reflect.ValueOf(obj)
	for val.Kind() == reflect.Ptr && !val.IsNil() {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return []*FieldError{
			NewFieldError(nil, "", "", "struct", "").
				WithMessage(fmt.Sprintf("validation target must be a struct, got %T", obj)),
		}
	}

	ctx := NewValidationContext(scene)
	v.validateStruct(obj, val.Type().Name(), false, ctx, 0)
	return buildValidationResult(ctx)
}

// validateStruct 对单个结构体执行完整验证流程
// tagsCovered 为 true 时表示上层的 Struct() 已经验证过本结构体的 struct tag
func (v *Validator) validateStruct(obj any, namespace string, tagsCovered bool, ctx *ValidationContext, depth int) {
	if depth > maxNestedDepth {
		ctx.AddErrorByDetail(nil, "", namespace, "nest_depth", "",
			fmt.Sprintf("nested validation depth exceeds maximum limit %d", maxNestedDepth), namespace)
		return
	}

	cache := v.getOrCacheTypeInfo(obj)

	switch {
	case cache.isRuleValidator:
		v.validateFieldsByRules(obj, namespace, cache.validationRules, ctx)
	case !tagsCovered:
		if err := v.validate.Struct(obj); err != nil {
			v.addFieldErrors(obj, err, ctx)
		}
		tagsCovered = true
	}

	v.validateNestedStructs(obj, namespace, tagsCovered, ctx, depth)

	if cache.isCustomValidator {
		v.validateStructRules(obj, ctx)
	}
}

// validateFieldsByRules 通过 RuleValidator 提供的规则验证字段
func (v *Validator) validateFieldsByRules(obj any, namespace string, rules map[ValidateScene]map[string]string, ctx *ValidationContext) {
	matched := make(map[string]string)
	for scene, sceneRules := range rules {
		if scene&ctx.Scene != 0 {
			for fieldName, rule := range sceneRules {
				matched[fieldName] = rule
			}
		}
	}
	if len(matched) == 0 {
		return
	}

	val := reflect.Indirect(reflect.ValueOf(obj))
	if val.Kind() != reflect.Struct {
		return
	}
	typ := val.Type()

	// 按字段名排序，保证错误顺序稳定
	names := make([]string, 0, len(matched))
	for name := range matched {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rule := matched[name]
		if rule == "" {
			continue
		}

		sf, ok := typ.FieldByName(name)
		if !ok {
			sf, ok = findFieldByJSONTag(typ, name)
		}
		if !ok || !sf.IsExported() {
			continue
		}
		field := val.FieldByIndex(sf.Index)
		jsonName := jsonFieldName(sf)

		err := v.validate.Var(field.Interface(), rule)
		if err == nil {
			continue
		}

		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			ctx.AddErrorByDetail(nil, sf.Name, jsonName, "", "", err.Error(), joinNamespace(namespace, jsonName))
			continue
		}
		for _, e := range validationErrors {
			ctx.AddErrorByDetail(e.Value(), sf.Name, jsonName, e.Tag(), e.Param(),
				messageFor(jsonName, e.Tag(), messageParam(val, e.Tag(), e.Param()), ""), joinNamespace(namespace, jsonName))
		}
	}
}

// validateNestedStructs 递归处理嵌套结构体字段
func (v *Validator) validateNestedStructs(obj any, namespace string, tagsCovered bool, ctx *ValidationContext, depth int) {
	val := reflect.Indirect(reflect.ValueOf(obj))
	if val.Kind() != reflect.Struct {
		return
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		ft := sf.Type
		if ft.Kind() == reflect.Ptr {
			if field.IsNil() {
				continue
			}
			ft = ft.Elem()
		}
		if ft.Kind() != reflect.Struct || v.valueTypes[ft] || ft.PkgPath() == "time" {
			continue
		}

		// 取地址以便指针接收者实现的接口可以被识别
		nested := field
		if nested.Kind() != reflect.Ptr && nested.CanAddr() {
			nested = nested.Addr()
		}
		v.validateStruct(nested.Interface(), joinNamespace(namespace, jsonFieldName(sf)), tagsCovered, ctx, depth+1)
	}
}

// validateStructRules 执行 CustomValidator 的验证逻辑
func (v *Validator) validateStructRules(obj any, ctx *ValidationContext) {
	customValidator, ok := obj.(CustomValidator)
	if !ok {
		return
	}

	report := func(namespace, tag, param string) {
		jsonName := namespace
		if i := strings.LastIndex(namespace, "."); i >= 0 {
			jsonName = namespace[i+1:]
		}
		ctx.AddErrorByDetail(nil, "", jsonName, tag, param, messageFor(jsonName, tag, param, ""), namespace)
	}

	customValidator.CustomValidation(ctx.Scene, report)
}

// ClearTypeCache 清除类型缓存
func (v *Validator) ClearTypeCache() {
	v.typeCache = &sync.Map{}
}

// TypeCacheStats 返回缓存的类型数量
func (v *Validator) TypeCacheStats() int {
	count := 0
	v.typeCache.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// getOrCacheTypeInfo 获取或缓存类型信息
func (v *Validator) getOrCacheTypeInfo(obj any) *typeCache {
	typ := reflect.TypeOf(obj)
	if typ == nil {
		return &typeCache{}
	}

	if cached, ok := v.typeCache.Load(typ); ok {
		return cached.(*typeCache)
	}

	cache := &typeCache{}
	if ruleValidator, ok := obj.(RuleValidator); ok {
		cache.isRuleValidator = true
		cache.validationRules = ruleValidator.RuleValidation()
	}
	_, cache.isCustomValidator = obj.(CustomValidator)

	actual, _ := v.typeCache.LoadOrStore(typ, cache)
	return actual.(*typeCache)
}

// addFieldErrors 将底层验证器的错误转换为 FieldError
// obj 为被验证的结构体，用于把税务标签中的字段名参数解析为国家代码；验证单个值时为 nil
func (v *Validator) addFieldErrors(obj any, err error, ctx *ValidationContext) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		ctx.AddErrorByDetail(nil, "", "", "", "", err.Error(), "")
		return
	}

	for _, e := range validationErrors {
		ctx.addValidatorError(e, messageParam(parentOf(obj, e.StructNamespace()), e.Tag(), e.Param()))
	}
}

// buildValidationResult 构建验证结果，nil 表示验证通过
func buildValidationResult(ctx *ValidationContext) []*FieldError {
	if ctx.HasErrors() {
		return ctx.Errors
	}
	return nil
}

// jsonFieldName 提取 json tag 的名称部分，缺省时使用结构体字段名
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// findFieldByJSONTag 通过 JSON tag 查找字段
func findFieldByJSONTag(typ reflect.Type, jsonTag string) (reflect.StructField, bool) {
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if strings.SplitN(sf.Tag.Get("json"), ",", 2)[0] == jsonTag {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

func joinNamespace(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
