package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// errorMessageEstimateLen 单条错误消息的预估长度
const errorMessageEstimateLen = 64

// ValidationContext 验证上下文，收集一次验证中的所有字段错误
type ValidationContext struct {
	// Scene 验证场景
	Scene ValidateScene `json:"scene"`
	// Errors 所有验证错误的集合
	Errors []*FieldError `json:"errors,omitempty"`
}

// FieldError 单个字段的验证错误
// 国际化时，可以通过 Tag + Param 查找对应的翻译，如 fiscal_vat + param="IT"
type FieldError struct {
	// FieldName 结构体字段名
	FieldName string `json:"field_name,omitempty"`
	// JsonName JSON 字段名
	JsonName string `json:"json_name"`
	// Tag 验证标签（如 required, fiscal_vat 等）
	Tag string `json:"tag"`
	// Param 验证参数（如 fiscal_vat=IT 中的 "IT"）
	Param string `json:"param,omitempty"`
	// Value 字段的实际值
	Value any `json:"value,omitempty"`
	// Message 友好的错误消息
	Message string `json:"message,omitempty"`
	// Namespace 字段的完整命名空间（如 Invoice.Buyer.VatNumber）
	Namespace string `json:"namespace,omitempty"`
}

// NewValidationContext 创建验证上下文
func NewValidationContext(scene ValidateScene) *ValidationContext {
	return &ValidationContext{
		Scene:  scene,
		Errors: make([]*FieldError, 0),
	}
}

// NewFieldError 创建字段错误
func NewFieldError(value any, fieldName, jsonName, tag, param string) *FieldError {
	return &FieldError{
		FieldName: fieldName,
		JsonName:  jsonName,
		Tag:       tag,
		Param:     param,
		Value:     value,
		Namespace: jsonName,
	}
}

// Error 实现 error 接口
func (vc *ValidationContext) Error() string {
	if len(vc.Errors) == 0 {
		return "validation passed: no errors"
	}

	var builder strings.Builder
	builder.Grow(len(vc.Errors) * errorMessageEstimateLen)

	for i, err := range vc.Errors {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(err.String())
	}

	return builder.String()
}

// Err 有错误时返回自身，否则返回 nil
func (vc *ValidationContext) Err() error {
	if vc.HasErrors() {
		return vc
	}
	return nil
}

// String 返回友好的错误信息
func (fe *FieldError) String() string {
	if fe.Message != "" {
		return fmt.Sprintf("field '%s': %s", fe.JsonName, fe.Message)
	}
	return fmt.Sprintf("field '%s' validation failed on tag '%s'", fe.JsonName, fe.Tag)
}

// Error 实现 error 接口
func (fe *FieldError) Error() string {
	return fe.String()
}

// HasErrors 检查是否有验证错误
func (vc *ValidationContext) HasErrors() bool {
	return len(vc.Errors) > 0
}

// AddError 添加字段错误
func (vc *ValidationContext) AddError(err *FieldError) {
	if err != nil {
		vc.Errors = append(vc.Errors, err)
	}
}

// AddErrorByValidator 通过 validator.FieldError 添加字段错误
func (vc *ValidationContext) AddErrorByValidator(e validator.FieldError) {
	vc.addValidatorError(e, e.Param())
}

// addValidatorError param 为生成消息时使用的参数，如解析后的国家代码
func (vc *ValidationContext) addValidatorError(e validator.FieldError, param string) {
	vc.Errors = append(vc.Errors, &FieldError{
		FieldName: e.StructField(),
		JsonName:  e.Field(),
		Tag:       e.Tag(),
		Param:     e.Param(),
		Value:     e.Value(),
		Message:   messageFor(e.Field(), e.Tag(), param, e.Error()),
		Namespace: e.Namespace(),
	})
}

// AddErrorByDetail 通过详细信息添加字段错误
func (vc *ValidationContext) AddErrorByDetail(value any, fieldName, jsonName, tag, param, message, namespace string) {
	if namespace == "" {
		namespace = jsonName
	}
	vc.Errors = append(vc.Errors, &FieldError{
		FieldName: fieldName,
		JsonName:  jsonName,
		Tag:       tag,
		Param:     param,
		Value:     value,
		Message:   message,
		Namespace: namespace,
	})
}

// AddErrors 批量添加字段错误
func (vc *ValidationContext) AddErrors(errs []*FieldError) {
	for _, err := range errs {
		vc.AddError(err)
	}
}

// ToJSON 转换为 JSON 格式
func (vc *ValidationContext) ToJSON() ([]byte, error) {
	return json.Marshal(vc)
}

// GetErrorsByNamespace 按命名空间获取错误
func (vc *ValidationContext) GetErrorsByNamespace(namespace string) []*FieldError {
	var errs []*FieldError
	for _, err := range vc.Errors {
		if err.Namespace == namespace {
			errs = append(errs, err)
		}
	}
	return errs
}

// GetErrorsByTag 按验证标签获取错误
func (vc *ValidationContext) GetErrorsByTag(tag string) []*FieldError {
	var errs []*FieldError
	for _, err := range vc.Errors {
		if err.Tag == tag {
			errs = append(errs, err)
		}
	}
	return errs
}

// WithMessage 设置错误消息
func (fe *FieldError) WithMessage(message string) *FieldError {
	fe.Message = message
	return fe
}

// WithNamespace 设置命名空间
func (fe *FieldError) WithNamespace(namespace string) *FieldError {
	fe.Namespace = namespace
	return fe
}
