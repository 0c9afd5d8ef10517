package validator

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/registry"
)

// MapValidators 按场景组织的 map 验证器
type MapValidators struct {
	Validators map[ValidateScene]*MapValidator
}

// MapValidator 验证 map[string]any 形式的动态字段（如表单提交、扩展字段）
type MapValidator struct {
	// ParentNameSpace 命名空间，用于生成准确的错误路径，如 Invoice.extras
	ParentNameSpace string

	// RequiredKeys 必填的键列表
	RequiredKeys []string

	// AllowedKeys 允许的键白名单（如果为空则不限制），修改请使用 WithAllowedKeys
	AllowedKeys []string

	// KeyValidators 特定键的自定义验证函数，返回 error 表示验证失败
	KeyValidators map[string]func(value any) error

	// allowedKeysMap 由 WithAllowedKeys 构建，Validate 只读
	allowedKeysMap map[string]bool
}

// maxMapKeyLength 最大键名长度，防止恶意超长键名
const maxMapKeyLength = 256

// NewMapValidator 创建 map 验证器
func NewMapValidator() *MapValidator {
	return &MapValidator{
		RequiredKeys:  make([]string, 0),
		AllowedKeys:   make([]string, 0),
		KeyValidators: make(map[string]func(value any) error),
	}
}

// ValidateMaps 按场景选择验证器验证 map
func ValidateMaps(scene ValidateScene, kvs map[string]any, validators *MapValidators) []*FieldError {
	if validators == nil || len(validators.Validators) == 0 {
		return nil
	}

	validator, exists := validators.Validators[scene]
	if !exists {
		return nil
	}

	return ValidateMap(kvs, validator)
}

// Validate 按场景验证 map
func (mv *MapValidators) Validate(scene ValidateScene, kvs map[string]any) []*FieldError {
	return ValidateMaps(scene, kvs, mv)
}

// ValidateMap 验证 map
// 验证流程：必填键 -> 白名单 -> 自定义键验证器，收集所有错误后统一返回
func ValidateMap(kvs map[string]any, v *MapValidator) []*FieldError {
	if v == nil {
		return nil
	}

	if kvs == nil {
		if len(v.RequiredKeys) > 0 {
			return []*FieldError{
				NewFieldError(nil, "", "map", "required", "").
					WithMessage("map field cannot be nil when required keys are specified"),
			}
		}
		return nil
	}

	ctx := NewValidationContext(SceneNone)
	v.collectRequiredKeyErrors(kvs, ctx)
	v.collectAllowedKeyErrors(kvs, ctx)
	v.collectCustomKeyErrors(kvs, ctx)
	return buildValidationResult(ctx)
}

// collectRequiredKeyErrors 收集必填键错误
func (mv *MapValidator) collectRequiredKeyErrors(kvs map[string]any, ctx *ValidationContext) {
	for _, key := range mv.RequiredKeys {
		if _, exists := kvs[key]; !exists {
			ctx.AddErrorByDetail(nil, "", key, "required", "",
				fmt.Sprintf("required key '%s' is missing", key), mv.getNamespace(key))
		}
	}
}

// collectAllowedKeyErrors 收集非法键错误（白名单验证）
func (mv *MapValidator) collectAllowedKeyErrors(kvs map[string]any, ctx *ValidationContext) {
	if len(mv.AllowedKeys) == 0 {
		return
	}

	allowed := mv.allowedKeysMap
	if allowed == nil {
		// 未经 WithAllowedKeys 设置时使用局部集合，不修改共享状态
		allowed = keySet(mv.AllowedKeys)
	}

	for _, key := range sortedKeys(kvs) {
		if len(key) > maxMapKeyLength {
			ctx.AddErrorByDetail(len(key), "", "map", "key_len", strconv.Itoa(maxMapKeyLength),
				fmt.Sprintf("key name exceeds maximum length %d", maxMapKeyLength), mv.ParentNameSpace)
			continue
		}
		if !allowed[key] {
			ctx.AddErrorByDetail(key, "", key, "allowed", "",
				fmt.Sprintf("key '%s' is not in the allowed list", key), mv.getNamespace(key))
		}
	}
}

// collectCustomKeyErrors 收集自定义键验证错误
// 即使某个验证函数 panic，也不影响其他验证
func (mv *MapValidator) collectCustomKeyErrors(kvs map[string]any, ctx *ValidationContext) {
	keys := make([]string, 0, len(mv.KeyValidators))
	for key := range mv.KeyValidators {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		validatorFunc := mv.KeyValidators[key]
		value, exists := kvs[key]
		if validatorFunc == nil || !exists {
			continue
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					ctx.AddErrorByDetail(value, "", key, "validator_panic", "",
						fmt.Sprintf("validator function panicked: %v", r), mv.getNamespace(key))
				}
			}()

			if err := validatorFunc(value); err != nil {
				ctx.AddErrorByDetail(value, "", key, "custom", "", err.Error(), mv.getNamespace(key))
			}
		}()
	}
}

// getNamespace 获取完整的命名空间路径
func (mv *MapValidator) getNamespace(key string) string {
	return joinNamespace(mv.ParentNameSpace, key)
}

// WithNameSpace 设置命名空间（链式调用）
func (mv *MapValidator) WithNameSpace(namespace string) *MapValidator {
	mv.ParentNameSpace = namespace
	return mv
}

// WithRequiredKeys 设置必填键（链式调用）
func (mv *MapValidator) WithRequiredKeys(keys ...string) *MapValidator {
	mv.RequiredKeys = append(make([]string, 0, len(keys)), keys...)
	return mv
}

// WithAllowedKeys 设置允许的键（链式调用）
func (mv *MapValidator) WithAllowedKeys(keys ...string) *MapValidator {
	mv.AllowedKeys = append(make([]string, 0, len(keys)), keys...)
	mv.allowedKeysMap = keySet(mv.AllowedKeys)
	return mv
}

// WithKeyValidator 添加键验证器（链式调用）
func (mv *MapValidator) WithKeyValidator(key string, validatorFunc func(value any) error) *MapValidator {
	if key == "" {
		return mv
	}
	if mv.KeyValidators == nil {
		mv.KeyValidators = make(map[string]func(value any) error)
	}
	mv.KeyValidators[key] = validatorFunc
	return mv
}

// WithIdentifierKey 添加税务标识键验证器（链式调用）
// 值必须是字符串，且通过 (kind, country) 对应验证器的校验
func (mv *MapValidator) WithIdentifierKey(key string, kind core.IdentifierKind, country core.CountryCode) *MapValidator {
	return mv.WithKeyValidator(key, func(value any) error {
		candidate, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string, got %T", core.ErrInvalidArgument, key, value)
		}
		valid, err := registry.Validate(kind, country.String(), candidate)
		if err != nil {
			return err
		}
		if !valid {
			return fmt.Errorf("%w: '%s' is not a valid %s for country %s", core.ErrInvalidArgument, candidate, kind, country)
		}
		return nil
	})
}

// Validate 验证 map
func (mv *MapValidator) Validate(kvs map[string]any) []*FieldError {
	return ValidateMap(kvs, mv)
}

func keySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, key := range keys {
		set[key] = true
	}
	return set
}

func sortedKeys(kvs map[string]any) []string {
	keys := make([]string, 0, len(kvs))
	for key := range kvs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
