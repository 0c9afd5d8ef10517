package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
	"github.com/stivlo/obliquid-lib-sub001/pkg/validator"
)

// validationResult 单个候选值的验证结果
type validationResult struct {
	Kind      core.IdentifierKind `json:"kind"`
	Country   core.CountryCode    `json:"country"`
	Value     string              `json:"value"`
	Valid     bool                `json:"valid"`
	Strength  string              `json:"strength"`
	Validator string              `json:"validator"`
}

// errorResponse 错误响应
type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []*validator.FieldError `json:"fields,omitempty"`
}

// batchRequest 批量验证请求，最多 100 个条目
type batchRequest struct {
	Items []batchItem `json:"items" validate:"required,min=1,max=100,dive"`
}

// batchItem 批量验证条目，country 为空时使用默认国家
type batchItem struct {
	Kind    string `json:"kind" validate:"required"`
	Country string `json:"country" validate:"omitempty,fiscal_country"`
	Value   string `json:"value"`
}

// CustomValidation 标识类型必须可解析
func (r *batchRequest) CustomValidation(_ validator.ValidateScene, report validator.FuncReportError) {
	for i, item := range r.Items {
		if item.Kind == "" {
			continue
		}
		if _, err := core.ParseIdentifierKind(item.Kind); err != nil {
			report(fmt.Sprintf("batchRequest.items[%d].kind", i), "identifier_kind", "")
		}
	}
}

// batchResult 批量验证中单个条目的结果，不支持的组合不影响其他条目
type batchResult struct {
	validationResult
	Error string `json:"error,omitempty"`
}

// handleHealth 健康检查
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleValidate GET /v1/validate/:kind/:country?value=...[&callback=...]
func (s *Server) handleValidate(c *gin.Context) {
	kind, err := core.ParseIdentifierKind(c.Param("kind"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	value, ok := c.GetQuery("value")
	if !ok {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("%w: missing query parameter 'value'", core.ErrInvalidArgument))
		return
	}

	res, err := s.validate(kind, c.Param("country"), value)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSONP(http.StatusOK, res)
}

// handleValidateBatch POST /v1/validate
func (s *Server) handleValidateBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("%w: malformed request body: %w", core.ErrInvalidArgument, err))
		return
	}

	if errs := s.validator.Validate(&req, validator.SceneAll); errs != nil {
		_ = c.Error(fmt.Errorf("%w: invalid batch request", core.ErrInvalidArgument))
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request", Fields: errs})
		return
	}

	results := make([]batchResult, 0, len(req.Items))
	for _, item := range req.Items {
		// CustomValidation 已保证类型可解析
		kind, _ := core.ParseIdentifierKind(item.Kind)
		country := item.Country
		if country == "" {
			country = s.defaultCountry.String()
		}

		res, err := s.validate(kind, country, item.Value)
		if err != nil {
			results = append(results, batchResult{
				validationResult: validationResult{Kind: kind, Country: core.CountryCode(country), Value: item.Value},
				Error:            err.Error(),
			})
			continue
		}
		results = append(results, batchResult{validationResult: res})
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// handleCountries GET /v1/countries/:kind
func (s *Server) handleCountries(c *gin.Context) {
	kind, err := core.ParseIdentifierKind(c.Param("kind"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSONP(http.StatusOK, gin.H{"kind": kind, "countries": s.registry.Supported(kind)})
}

// validate 通过注册表验证单个候选值
func (s *Server) validate(kind core.IdentifierKind, countryCode, value string) (validationResult, error) {
	v, err := s.registry.Lookup(kind, countryCode)
	if err != nil {
		return validationResult{}, err
	}

	// Lookup 成功意味着国家代码可解析
	country, _ := core.ParseCountryCode(countryCode)
	return validationResult{
		Kind:      kind,
		Country:   country,
		Value:     value,
		Valid:     v.Validate(value),
		Strength:  v.Strength().String(),
		Validator: v.Name(),
	}, nil
}

// fail 输出错误响应；带 callback 参数时同样以 JSONP 形式输出
func (s *Server) fail(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSONP(status, errorResponse{Error: err.Error()})
}

// statusFor 错误到 HTTP 状态码的映射
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnsupportedCountry):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
