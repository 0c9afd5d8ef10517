// Package server 提供税务标识验证的 HTTP 接口
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stivlo/obliquid-lib-sub001/pkg/config"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/registry"
	"github.com/stivlo/obliquid-lib-sub001/pkg/validator"
)

// Server HTTP 服务
type Server struct {
	registry       *registry.Registry
	validator      *validator.Validator
	logger         *zap.Logger
	defaultCountry core.CountryCode
	ids            *idGenerator
	router         *gin.Engine
	server         *http.Server
}

// NewServer 创建 HTTP 服务
// defaultCountry 用于批量验证中未指定国家的条目
func NewServer(cfg config.Server, defaultCountry core.CountryCode, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ids, err := newIDGenerator(cfg.NodeID)
	if err != nil {
		return nil, err
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		registry:       registry.Default(),
		validator:      validator.Default(),
		logger:         logger,
		defaultCountry: defaultCountry,
		ids:            ids,
		router:         gin.New(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// setupMiddleware 配置中间件
func (s *Server) setupMiddleware() {
	s.router.Use(requestID(s.ids, s.logger))
	s.router.Use(requestLogger(s.logger))
	s.router.Use(gin.Recovery())
}

// setupRoutes 配置路由
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/v1")
	{
		v1.GET("/validate/:kind/:country", s.handleValidate)
		v1.POST("/validate", s.handleValidateBatch)
		v1.GET("/countries/:kind", s.handleCountries)
	}
}

// Handler 返回路由，便于测试和嵌入其他服务
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 在 cfg.Addr 上监听 HTTP 请求，阻塞直到服务关闭
// 关闭后返回 http.ErrServerClosed；先于 Start 调用 Shutdown 时 Start 立即返回
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown 优雅关闭，可以与 Start 并发调用
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
