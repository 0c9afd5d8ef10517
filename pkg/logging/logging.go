package logging

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日志配置
type Config struct {
	// Level 日志级别：debug, info, warn, error
	Level string `mapstructure:"level"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `mapstructure:"file"`
	// MaxSizeMB 单个日志文件最大大小（MB）
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups 保留的旧日志文件数量
	MaxBackups int `mapstructure:"max_backups"`
	// MaxAgeDays 旧日志文件保留天数
	MaxAgeDays int `mapstructure:"max_age_days"`
	// JSON 是否使用 JSON 编码，否则使用控制台编码
	JSON bool `mapstructure:"json"`
}

// DefaultConfig 默认配置：info 级别，控制台输出
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

// global 全局日志实例，默认为 Nop，库代码不会产生任何输出
var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// L 获取全局日志实例
func L() *zap.Logger {
	return global.Load()
}

// ReplaceGlobal 替换全局日志实例，返回恢复函数
func ReplaceGlobal(logger *zap.Logger) func() {
	if logger == nil {
		logger = zap.NewNop()
	}
	prev := global.Swap(logger)
	return func() {
		global.Store(prev)
	}
}

// New 根据配置创建日志实例
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.JSON {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
	}

	if cfg.File != "" {
		// 文件输出始终使用 JSON 编码，便于收集
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// ParseLevel 解析日志级别，空字符串视为 info
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return level, fmt.Errorf("invalid log level '%s': %w", s, err)
	}
	return level, nil
}
