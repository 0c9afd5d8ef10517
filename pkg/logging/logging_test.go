package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLevel 测试日志级别解析
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{" error ", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestNew 测试创建日志实例
func TestNew(t *testing.T) {
	t.Run("默认配置", func(t *testing.T) {
		logger, err := New(DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("文件输出", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.File = filepath.Join(t.TempDir(), "fiscal.log")
		cfg.JSON = true
		logger, err := New(cfg)
		require.NoError(t, err)
		logger.Info("hello")
		_ = logger.Sync()
		assert.FileExists(t, cfg.File)
	})

	t.Run("无效级别", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Level = "loud"
		_, err := New(cfg)
		assert.Error(t, err)
	})
}

// TestReplaceGlobal 测试替换和恢复全局日志
func TestReplaceGlobal(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := ReplaceGlobal(zap.New(core))

	L().Debug("captured")
	assert.Equal(t, 1, logs.Len())

	restore()
	L().Debug("dropped")
	assert.Equal(t, 1, logs.Len())

	restore = ReplaceGlobal(nil)
	defer restore()
	assert.NotNil(t, L())
}
