package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
	"github.com/stivlo/obliquid-lib-sub001/pkg/logging"
)

// envPrefix 环境变量前缀，如 FISCALID_LOG_LEVEL
const envPrefix = "FISCALID"

// Config 应用配置
type Config struct {
	// Log 日志配置
	Log logging.Config `mapstructure:"log"`
	// Server HTTP服务配置
	Server Server `mapstructure:"server"`
	// DefaultCountry 未指定国家时使用的国家代码
	DefaultCountry string `mapstructure:"default_country"`
}

// Server HTTP服务配置
type Server struct {
	// Addr 监听地址
	Addr string `mapstructure:"addr"`
	// Mode gin 运行模式：debug, release, test
	Mode string `mapstructure:"mode"`
	// NodeID 请求ID中的节点编号 [0, 1023]，多实例部署时各实例应不同
	NodeID int64 `mapstructure:"node_id"`
}

// maxNodeID 节点编号上限，与请求ID的10位节点段一致
const maxNodeID = 1023

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	def := logging.DefaultConfig()
	v.SetDefault("log.level", def.Level)
	v.SetDefault("log.file", def.File)
	v.SetDefault("log.max_size_mb", def.MaxSizeMB)
	v.SetDefault("log.max_backups", def.MaxBackups)
	v.SetDefault("log.max_age_days", def.MaxAgeDays)
	v.SetDefault("log.json", def.JSON)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.node_id", 0)
	v.SetDefault("default_country", string(core.CountryIT))
}

// Load 加载配置
// 说明：path 为空时只使用默认值和环境变量；文件不存在视为错误
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := core.ParseCountryCode(c.DefaultCountry); err != nil {
		return fmt.Errorf("default_country: %w", err)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr cannot be empty")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got '%s'", c.Server.Mode)
	}
	if c.Server.NodeID < 0 || c.Server.NodeID > maxNodeID {
		return fmt.Errorf("server.node_id must be between 0 and %d, got %d", maxNodeID, c.Server.NodeID)
	}
	return nil
}
