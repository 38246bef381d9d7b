// Package api 只读 HTTP 网关配置
package api

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/fetchoracle/telliot-core-alt/pkg/types"
	"github.com/fetchoracle/telliot-core-alt/pkg/utils/timeutil"
)

// APIOptions API服务配置选项
type APIOptions struct {
	HTTP HTTPConfig `json:"http"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	Enabled      bool          `json:"enabled"`
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	RateLimit    float64       `json:"rate_limit"` // 每个客户端 IP 每秒请求数，0 表示不限流
	Burst        int           `json:"burst"`
}

// Addr 监听地址 host:port
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置实现
func New(userConfig *types.UserAPIConfig) (*Config, error) {
	options := &APIOptions{
		HTTP: HTTPConfig{
			Enabled:      defaultHTTPEnabled,
			Host:         defaultHTTPHost,
			Port:         defaultHTTPPort,
			ReadTimeout:  defaultHTTPReadTimeout,
			WriteTimeout: defaultHTTPWriteTimeout,
			RateLimit:    defaultHTTPRateLimit,
			Burst:        defaultHTTPBurst,
		},
	}
	if userConfig != nil {
		if userConfig.HTTPEnabled != nil {
			options.HTTP.Enabled = *userConfig.HTTPEnabled
		}
		if userConfig.HTTPHost != nil {
			options.HTTP.Host = *userConfig.HTTPHost
		}
		if userConfig.HTTPPort != nil {
			options.HTTP.Port = *userConfig.HTTPPort
		}
		rt, err := timeutil.DurationOr(userConfig.ReadTimeout, defaultHTTPReadTimeout)
		if err != nil {
			return nil, fmt.Errorf("api.read_timeout: %w", err)
		}
		options.HTTP.ReadTimeout = rt
		if userConfig.RateLimit != nil {
			options.HTTP.RateLimit = *userConfig.RateLimit
		}
	}
	if options.HTTP.RateLimit < 0 {
		return nil, fmt.Errorf("api.rate_limit must not be negative")
	}
	if options.HTTP.Port <= 0 || options.HTTP.Port > 65535 {
		return nil, fmt.Errorf("api.http_port out of range: %d", options.HTTP.Port)
	}
	return &Config{options: options}, nil
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *APIOptions {
	return c.options
}
