// Package chain 链连接配置
package chain

import (
	"fmt"
	"os"
	"time"

	"github.com/fetchoracle/telliot-core-alt/pkg/types"
	"github.com/fetchoracle/telliot-core-alt/pkg/utils/timeutil"
)

// ChainOptions 链连接配置选项
type ChainOptions struct {
	ChainID       int64         `json:"chain_id"`
	Endpoint      string        `json:"endpoint"`
	Timeout       time.Duration `json:"timeout"`
	RateLimit     float64       `json:"rate_limit"` // 每秒请求数，0 表示不限速
	Burst         int           `json:"burst"`
	PrivateKeyEnv string        `json:"private_key_env"`
}

// Config 链连接配置实现
type Config struct {
	options *ChainOptions
}

// New 以默认值为基础应用用户配置
func New(user *types.UserChainConfig) (*Config, error) {
	options := &ChainOptions{
		ChainID:       defaultChainID,
		Endpoint:      defaultEndpoint,
		Timeout:       defaultTimeout,
		RateLimit:     defaultRateLimit,
		Burst:         defaultBurst,
		PrivateKeyEnv: defaultPrivateKeyEnv,
	}
	if user != nil {
		if user.ChainID != nil {
			options.ChainID = *user.ChainID
		}
		if user.Endpoint != nil {
			// 允许 ${VAR} 引用环境变量，避免把项目密钥写进配置文件
			options.Endpoint = os.ExpandEnv(*user.Endpoint)
		}
		timeout, err := timeutil.DurationOr(user.Timeout, defaultTimeout)
		if err != nil {
			return nil, fmt.Errorf("chain.timeout: %w", err)
		}
		options.Timeout = timeout
		if user.RateLimit != nil {
			options.RateLimit = *user.RateLimit
		}
		if user.Burst != nil {
			options.Burst = *user.Burst
		}
		if user.PrivateKeyEnv != nil {
			options.PrivateKeyEnv = *user.PrivateKeyEnv
		}
	}
	if options.ChainID <= 0 {
		return nil, fmt.Errorf("chain.chain_id must be positive, got %d", options.ChainID)
	}
	if options.Endpoint == "" {
		return nil, fmt.Errorf("chain.endpoint is required")
	}
	if options.RateLimit < 0 || options.Burst < 0 {
		return nil, fmt.Errorf("chain.rate_limit and chain.burst must not be negative")
	}
	return &Config{options: options}, nil
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *ChainOptions {
	return c.options
}
