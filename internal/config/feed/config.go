// Package feed 外部行情抓取配置
package feed

import (
	"fmt"
	"time"

	"github.com/fetchoracle/telliot-core-alt/pkg/types"
	"github.com/fetchoracle/telliot-core-alt/pkg/utils/timeutil"
)

const (
	defaultGasPriceURL = "https://ethgasstation.info/json/ethgasAPI.json"
	defaultMaxAttempts = 2
	defaultBackoff     = 200 * time.Millisecond
	defaultTimeout     = 10 * time.Second
)

// FeedOptions 行情抓取配置选项
type FeedOptions struct {
	GasPriceURL string        `json:"gas_price_url"`
	MaxAttempts int           `json:"max_attempts"`
	Backoff     time.Duration `json:"backoff"`
	Timeout     time.Duration `json:"timeout"`
}

// Config 行情抓取配置实现
type Config struct {
	options *FeedOptions
}

// New 以默认值为基础应用用户配置
func New(user *types.UserFeedConfig) (*Config, error) {
	options := &FeedOptions{
		GasPriceURL: defaultGasPriceURL,
		MaxAttempts: defaultMaxAttempts,
		Backoff:     defaultBackoff,
		Timeout:     defaultTimeout,
	}
	if user != nil {
		if user.GasPriceURL != nil {
			options.GasPriceURL = *user.GasPriceURL
		}
		if user.MaxAttempts != nil {
			options.MaxAttempts = *user.MaxAttempts
		}
		var err error
		if options.Backoff, err = timeutil.DurationOr(user.Backoff, defaultBackoff); err != nil {
			return nil, fmt.Errorf("feed.backoff: %w", err)
		}
		if options.Timeout, err = timeutil.DurationOr(user.Timeout, defaultTimeout); err != nil {
			return nil, fmt.Errorf("feed.timeout: %w", err)
		}
	}
	if options.MaxAttempts < 1 {
		return nil, fmt.Errorf("feed.max_attempts must be at least 1, got %d", options.MaxAttempts)
	}
	return &Config{options: options}, nil
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *FeedOptions {
	return c.options
}
