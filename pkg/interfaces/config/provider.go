// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/fetchoracle/telliot-core-alt/internal/config/api"
	chainconfig "github.com/fetchoracle/telliot-core-alt/internal/config/chain"
	feedconfig "github.com/fetchoracle/telliot-core-alt/internal/config/feed"
	logconfig "github.com/fetchoracle/telliot-core-alt/internal/config/log"
	"github.com/fetchoracle/telliot-core-alt/pkg/types"
	"github.com/fetchoracle/telliot-core-alt/pkg/valuetype"
)

// Provider 配置提供者接口
type Provider interface {
	// GetChain 获取链连接配置
	GetChain() *chainconfig.ChainOptions

	// GetFeed 获取行情抓取配置
	GetFeed() *feedconfig.FeedOptions

	// GetAPI 获取HTTP网关配置
	GetAPI() *apiconfig.APIOptions

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetDirectory 获取合约目录的追加/覆盖条目
	GetDirectory() []types.UserDirectoryEntry

	// GetValueType 获取上报值的默认类型
	GetValueType() valuetype.GrammarType

	// GetEnvironment 获取运行环境：dev | test | prod
	GetEnvironment() string
}
