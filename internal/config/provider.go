package config

import (
	"fmt"

	"github.com/fetchoracle/telliot-core-alt/internal/config/api"
	"github.com/fetchoracle/telliot-core-alt/internal/config/chain"
	"github.com/fetchoracle/telliot-core-alt/internal/config/feed"
	"github.com/fetchoracle/telliot-core-alt/internal/config/log"
	"github.com/fetchoracle/telliot-core-alt/pkg/interfaces/config"
	"github.com/fetchoracle/telliot-core-alt/pkg/types"
	"github.com/fetchoracle/telliot-core-alt/pkg/valuetype"
)

// Provider 实现配置提供者接口
//
// 各配置段在构造时一次性解析并校验，之后只读。
type Provider struct {
	appConfig *types.AppConfig

	chain     *chain.ChainOptions
	feed      *feed.FeedOptions
	api       *api.APIOptions
	log       *log.LogOptions
	valueType valuetype.GrammarType
}

var _ config.Provider = (*Provider)(nil)

// NewProvider 创建配置提供者，appConfig 为 nil 时全部使用默认值
func NewProvider(appConfig *types.AppConfig) (*Provider, error) {
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}
	p := &Provider{appConfig: appConfig}

	chainCfg, err := chain.New(appConfig.Chain)
	if err != nil {
		return nil, err
	}
	p.chain = chainCfg.GetOptions()

	feedCfg, err := feed.New(appConfig.Feed)
	if err != nil {
		return nil, err
	}
	p.feed = feedCfg.GetOptions()

	apiCfg, err := api.New(appConfig.API)
	if err != nil {
		return nil, err
	}
	p.api = apiCfg.GetOptions()

	p.log = log.New(appConfig.Log).GetOptions()

	if appConfig.ValueType != nil && !appConfig.ValueType.IsZero() {
		p.valueType = *appConfig.ValueType
	} else {
		p.valueType = valuetype.MustNew(valuetype.DefaultType, false)
	}

	for i, e := range appConfig.Directory {
		if e.Name == "" || e.ChainID <= 0 {
			return nil, fmt.Errorf("directory[%d]: name and chain_id are required", i)
		}
	}
	return p, nil
}

// GetChain 获取链连接配置
func (p *Provider) GetChain() *chain.ChainOptions { return p.chain }

// GetFeed 获取行情抓取配置
func (p *Provider) GetFeed() *feed.FeedOptions { return p.feed }

// GetAPI 获取HTTP网关配置
func (p *Provider) GetAPI() *api.APIOptions { return p.api }

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions { return p.log }

// GetDirectory 获取合约目录覆盖条目
func (p *Provider) GetDirectory() []types.UserDirectoryEntry {
	return append([]types.UserDirectoryEntry(nil), p.appConfig.Directory...)
}

// GetValueType 获取上报值的默认类型
func (p *Provider) GetValueType() valuetype.GrammarType { return p.valueType }

// GetEnvironment 获取运行环境，未配置或无效时为 prod
func (p *Provider) GetEnvironment() string {
	if p.appConfig.Environment != nil {
		switch env := *p.appConfig.Environment; env {
		case "dev", "test", "prod":
			return env
		}
	}
	return "prod"
}
