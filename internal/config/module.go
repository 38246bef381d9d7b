// Package config 提供应用配置管理功能
package config

import (
	"github.com/fetchoracle/telliot-core-alt/internal/config/api"
	"github.com/fetchoracle/telliot-core-alt/internal/config/chain"
	"github.com/fetchoracle/telliot-core-alt/internal/config/feed"
	"github.com/fetchoracle/telliot-core-alt/pkg/interfaces/config"
	"github.com/fetchoracle/telliot-core-alt/pkg/types"
	"go.uber.org/fx"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	AppOptions config.AppOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			func(provider config.Provider) *chain.ChainOptions {
				return provider.GetChain()
			},
			func(provider config.Provider) *feed.FeedOptions {
				return provider.GetFeed()
			},
			func(provider config.Provider) *api.APIOptions {
				return provider.GetAPI()
			},
		),
	)
}

// ProvideConfigServices 提供配置服务
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	var appConfig *types.AppConfig
	if params.AppOptions != nil {
		appConfig = params.AppOptions.GetAppConfig()
	}

	provider, err := NewProvider(appConfig)
	if err != nil {
		return ConfigOutput{}, err
	}
	return ConfigOutput{Provider: provider}, nil
}
