package app

import (
	"go.uber.org/fx"

	"github.com/fetchoracle/telliot-core-alt/pkg/interfaces/config"
	"github.com/fetchoracle/telliot-core-alt/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// PrivateKey 显式提供的签名私钥（十六进制），为空时从配置指定的环境变量读取
type PrivateKey string

// options 应用程序选项
// 实现config.AppOptions接口
type options struct {
	// 配置文件路径，为空时按环境使用嵌入配置
	configFilePath string
	environment    string

	// 已解析的用户配置（优先级高于配置文件）
	appConfig *types.AppConfig

	privateKey PrivateKey

	// API支持开关 (默认启用)
	enableAPI bool

	extra []fx.Option
}

var _ config.AppOptions = (*options)(nil)

// WithConfigFile 设置配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithEnvironment 选择嵌入配置：development | testing | production
func WithEnvironment(env string) Option {
	return func(o *options) {
		o.environment = env
	}
}

// WithAppConfig 直接使用已构造的配置
func WithAppConfig(cfg *types.AppConfig) Option {
	return func(o *options) {
		o.appConfig = cfg
	}
}

// WithPrivateKey 设置签名私钥
func WithPrivateKey(key string) Option {
	return func(o *options) {
		o.privateKey = PrivateKey(key)
	}
}

// WithoutAPI 禁用API模块
func WithoutAPI() Option {
	return func(o *options) {
		o.enableAPI = false
	}
}

// WithFxOptions 追加 fx 选项，测试中用于替换依赖
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) {
		o.extra = append(o.extra, opts...)
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	options := &options{enableAPI: true}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// GetAppConfig 返回应用程序配置
func (o *options) GetAppConfig() *types.AppConfig {
	return o.appConfig
}
