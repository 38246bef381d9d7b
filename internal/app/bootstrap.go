package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/fetchoracle/telliot-core-alt/internal/api"
	config "github.com/fetchoracle/telliot-core-alt/internal/config"
	log "github.com/fetchoracle/telliot-core-alt/internal/core/infrastructure/log"
	"github.com/fetchoracle/telliot-core-alt/internal/core/infrastructure/metrics"
	configInterface "github.com/fetchoracle/telliot-core-alt/pkg/interfaces/config"
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{opts: opts}
}

// SetupInfrastructureLayer 配置、日志与指标
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(func() configInterface.AppOptions { return b.opts }),
		config.Module(),  // 1. 配置(不依赖其他)
		log.Module(),     // 2. 日志(依赖配置)
		metrics.Module(), // 3. 指标
	}
}

// SetupBusinessLayer 合约绑定与行情
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	opts := []fx.Option{CoreModule()}
	if b.opts.privateKey != "" {
		opts = append(opts, fx.Supply(b.opts.privateKey))
	}
	return opts
}

// SetupApplicationLayer 对外接口
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	if !b.opts.enableAPI {
		return nil
	}
	return []fx.Option{api.Module()}
}

// SetupModules 设置所有应用模块
func (b *Bootstrap) SetupModules() ([]fx.Option, error) {
	if err := b.resolveConfig(); err != nil {
		return nil, err
	}
	var all []fx.Option
	all = append(all, b.SetupInfrastructureLayer()...)
	all = append(all, b.SetupBusinessLayer()...)
	all = append(all, b.SetupApplicationLayer()...)
	all = append(all, b.opts.extra...)
	return all, nil
}

// resolveConfig 没有显式配置时读取配置文件或嵌入配置
func (b *Bootstrap) resolveConfig() error {
	if b.opts.appConfig != nil {
		return nil
	}
	cfg, err := config.LoadAppConfig(b.opts.configFilePath, b.opts.environment)
	if err != nil {
		return err
	}
	b.opts.appConfig = cfg
	return nil
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp(extra ...fx.Option) error {
	modules, err := b.SetupModules()
	if err != nil {
		return err
	}
	appOptions := append([]fx.Option{fx.Options(modules...), fx.NopLogger}, extra...)
	b.fxApp = fx.New(appOptions...)
	if err := b.fxApp.Err(); err != nil {
		return fmt.Errorf("assemble application: %w", err)
	}
	return nil
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("start application: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("stop application: %w", err)
	}
	return nil
}
