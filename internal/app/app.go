// Package app 基于 fx 组装配置、日志、指标、合约绑定与 HTTP 网关
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
)

const (
	startTimeout = 30 * time.Second
	stopTimeout  = 15 * time.Second
)

// App 长驻应用（serve）
type App interface {
	// Stop 停止应用
	Stop() error
}

type internalApp struct {
	bootstrap *Bootstrap
}

// Start 组装并启动应用
func Start(appOptions ...Option) (App, error) {
	b := NewBootstrap(newOptions(appOptions...))
	if err := b.CreateFxApp(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := b.StartApp(ctx); err != nil {
		return nil, err
	}
	return &internalApp{bootstrap: b}, nil
}

func (a *internalApp) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Run 组装不含网关的应用，启动后执行 fn，结束时停止
//
// 供一次性命令使用。
func Run(ctx context.Context, fn func(context.Context, Services) error, appOptions ...Option) error {
	var svc Services
	b := NewBootstrap(newOptions(append(appOptions, WithoutAPI())...))
	if err := b.CreateFxApp(fx.Invoke(func(s Services) { svc = s })); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := b.StartApp(startCtx); err != nil {
		return err
	}

	runErr := fn(ctx, svc)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := b.StopApp(stopCtx); err != nil && runErr == nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return runErr
}
