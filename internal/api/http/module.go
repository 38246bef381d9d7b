package http

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/fetchoracle/telliot-core-alt/internal/api/http/handlers"
	"github.com/fetchoracle/telliot-core-alt/internal/config/api"
	"github.com/fetchoracle/telliot-core-alt/internal/config/chain"
	corelog "github.com/fetchoracle/telliot-core-alt/internal/core/infrastructure/log"
	"github.com/fetchoracle/telliot-core-alt/pkg/interfaces/infrastructure/log"
)

// ServerParams 网关依赖参数
type ServerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	API       *api.APIOptions
	Chain     *chain.ChainOptions
	Master    handlers.MasterReader
	Gas       handlers.GasPricer
	Logger    log.Logger
	Registry  *prometheus.Registry `optional:"true"`
}

// Module 返回 HTTP 网关模块
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(ProvideServer),
		fx.Invoke(func(*Server) {}),
	)
}

// ProvideServer 创建服务器，并在 API 启用时注册启动与关闭钩子
func ProvideServer(p ServerParams) *Server {
	deps := Deps{
		Options: p.API.HTTP,
		ChainID: p.Chain.ChainID,
		Master:  p.Master,
		Gas:     p.Gas,
		Logger:  corelog.NewModuleLogger(p.Logger, corelog.ModuleAPI),
	}
	if p.Registry != nil {
		deps.Registry = p.Registry
		deps.Gatherer = p.Registry
	}
	server := NewServer(deps)

	if !p.API.HTTP.Enabled {
		p.Logger.Info("HTTP gateway disabled by configuration")
		return server
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error { return server.Start() },
		OnStop:  server.Stop,
	})
	return server
}
