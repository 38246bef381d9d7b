package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// ModuleOutput 指标模块输出
type ModuleOutput struct {
	fx.Out

	Registry  *prometheus.Registry
	Gatherer  prometheus.Gatherer
	Collector *Collector
}

// Module 返回 metrics 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建独立注册表，附带 Go 运行时与进程指标
func ProvideServices() ModuleOutput {
	reg := NewRegistry()
	return ModuleOutput{
		Registry:  reg,
		Gatherer:  reg,
		Collector: NewCollector(reg),
	}
}

// NewRegistry 创建注册了运行时指标的注册表
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
