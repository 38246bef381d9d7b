// Package api 对外接口
package api

import (
	"go.uber.org/fx"

	"github.com/fetchoracle/telliot-core-alt/internal/api/http"
)

// Module 返回API模块
func Module() fx.Option {
	return fx.Module("api",
		http.Module(),
	)
}
