// Package handlers 只读网关的请求处理器
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fetchoracle/telliot-core-alt/internal/api/http/middleware"
	"github.com/fetchoracle/telliot-core-alt/internal/api/http/types"
	"github.com/fetchoracle/telliot-core-alt/pkg/invocation"
)

// writeResult 调用结果映射为 HTTP 状态
//
// Ok+载荷 → 200，Ok+不存在 → 404，Transient → 503，Fatal → 502。
func writeResult[T any](c *gin.Context, res invocation.Result[T], what string) {
	reqID := middleware.GetRequestID(c)
	res.Match(
		func(v T, present bool) {
			if !present {
				c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrNotFound, what+" not found").WithRequestID(reqID))
				return
			}
			c.JSON(http.StatusOK, types.NewSuccessResponse(v).WithRequestID(reqID))
		},
		func(s invocation.Status) {
			_ = c.Error(s.Err())
			c.Header("Retry-After", "5")
			c.JSON(http.StatusServiceUnavailable, types.NewErrorResponse(types.ErrServiceUnavailable, s.Message()).WithRequestID(reqID))
		},
		func(s invocation.Status) {
			_ = c.Error(s.Err())
			c.JSON(http.StatusBadGateway, types.NewErrorResponse(types.ErrUpstreamFailure, s.Message()).WithRequestID(reqID))
		},
	)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrInvalidArgument, msg).WithRequestID(middleware.GetRequestID(c)))
}
