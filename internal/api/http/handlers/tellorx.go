package handlers

import (
	"context"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/fetchoracle/telliot-core-alt/client/core/feed"
	"github.com/fetchoracle/telliot-core-alt/client/core/tellorx"
	"github.com/fetchoracle/telliot-core-alt/internal/api/http/middleware"
	"github.com/fetchoracle/telliot-core-alt/internal/api/http/types"
	"github.com/fetchoracle/telliot-core-alt/pkg/invocation"
)

// MasterReader master 合约只读接口
type MasterReader interface {
	GetStakerInfo(ctx context.Context, staker common.Address) invocation.Result[tellorx.StakerInfo]
	DisputesByID(ctx context.Context, id *big.Int) invocation.Result[tellorx.DisputeReport]
}

// GasPricer gas 价格来源
type GasPricer interface {
	Price(ctx context.Context, style feed.GasStyle) (uint64, bool)
}

// TellorXHandlers 质押、争议与 gas 价格查询
type TellorXHandlers struct {
	master MasterReader
	gas    GasPricer
}

// NewTellorXHandlers 创建处理器
func NewTellorXHandlers(master MasterReader, gas GasPricer) *TellorXHandlers {
	return &TellorXHandlers{master: master, gas: gas}
}

// RegisterRoutes 注册路由
func (h *TellorXHandlers) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stakers/:address", h.GetStaker)
	r.GET("/disputes/:id", h.GetDispute)
	r.GET("/gas-price", h.GetGasPrice)
}

// GetStaker GET /v1/stakers/:address
func (h *TellorXHandlers) GetStaker(c *gin.Context) {
	addr := c.Param("address")
	if !common.IsHexAddress(addr) {
		badRequest(c, "invalid address")
		return
	}
	writeResult(c, h.master.GetStakerInfo(c.Request.Context(), common.HexToAddress(addr)), "staker")
}

// GetDispute GET /v1/disputes/:id
func (h *TellorXHandlers) GetDispute(c *gin.Context) {
	id, err := tellorx.ParseDisputeID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	writeResult(c, h.master.DisputesByID(c.Request.Context(), id), "dispute")
}

// GetGasPrice GET /v1/gas-price?style=fast
func (h *TellorXHandlers) GetGasPrice(c *gin.Context) {
	style, err := feed.ParseGasStyle(c.DefaultQuery("style", string(feed.GasFast)))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	reqID := middleware.GetRequestID(c)
	price, ok := h.gas.Price(c.Request.Context(), style)
	if !ok {
		c.Header("Retry-After", "5")
		c.JSON(http.StatusServiceUnavailable, types.NewErrorResponse(types.ErrServiceUnavailable, "gas price unavailable").WithRequestID(reqID))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(types.GasPriceResponse{Style: string(style), Gwei: price}).WithRequestID(reqID))
}
