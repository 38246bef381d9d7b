package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fetchoracle/telliot-core-alt/internal/api/http/types"
)

// HealthHandler 存活检查，不访问链
type HealthHandler struct {
	chainID   int64
	startTime time.Time
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(chainID int64) *HealthHandler {
	return &HealthHandler{chainID: chainID, startTime: time.Now()}
}

// GetHealth GET /healthz
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:  "ok",
		ChainID: h.chainID,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	})
}
