package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/fetchoracle/telliot-core-alt/internal/api/http/types"
)

// limiterIdleTTL 超过该时长未访问的客户端限流器会被清理
const limiterIdleTTL = 10 * time.Minute

// RateLimit 按客户端 IP 的令牌桶限流
type RateLimit struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	lastSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimit 每个客户端每秒 rps 次请求，rps <= 0 时返回 nil
func NewRateLimit(rps float64, burst int) *RateLimit {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimit{
		limit:     rate.Limit(rps),
		burst:     burst,
		limiters:  make(map[string]*clientLimiter),
		lastSweep: time.Now(),
	}
}

// Middleware 返回Gin中间件
func (m *RateLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.allow(c.ClientIP(), time.Now()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				types.NewErrorResponse(types.ErrRateLimitExceeded, "request rate limit exceeded").WithRequestID(GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func (m *RateLimit) allow(clientID string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) > limiterIdleTTL {
		for id, cl := range m.limiters {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(m.limiters, id)
			}
		}
		m.lastSweep = now
	}

	cl, ok := m.limiters[clientID]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.limiters[clientID] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}
