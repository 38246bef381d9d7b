// Package http 只读 HTTP 网关
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fetchoracle/telliot-core-alt/internal/api/http/handlers"
	"github.com/fetchoracle/telliot-core-alt/internal/api/http/middleware"
	"github.com/fetchoracle/telliot-core-alt/internal/config/api"
	"github.com/fetchoracle/telliot-core-alt/pkg/interfaces/infrastructure/log"
)

// Deps 网关依赖
type Deps struct {
	Options  api.HTTPConfig
	ChainID  int64
	Master   handlers.MasterReader
	Gas      handlers.GasPricer
	Logger   log.Logger
	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer
}

// Server HTTP服务器
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	options    api.HTTPConfig
	logger     log.Logger
	listener   net.Listener
}

// NewServer 创建服务器并注册路由
func NewServer(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.NewRequestID().Middleware())
	router.Use(middleware.NewLogger(deps.Logger).Middleware())
	if deps.Registry != nil {
		router.Use(middleware.NewMetrics(deps.Registry).Middleware())
	}
	if rl := middleware.NewRateLimit(deps.Options.RateLimit, deps.Options.Burst); rl != nil {
		router.Use(rl.Middleware())
	}

	s := &Server{router: router, options: deps.Options, logger: deps.Logger}
	s.setupRoutes(deps)
	return s
}

func (s *Server) setupRoutes(deps Deps) {
	s.router.GET("/healthz", handlers.NewHealthHandler(deps.ChainID).GetHealth)
	if deps.Gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.router.Group("/v1")
	handlers.NewTellorXHandlers(deps.Master, deps.Gas).RegisterRoutes(v1)
}

// Handler 返回路由，供测试直接驱动
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 监听并在后台提供服务
func (s *Server) Start() error {
	addr := s.options.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.options.ReadTimeout,
		ReadHeaderTimeout: s.options.ReadTimeout,
		WriteTimeout:      s.options.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP server stopped: %v", err)
		}
	}()
	s.logger.Infof("HTTP gateway listening on http://%s", ln.Addr())
	return nil
}

// Addr 实际监听地址，未启动时为空
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop 优雅关闭
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("HTTP gateway shutting down")
	return s.httpServer.Shutdown(ctx)
}
