package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	logInterface "github.com/fetchoracle/telliot-core-alt/pkg/interfaces/infrastructure/log"
)

// ClientConfig 连接配置
type ClientConfig struct {
	Endpoint  string
	ChainID   int64
	Timeout   time.Duration
	RateLimit float64
	Burst     int
	Signer    *Signer // 可选
}

// Dial 连接 JSON-RPC 节点
//
// HTTP 端点不会在此处建立连接，首个请求时才会发现网络错误。
func Dial(ctx context.Context, cfg ClientConfig, logger logInterface.Logger) (*EthClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	rpcClient, err := rpc.DialOptions(ctx, cfg.Endpoint, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, Classify("dial", fmt.Errorf("dial %s: %w", cfg.Endpoint, err))
	}

	opts := []Option{WithRateLimit(cfg.RateLimit, cfg.Burst)}
	if cfg.Signer != nil {
		opts = append(opts, WithSigner(cfg.Signer))
	}
	client := NewEthClient(ethclient.NewClient(rpcClient), logger, opts...)
	client.closer = rpcClient.Close

	if logger != nil {
		logger.Infof("transport ready: endpoint=%s chain=%d timeout=%s rate=%.1f/s", cfg.Endpoint, cfg.ChainID, timeout, cfg.RateLimit)
	}
	return client, nil
}
