package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	logInterface "github.com/fetchoracle/telliot-core-alt/pkg/interfaces/infrastructure/log"
)

// DefaultGasPriceURL ethgasstation 接口
const DefaultGasPriceURL = "https://ethgasstation.info/json/ethgasAPI.json"

// DefaultGasAttempts 默认尝试次数
const DefaultGasAttempts = 2

// GasStyle ethgasstation 的价格档位
type GasStyle string

const (
	GasFast    GasStyle = "fast"
	GasFastest GasStyle = "fastest"
	GasSafeLow GasStyle = "safeLow"
	GasAverage GasStyle = "average"
)

// ParseGasStyle 解析档位名
func ParseGasStyle(s string) (GasStyle, error) {
	switch GasStyle(s) {
	case GasFast, GasFastest, GasSafeLow, GasAverage:
		return GasStyle(s), nil
	default:
		return "", fmt.Errorf("unknown gas price style %q (want fast, fastest, safeLow or average)", s)
	}
}

// GasPriceFeed 旧版 gas 价格来源
type GasPriceFeed struct {
	URL         string
	Client      *http.Client
	MaxAttempts int
	Backoff     time.Duration
	Logger      logInterface.Logger
	Recorder    Recorder
}

// NewGasPriceFeed 使用默认地址与尝试次数
func NewGasPriceFeed() *GasPriceFeed {
	return &GasPriceFeed{
		URL:         DefaultGasPriceURL,
		Client:      NewHTTPClient(10 * time.Second),
		MaxAttempts: DefaultGasAttempts,
	}
}

// Source 指定档位的单次抓取，返回 gwei
func (g *GasPriceFeed) Source(style GasStyle) *JSONFeed[uint64] {
	return &JSONFeed[uint64]{
		Name:   "gas_price",
		URL:    g.URL,
		Key:    string(style),
		Client: g.Client,
		Parse:  parseGwei10,
		// 接口返回 gwei×10
		Normalize: func(v uint64) uint64 { return v / 10 },
	}
}

// Price 当前 gas 价格（gwei），不可用时返回 false
func (g *GasPriceFeed) Price(ctx context.Context, style GasStyle) (uint64, bool) {
	opts := []Option{WithBackoff(g.Backoff), WithRecorder("gas_price", g.Recorder)}
	if g.Logger != nil {
		opts = append(opts, WithLogger(g.Logger))
	}
	return Fetch[uint64](ctx, g.Source(style), g.MaxAttempts, opts...)
}

// FetchGasPrice 默认来源、fast 档位
func FetchGasPrice(ctx context.Context) (uint64, bool) {
	return NewGasPriceFeed().Price(ctx, GasFast)
}

// parseGwei10 数值可能带小数，截断取整
func parseGwei10(raw json.RawMessage) (uint64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f < 0 || math.IsNaN(f) || f > 1e18 {
		return 0, fmt.Errorf("price %s out of range", n)
	}
	return uint64(f), nil
}
