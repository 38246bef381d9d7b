package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/fx"

	"github.com/fetchoracle/telliot-core-alt/client/core/contract"
	"github.com/fetchoracle/telliot-core-alt/client/core/directory"
	"github.com/fetchoracle/telliot-core-alt/client/core/feed"
	"github.com/fetchoracle/telliot-core-alt/client/core/tellorx"
	"github.com/fetchoracle/telliot-core-alt/client/core/transport"
	"github.com/fetchoracle/telliot-core-alt/internal/api/http/handlers"
	"github.com/fetchoracle/telliot-core-alt/internal/config/chain"
	feedconfig "github.com/fetchoracle/telliot-core-alt/internal/config/feed"
	corelog "github.com/fetchoracle/telliot-core-alt/internal/core/infrastructure/log"
	"github.com/fetchoracle/telliot-core-alt/internal/core/infrastructure/metrics"
	"github.com/fetchoracle/telliot-core-alt/pkg/interfaces/config"
	logInterface "github.com/fetchoracle/telliot-core-alt/pkg/interfaces/infrastructure/log"
)

// Services 命令行与网关共用的业务组件
type Services struct {
	fx.In

	Provider  config.Provider
	Logger    logInterface.Logger
	Directory *directory.Static
	Client    *transport.EthClient
	Master    *tellorx.Master
	Oracle    *tellorx.Oracle
	Gas       *feed.GasPriceFeed
	Collector *metrics.Collector `optional:"true"`
}

// CoreModule 目录、传输、合约绑定与行情抓取
func CoreModule() fx.Option {
	return fx.Module("core",
		fx.Provide(
			ProvideDirectory,
			ProvideSigner,
			ProvideTransport,
			ProvideMaster,
			ProvideOracle,
			ProvideGasFeed,
			func(m *tellorx.Master) handlers.MasterReader { return m },
			func(g *feed.GasPriceFeed) handlers.GasPricer { return g },
		),
	)
}

// ProvideDirectory 内置目录加上配置中的覆盖条目
func ProvideDirectory(p config.Provider, logger logInterface.Logger) (*directory.Static, error) {
	dir, err := directory.FromConfig(p.GetDirectory())
	if err != nil {
		return nil, fmt.Errorf("load contract directory: %w", err)
	}
	corelog.NewModuleLogger(logger, corelog.ModuleDirectory).Debugf("contract directory loaded: %d entries", len(dir.Entries()))
	return dir, nil
}

// SignerParams 签名者依赖
type SignerParams struct {
	fx.In

	Chain *chain.ChainOptions
	Key   PrivateKey `optional:"true"`
}

// ProvideSigner 显式私钥优先，其次读取环境变量；都没有时返回 nil，客户端只读
func ProvideSigner(p SignerParams) (*transport.Signer, error) {
	key := strings.TrimSpace(string(p.Key))
	if key == "" && p.Chain.PrivateKeyEnv != "" {
		key = strings.TrimSpace(os.Getenv(p.Chain.PrivateKeyEnv))
	}
	if key == "" {
		return nil, nil
	}
	return transport.NewSigner(key, p.Chain.ChainID)
}

// TransportParams 传输层依赖
type TransportParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Chain     *chain.ChainOptions
	Signer    *transport.Signer `optional:"true"`
	Logger    logInterface.Logger
}

// ProvideTransport 连接节点；启动时核对链ID，节点不可达只记录警告
func ProvideTransport(p TransportParams) (*transport.EthClient, transport.Transport, error) {
	logger := corelog.NewModuleLogger(p.Logger, corelog.ModuleTransport)
	client, err := transport.Dial(context.Background(), transport.ClientConfig{
		Endpoint:  p.Chain.Endpoint,
		ChainID:   p.Chain.ChainID,
		Timeout:   p.Chain.Timeout,
		RateLimit: p.Chain.RateLimit,
		Burst:     p.Chain.Burst,
		Signer:    p.Signer,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			err := client.CheckChainID(ctx, p.Chain.ChainID)
			var te *transport.Error
			if errors.As(err, &te) && te.Kind.Retryable() {
				logger.Warnf("chain id check skipped, endpoint unavailable: %v", err)
				return nil
			}
			return err
		},
		OnStop: func(context.Context) error {
			client.Close()
			return nil
		},
	})
	return client, client, nil
}

// BindingParams 合约绑定依赖
type BindingParams struct {
	fx.In

	Directory *directory.Static
	Transport transport.Transport
	Chain     *chain.ChainOptions
	Logger    logInterface.Logger
	Collector *metrics.Collector `optional:"true"`
}

func (p BindingParams) options() []contract.BindingOption {
	return []contract.BindingOption{
		contract.WithLogger(corelog.NewModuleLogger(p.Logger, corelog.ModuleBinding)),
		contract.WithRecorder(p.Collector),
	}
}

// ProvideMaster master 合约绑定
func ProvideMaster(p BindingParams) (*tellorx.Master, error) {
	return tellorx.NewMaster(p.Directory, p.Transport, p.Chain.ChainID, p.options()...)
}

// ProvideOracle oracle 合约绑定
func ProvideOracle(p BindingParams) (*tellorx.Oracle, error) {
	return tellorx.NewOracle(p.Directory, p.Transport, p.Chain.ChainID, p.options()...)
}

// GasFeedParams gas 价格来源依赖
type GasFeedParams struct {
	fx.In

	Feed      *feedconfig.FeedOptions
	Logger    logInterface.Logger
	Collector *metrics.Collector `optional:"true"`
}

// ProvideGasFeed 按配置构造 gas 价格来源
func ProvideGasFeed(p GasFeedParams) *feed.GasPriceFeed {
	return &feed.GasPriceFeed{
		URL:         p.Feed.GasPriceURL,
		Client:      feed.NewHTTPClient(p.Feed.Timeout),
		MaxAttempts: p.Feed.MaxAttempts,
		Backoff:     p.Feed.Backoff,
		Logger:      corelog.NewModuleLogger(p.Logger, corelog.ModuleFeed),
		Recorder:    p.Collector,
	}
}
