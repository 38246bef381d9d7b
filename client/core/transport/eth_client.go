package transport

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"golang.org/x/time/rate"

	logInterface "github.com/fetchoracle/telliot-core-alt/pkg/interfaces/infrastructure/log"
)

// Backend 节点后端，*ethclient.Client 满足该接口
type Backend interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// EthClient 基于 go-ethereum 的传输实现
//
// 限速器只在请求发出前等待，网络往返期间不持有任何锁。
type EthClient struct {
	backend Backend
	limiter *rate.Limiter // nil 表示不限速
	signer  *Signer       // nil 表示只读
	logger  logInterface.Logger
	closer  func()
}

var _ Transport = (*EthClient)(nil)

// Option EthClient 选项
type Option func(*EthClient)

// WithRateLimit 每秒最多 rps 次请求，rps <= 0 时不限速
func WithRateLimit(rps float64, burst int) Option {
	return func(c *EthClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithSigner 设置交易签名者
func WithSigner(s *Signer) Option {
	return func(c *EthClient) { c.signer = s }
}

// WithLogger 设置日志记录器
func WithLogger(l logInterface.Logger) Option {
	return func(c *EthClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewEthClient 包装已有后端
func NewEthClient(backend Backend, logger logInterface.Logger, opts ...Option) *EthClient {
	c := &EthClient{backend: backend, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call 执行只读调用
func (c *EthClient) Call(ctx context.Context, req *CallRequest) ([]byte, error) {
	if err := c.wait(ctx, "call"); err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{To: &req.Address, Data: req.Calldata}
	if c.signer != nil {
		msg.From = c.signer.Address()
	}
	out, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		c.debugf("call %s@%s failed: %v", req.Operation, req.Address.Hex(), err)
		return nil, Classify("call", err)
	}

	// 没有代码的地址对任何调用都返回空数据
	if len(out) == 0 && c.hasOutputs(req) {
		code, codeErr := c.backend.CodeAt(ctx, req.Address, nil)
		if codeErr != nil {
			return nil, Classify("call", codeErr)
		}
		if len(code) == 0 {
			return nil, &Error{Kind: KindRejected, Op: "call", Err: fmt.Errorf("%w at %s", bind.ErrNoCode, req.Address.Hex())}
		}
		return nil, &Error{Kind: KindMalformed, Op: "call", Err: ErrEmptyResponse}
	}

	c.debugf("call %s@%s returned %d bytes", req.Operation, req.Address.Hex(), len(out))
	return out, nil
}

// Send 签名并发送交易，不等待上链
func (c *EthClient) Send(ctx context.Context, req *CallRequest) (*TxRef, error) {
	if c.signer == nil {
		return nil, &Error{Kind: KindAuth, Op: "send", Err: ErrNoSigner}
	}
	if req.Interface == nil {
		return nil, &Error{Kind: KindUnsupported, Op: "send", Err: fmt.Errorf("no interface description for %s", req.Operation)}
	}
	if err := c.wait(ctx, "send"); err != nil {
		return nil, err
	}

	opts := c.signer.transactOpts(ctx)
	bound := bind.NewBoundContract(req.Address, *req.Interface, c.backend, c.backend, c.backend)
	tx, err := bound.RawTransact(opts, req.Calldata)
	if err != nil {
		c.debugf("send %s@%s failed: %v", req.Operation, req.Address.Hex(), err)
		return nil, Classify("send", err)
	}

	ref := &TxRef{Hash: tx.Hash(), Nonce: tx.Nonce(), To: req.Address}
	if c.logger != nil {
		c.logger.Infof("sent %s to %s: tx=%s nonce=%d", req.Operation, req.Address.Hex(), ref.Hash.Hex(), ref.Nonce)
	}
	return ref, nil
}

// CheckChainID 确认节点的链ID与配置一致
func (c *EthClient) CheckChainID(ctx context.Context, expected int64) error {
	id, err := c.backend.ChainID(ctx)
	if err != nil {
		return Classify("chain_id", err)
	}
	if !id.IsInt64() || id.Int64() != expected {
		return &Error{Kind: KindRejected, Op: "chain_id", Err: fmt.Errorf("node reports chain %s, configured %d", id, expected)}
	}
	return nil
}

// Signer 返回签名者，只读客户端返回 nil
func (c *EthClient) Signer() *Signer {
	return c.signer
}

// Close 释放底层连接
func (c *EthClient) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func (c *EthClient) wait(ctx context.Context, op string) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
	}
	return nil
}

func (c *EthClient) hasOutputs(req *CallRequest) bool {
	if req.Interface == nil {
		return true
	}
	m, ok := req.Interface.Methods[req.Operation]
	return !ok || len(m.Outputs) > 0
}

func (c *EthClient) debugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
