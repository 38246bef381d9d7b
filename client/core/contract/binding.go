package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/fetchoracle/telliot-core-alt/client/core/transport"
	"github.com/fetchoracle/telliot-core-alt/pkg/invocation"
	logInterface "github.com/fetchoracle/telliot-core-alt/pkg/interfaces/infrastructure/log"
	"github.com/fetchoracle/telliot-core-alt/pkg/valuetype"
)

// ErrArity 返回字段数与操作表不一致
var ErrArity = errors.New("return arity mismatch")

// Recorder 调用结果计数
type Recorder interface {
	ObserveInvocation(contract, operation, status string, elapsed time.Duration)
}

// ReadOp 只读操作表项
//
// Decode 的第二个返回值为 false 表示业务层面不存在，不是错误。
type ReadOp[T any] struct {
	Name   string
	Fields int
	Decode func(raw []any) (T, bool, error)
}

// WriteOp 状态变更操作表项
type WriteOp struct {
	Name string
}

// Binding 合约绑定，构造后不可变，可并发使用
type Binding struct {
	handle    *Handle
	transport transport.Transport
	logger    logInterface.Logger
	recorder  Recorder
}

// BindingOption 绑定选项
type BindingOption func(*Binding)

// WithLogger 设置日志记录器
func WithLogger(l logInterface.Logger) BindingOption {
	return func(b *Binding) { b.logger = l }
}

// WithRecorder 设置指标记录
func WithRecorder(r Recorder) BindingOption {
	return func(b *Binding) { b.recorder = r }
}

// NewBinding 创建合约绑定
func NewBinding(handle *Handle, t transport.Transport, opts ...BindingOption) *Binding {
	b := &Binding{handle: handle, transport: t}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Handle 返回合约句柄
func (b *Binding) Handle() *Handle { return b.handle }

// Read 执行只读操作
func Read[T any](ctx context.Context, b *Binding, op ReadOp[T], args ...any) (result invocation.Result[T]) {
	start := time.Now()
	defer func() { b.observe(op.Name, result.Status(), time.Since(start)) }()

	method, calldata, status := b.pack(op.Name, args)
	if !status.IsOk() {
		return invocation.Fail[T](status)
	}

	out, err := b.transport.Call(ctx, b.request(op.Name, calldata))
	if err != nil {
		return invocation.Fail[T](statusOf(op.Name, err))
	}

	values, err := method.Outputs.Unpack(out)
	if err != nil {
		if head := headSize(method.Outputs); len(out) > 0 && len(out)%32 == 0 && len(out) < head {
			return invocation.Fail[T](invocation.Fatal(
				fmt.Sprintf("%s: response has %d words, interface needs %d", op.Name, len(out)/32, head/32),
				fmt.Errorf("%w: %v", ErrArity, err)))
		}
		return invocation.Fail[T](invocation.Transient(op.Name+": malformed response", &transport.Error{Kind: transport.KindMalformed, Op: "unpack", Err: err}))
	}
	if len(values) != op.Fields {
		return invocation.Fail[T](invocation.Fatal(
			fmt.Sprintf("%s: interface returned %d fields, expected %d", op.Name, len(values), op.Fields), ErrArity))
	}
	for i, arg := range method.Outputs {
		values[i] = valuetype.FromABIValue(arg.Type, values[i])
	}

	value, present, err := op.Decode(values)
	if err != nil {
		return invocation.Fail[T](invocation.Fatal(op.Name+": decode failed", err))
	}
	if !present {
		return invocation.Absent[T]()
	}
	return invocation.Found(value)
}

// Write 签名并发送状态变更操作
//
// 不透明的上报值须先经 valuetype 编码再作为 []byte 参数传入。
func Write(ctx context.Context, b *Binding, op WriteOp, args ...any) (result invocation.Result[transport.TxRef]) {
	start := time.Now()
	defer func() { b.observe(op.Name, result.Status(), time.Since(start)) }()

	_, calldata, status := b.pack(op.Name, args)
	if !status.IsOk() {
		return invocation.Fail[transport.TxRef](status)
	}

	ref, err := b.transport.Send(ctx, b.request(op.Name, calldata))
	if err != nil {
		return invocation.Fail[transport.TxRef](statusOf(op.Name, err))
	}
	return invocation.Found(*ref)
}

// headSize 返回值头部字节数：定长值原地展开，变长值占一个偏移字
func headSize(args abi.Arguments) int {
	size := 0
	for _, arg := range args {
		size += typeHeadSize(arg.Type)
	}
	return size
}

func typeHeadSize(t abi.Type) int {
	if isDynamic(t) {
		return 32
	}
	switch t.T {
	case abi.ArrayTy:
		return t.Size * typeHeadSize(*t.Elem)
	case abi.TupleTy:
		size := 0
		for _, e := range t.TupleElems {
			size += typeHeadSize(*e)
		}
		return size
	}
	return 32
}

func isDynamic(t abi.Type) bool {
	switch t.T {
	case abi.StringTy, abi.BytesTy, abi.SliceTy:
		return true
	case abi.ArrayTy:
		return isDynamic(*t.Elem)
	case abi.TupleTy:
		for _, e := range t.TupleElems {
			if isDynamic(*e) {
				return true
			}
		}
	}
	return false
}

func (b *Binding) pack(name string, args []any) (abi.Method, []byte, invocation.Status) {
	method, ok := b.handle.abi.Methods[name]
	if !ok {
		return abi.Method{}, nil, invocation.Fatal(
			fmt.Sprintf("operation %s not in interface of %s", name, b.handle.name),
			&transport.Error{Kind: transport.KindUnsupported, Op: "pack", Err: fmt.Errorf("unknown method %q", name)})
	}
	calldata, err := b.handle.abi.Pack(name, args...)
	if err != nil {
		return abi.Method{}, nil, invocation.Fatal(name+": invalid arguments", err)
	}
	return method, calldata, invocation.Ok()
}

func (b *Binding) request(name string, calldata []byte) *transport.CallRequest {
	return &transport.CallRequest{
		ChainID:   b.handle.chainID,
		Address:   b.handle.address,
		Interface: b.handle.abi,
		Operation: name,
		Calldata:  calldata,
	}
}

// statusOf 传输失败映射：网络与响应格式问题可重试，其余不可重试
func statusOf(op string, err error) invocation.Status {
	kind := transport.KindOf(err)
	msg := fmt.Sprintf("%s: %s failure", op, kind)
	if kind.Retryable() {
		return invocation.Transient(msg, err)
	}
	return invocation.Fatal(msg, err)
}

func (b *Binding) observe(op string, status invocation.Status, elapsed time.Duration) {
	if b.recorder != nil {
		b.recorder.ObserveInvocation(b.handle.name, op, status.State().String(), elapsed)
	}
	if b.logger == nil {
		return
	}
	if status.IsOk() {
		b.logger.Debugf("%s.%s ok in %s", b.handle.name, op, elapsed)
		return
	}
	b.logger.Warnf("%s.%s %s: %s", b.handle.name, op, status.State(), status)
}
