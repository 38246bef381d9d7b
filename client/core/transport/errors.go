package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/rpc"
)

// Kind 传输失败分类
type Kind int

const (
	// KindRejected 节点拒绝执行（revert、其他 JSON-RPC 错误、无法归类的错误）
	KindRejected Kind = iota
	// KindNetwork 网络或超时
	KindNetwork
	// KindMalformed 响应无法解析
	KindMalformed
	// KindAuth 认证或权限失败，包括缺少签名密钥
	KindAuth
	// KindUnsupported 节点或合约不支持该操作
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed"
	case KindAuth:
		return "auth"
	case KindUnsupported:
		return "unsupported"
	default:
		return "rejected"
	}
}

// Retryable 重试是否可能成功
func (k Kind) Retryable() bool {
	return k == KindNetwork || k == KindMalformed
}

// JSON-RPC 错误码
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeLimitExceeded  = -32005
)

var (
	// ErrNoSigner 未配置签名密钥时发送交易
	ErrNoSigner = errors.New("no signing key configured")
	// ErrEmptyResponse 调用返回空数据
	ErrEmptyResponse = errors.New("empty call response")
)

// Error 已分类的传输错误
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf 取出错误分类，未分类的错误按 Classify 规则判断
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return classify(err)
}

// Classify 包装为 *Error，已分类的错误原样返回
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return err
	}
	return &Error{Kind: classify(err), Op: op, Err: err}
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindNetwork
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return KindNetwork
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE):
		return KindNetwork
	case errors.Is(err, ErrNoSigner):
		return KindAuth
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusUnauthorized, httpErr.StatusCode == http.StatusForbidden:
			return KindAuth
		case httpErr.StatusCode == http.StatusTooManyRequests, httpErr.StatusCode >= 500:
			return KindNetwork
		case httpErr.StatusCode == http.StatusNotFound, httpErr.StatusCode == http.StatusMethodNotAllowed:
			return KindUnsupported
		default:
			return KindRejected
		}
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeParseError:
			return KindMalformed
		case codeMethodNotFound:
			return KindUnsupported
		case codeLimitExceeded:
			return KindNetwork
		default:
			return KindRejected
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return KindMalformed
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection reset", "connection refused", "broken pipe", "no such host", "i/o timeout"} {
		if strings.Contains(msg, s) {
			return KindNetwork
		}
	}
	return KindRejected
}
