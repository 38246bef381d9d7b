// Package feed 抓取外部 HTTP 行情，按失败类型决定是否重试
package feed

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"

	logInterface "github.com/fetchoracle/telliot-core-alt/pkg/interfaces/infrastructure/log"
)

// Source 单次抓取
type Source[T any] interface {
	Fetch(ctx context.Context) (T, error)
}

// SourceFunc 函数适配为 Source
type SourceFunc[T any] func(ctx context.Context) (T, error)

// Fetch 调用函数本身
func (f SourceFunc[T]) Fetch(ctx context.Context) (T, error) { return f(ctx) }

// ParseError 响应无法解析，可重试
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Recorder 抓取结果计数
type Recorder interface {
	ObserveFetch(feed string, attempts int, ok bool)
}

type fetchOptions struct {
	name     string
	backoff  time.Duration
	logger   logInterface.Logger
	recorder Recorder
}

// Option Fetch 选项
type Option func(*fetchOptions)

// WithBackoff 两次尝试之间的等待，默认不等待
func WithBackoff(d time.Duration) Option {
	return func(o *fetchOptions) { o.backoff = d }
}

// WithLogger 设置日志记录器
func WithLogger(l logInterface.Logger) Option {
	return func(o *fetchOptions) { o.logger = l }
}

// WithRecorder 设置指标记录，name 作为 feed 标签
func WithRecorder(name string, r Recorder) Option {
	return func(o *fetchOptions) {
		o.name = name
		o.recorder = r
	}
}

// Fetch 最多尝试 maxAttempts 次
//
// 解析失败消耗一次尝试后重试；TLS 证书失败与其他失败立即放弃。
// 返回 false 表示当前不可用，调用方不区分具体原因。
func Fetch[T any](ctx context.Context, src Source[T], maxAttempts int, opts ...Option) (T, bool) {
	o := fetchOptions{name: "feed"}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	if maxAttempts < 1 {
		return zero, false
	}

	attempts := 0
	value, err := retry.DoWithData(
		func() (T, error) {
			attempts++
			v, err := src.Fetch(ctx)
			if err == nil {
				return v, nil
			}
			var perr *ParseError
			if errors.As(err, &perr) && !isTLSError(err) {
				return zero, err
			}
			return zero, retry.Unrecoverable(err)
		},
		retry.Context(ctx),
		retry.Attempts(uint(maxAttempts)),
		retry.Delay(o.backoff),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if o.logger != nil {
				o.logger.Infof("%s: attempt %d failed, retrying: %v", o.name, n+1, err)
			}
		}),
	)

	ok := err == nil
	if o.recorder != nil {
		o.recorder.ObserveFetch(o.name, attempts, ok)
	}
	if !ok {
		if o.logger != nil {
			o.logger.Infof("%s: unavailable after %d attempt(s): %v", o.name, attempts, err)
		}
		return zero, false
	}
	return value, true
}

// isTLSError 证书信任或 TLS 握手失败
func isTLSError(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		unknownAuth  x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidCert  x509.CertificateInvalidError
		systemRoots  x509.SystemRootsError
		constraintEr x509.ConstraintViolationError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &unknownAuth) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidCert) ||
		errors.As(err, &systemRoots) ||
		errors.As(err, &constraintEr)
}
