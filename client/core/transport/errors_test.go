package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
)

type rpcCodeErr struct{ code int }

func (e rpcCodeErr) Error() string  { return fmt.Sprintf("rpc error %d", e.code) }
func (e rpcCodeErr) ErrorCode() int { return e.code }

var _ rpc.Error = rpcCodeErr{}

func TestClassify(t *testing.T) {
	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, json.Unmarshal([]byte("{oops"), &struct{}{}), &syntaxErr)

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), KindNetwork},
		{"canceled", context.Canceled, KindNetwork},
		{"eof", io.ErrUnexpectedEOF, KindNetwork},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, KindNetwork},
		{"http 503", rpc.HTTPError{StatusCode: 503, Status: "503 Service Unavailable"}, KindNetwork},
		{"http 429", rpc.HTTPError{StatusCode: 429, Status: "429 Too Many Requests"}, KindNetwork},
		{"http 401", rpc.HTTPError{StatusCode: 401, Status: "401 Unauthorized"}, KindAuth},
		{"http 403", rpc.HTTPError{StatusCode: 403, Status: "403 Forbidden"}, KindAuth},
		{"http 400", rpc.HTTPError{StatusCode: 400, Status: "400 Bad Request"}, KindRejected},
		{"parse error", rpcCodeErr{-32700}, KindMalformed},
		{"method not found", rpcCodeErr{-32601}, KindUnsupported},
		{"limit exceeded", rpcCodeErr{-32005}, KindNetwork},
		{"revert", rpcCodeErr{3}, KindRejected},
		{"json syntax", syntaxErr, KindMalformed},
		{"no signer", ErrNoSigner, KindAuth},
		{"message only", errors.New("read tcp: connection reset by peer"), KindNetwork},
		{"unknown", errors.New("something else"), KindRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Classify("call", tc.err)
			var te *Error
			if assert.ErrorAs(t, err, &te) {
				assert.Equal(t, tc.want, te.Kind, "got %s", te.Kind)
				assert.Equal(t, "call", te.Op)
				assert.Equal(t, tc.err, te.Err)
			}
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestClassifyKeepsExistingKind(t *testing.T) {
	orig := &Error{Kind: KindAuth, Op: "send", Err: ErrNoSigner}
	wrapped := fmt.Errorf("stake: %w", orig)
	assert.Equal(t, wrapped, Classify("call", wrapped))
	assert.Equal(t, KindAuth, KindOf(wrapped))
	assert.Nil(t, Classify("call", nil))
}

func TestKindRetryable(t *testing.T) {
	assert.True(t, KindNetwork.Retryable())
	assert.True(t, KindMalformed.Retryable())
	assert.False(t, KindAuth.Retryable())
	assert.False(t, KindUnsupported.Retryable())
	assert.False(t, KindRejected.Retryable())
	assert.Equal(t, "network", KindNetwork.String())
}
