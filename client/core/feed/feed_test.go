package feed

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchoracle/telliot-core-alt/internal/core/infrastructure/log"
)

// counted 记录 Fetch 被调用的次数
func counted[T any](src Source[T], n *int32) Source[T] {
	return SourceFunc[T](func(ctx context.Context) (T, error) {
		atomic.AddInt32(n, 1)
		return src.Fetch(ctx)
	})
}

func gasServer(t *testing.T, bodies ...string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := int(atomic.AddInt32(&hits, 1)) - 1
		if i >= len(bodies) {
			i = len(bodies) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(bodies[i]))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testFeed(url string, client *http.Client) *GasPriceFeed {
	return &GasPriceFeed{URL: url, Client: client, MaxAttempts: 2, Logger: log.NewNop()}
}

func TestGasPrice(t *testing.T) {
	srv, hits := gasServer(t, `{"fast": 420.0, "fastest": 500, "safeLow": 199, "average": 300}`)
	f := testFeed(srv.URL, srv.Client())

	price, ok := f.Price(context.Background(), GasFast)
	require.True(t, ok)
	assert.Equal(t, uint64(42), price)

	price, ok = f.Price(context.Background(), GasSafeLow)
	require.True(t, ok)
	assert.Equal(t, uint64(19), price)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestParseFailuresUseAllAttempts(t *testing.T) {
	srv, hits := gasServer(t, `<html>busy</html>`)
	f := testFeed(srv.URL, srv.Client())

	var calls int32
	_, ok := Fetch(context.Background(), counted[uint64](f.Source(GasFast), &calls), 2)
	assert.False(t, ok)
	assert.Equal(t, int32(2), calls)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestParseFailureThenSuccess(t *testing.T) {
	srv, _ := gasServer(t, `garbage`, `{"fast": 100}`)
	f := testFeed(srv.URL, srv.Client())

	var calls int32
	price, ok := Fetch(context.Background(), counted[uint64](f.Source(GasFast), &calls), 2)
	require.True(t, ok)
	assert.Equal(t, uint64(10), price)
	assert.Equal(t, int32(2), calls)
}

func TestTLSFailureGivesUpImmediately(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"fast": 100}`))
	}))
	defer srv.Close()

	// 默认客户端不信任测试证书
	f := testFeed(srv.URL, NewHTTPClient(0))
	var calls int32
	_, ok := Fetch(context.Background(), counted[uint64](f.Source(GasFast), &calls), 2)
	assert.False(t, ok)
	assert.Equal(t, int32(1), calls)
}

func TestTLSErrorWrappedAsParseErrorIsNotRetried(t *testing.T) {
	var calls int32
	src := SourceFunc[int](func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, &ParseError{Source: "x", Err: tls.AlertError(42)}
	})
	_, ok := Fetch[int](context.Background(), src, 3)
	assert.False(t, ok)
	assert.Equal(t, int32(1), calls)
}

func TestOtherFailureGivesUpImmediately(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := testFeed(url, NewHTTPClient(0))
	var calls int32
	_, ok := Fetch(context.Background(), counted[uint64](f.Source(GasFast), &calls), 5)
	assert.False(t, ok)
	assert.Equal(t, int32(1), calls)
}

func TestNon2xxIsRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, ok := testFeed(srv.URL, srv.Client()).Price(context.Background(), GasAverage)
	assert.False(t, ok)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestMissingKeyIsParseError(t *testing.T) {
	srv, _ := gasServer(t, `{"average": 1}`)
	_, err := testFeed(srv.URL, srv.Client()).Source(GasFastest).Fetch(context.Background())
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "gas_price", perr.Source)
}

func TestNegativePriceIsParseError(t *testing.T) {
	srv, _ := gasServer(t, `{"fast": -5}`)
	_, err := testFeed(srv.URL, srv.Client()).Source(GasFast).Fetch(context.Background())
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestFetchRecordsAttempts(t *testing.T) {
	rec := &fakeRecorder{}
	src := SourceFunc[int](func(context.Context) (int, error) {
		return 0, &ParseError{Source: "x", Err: errors.New("bad")}
	})
	_, ok := Fetch[int](context.Background(), src, 3, WithRecorder("x", rec))
	assert.False(t, ok)
	assert.Equal(t, 3, rec.attempts)
	assert.False(t, rec.ok)
	assert.Equal(t, "x", rec.feed)
}

func TestFetchNonPositiveAttempts(t *testing.T) {
	var calls int32
	src := SourceFunc[int](func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 1, nil
	})
	_, ok := Fetch[int](context.Background(), src, 0)
	assert.False(t, ok)
	assert.Zero(t, calls)
}

func TestParseGasStyle(t *testing.T) {
	for _, s := range []string{"fast", "fastest", "safeLow", "average"} {
		style, err := ParseGasStyle(s)
		require.NoError(t, err)
		assert.Equal(t, GasStyle(s), style)
	}
	_, err := ParseGasStyle("slow")
	assert.Error(t, err)
}

type fakeRecorder struct {
	feed     string
	attempts int
	ok       bool
}

func (r *fakeRecorder) ObserveFetch(feed string, attempts int, ok bool) {
	r.feed, r.attempts, r.ok = feed, attempts, ok
}
