package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes 响应体上限
const maxBodyBytes = 1 << 20

// JSONFeed GET 一个 JSON 对象，按键取值并解析
//
// Normalize 只在解析成功后应用。
type JSONFeed[T any] struct {
	Name      string
	URL       string
	Key       string
	Client    *http.Client
	Parse     func(raw json.RawMessage) (T, error)
	Normalize func(T) T
}

var _ Source[int] = (*JSONFeed[int])(nil)

// NewHTTPClient 行情抓取使用的 HTTP 客户端
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Fetch 单次抓取
func (f *JSONFeed[T]) Fetch(ctx context.Context) (T, error) {
	var zero T
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return zero, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return zero, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, &ParseError{Source: f.Name, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return zero, &ParseError{Source: f.Name, Err: err}
	}
	raw, ok := doc[f.Key]
	if !ok {
		return zero, &ParseError{Source: f.Name, Err: fmt.Errorf("key %q not in response", f.Key)}
	}
	v, err := f.Parse(raw)
	if err != nil {
		return zero, &ParseError{Source: f.Name, Err: fmt.Errorf("key %q: %w", f.Key, err)}
	}
	if f.Normalize != nil {
		v = f.Normalize(v)
	}
	return v, nil
}
