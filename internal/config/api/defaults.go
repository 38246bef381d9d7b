package api

import "time"

// HTTP 网关默认值
const (
	defaultHTTPEnabled     = true
	defaultHTTPHost        = "127.0.0.1"
	defaultHTTPPort        = 8280
	defaultHTTPReadTimeout = 10 * time.Second
	// defaultHTTPWriteTimeout 需覆盖一次链上读取加上行情抓取的最长耗时
	defaultHTTPWriteTimeout = 60 * time.Second

	defaultHTTPRateLimit = 20.0
	defaultHTTPBurst     = 40
)
