// Package timeutil provides time utility functions.
package timeutil

import (
	"fmt"
	"math"
	"math/big"
	"time"
)

var nowProvider func() time.Time = time.Now

// SetNow 替换时间来源（测试用），nil 恢复系统时钟
func SetNow(fn func() time.Time) {
	if fn == nil {
		fn = time.Now
	}
	nowProvider = fn
}

// Now 返回当前时间
func Now() time.Time { return nowProvider() }

// DurationOr 解析可选的时长字符串，nil 或空串返回默认值
func DurationOr(s *string, def time.Duration) (time.Duration, error) {
	if s == nil || *s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", *s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", *s)
	}
	return d, nil
}

// FromUnixBig 链上秒级时间戳转 time.Time（UTC），0 返回零值时间
func FromUnixBig(ts *big.Int) (time.Time, error) {
	if ts == nil || ts.Sign() == 0 {
		return time.Time{}, nil
	}
	if ts.Sign() < 0 || !ts.IsInt64() || ts.Int64() > math.MaxInt64/int64(time.Second) {
		return time.Time{}, fmt.Errorf("timestamp %s out of range", ts.String())
	}
	return time.Unix(ts.Int64(), 0).UTC(), nil
}
