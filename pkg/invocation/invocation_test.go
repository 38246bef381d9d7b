package invocation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestZeroStatusIsFatal 测试零值状态不会被当作成功
func TestZeroStatusIsFatal(t *testing.T) {
	var s Status
	assert.True(t, s.IsFatal())
	assert.False(t, s.IsOk())

	var r Result[int]
	v, ok := r.Value()
	assert.False(t, ok)
	assert.Zero(t, v)
}

// TestResultShapes 测试三种结果形态
func TestResultShapes(t *testing.T) {
	found := Found(42)
	v, ok := found.Value()
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.False(t, found.IsAbsent())

	absent := Absent[int]()
	_, ok = absent.Value()
	assert.False(t, ok)
	assert.True(t, absent.IsAbsent())
	assert.True(t, absent.Status().IsOk())

	cause := errors.New("connection refused")
	failed := Fail[int](Transient("call failed", cause))
	_, ok = failed.Value()
	assert.False(t, ok)
	assert.False(t, failed.IsAbsent())
	assert.True(t, failed.Status().IsTransient())
	assert.ErrorIs(t, failed.Status().Err(), cause)
	assert.True(t, IsTransientErr(failed.Status().Err()))
	assert.Nil(t, found.Status().Err())
}

// TestFailRejectsOk 测试 Fail 不接受成功状态
func TestFailRejectsOk(t *testing.T) {
	assert.Panics(t, func() { Fail[int](Ok()) })
}

// TestMatchExhaustive 测试 Match 恰好调用一个分支
func TestMatchExhaustive(t *testing.T) {
	results := []Result[string]{
		Found("x"),
		Absent[string](),
		Fail[string](Transient("timeout", nil)),
		Fail[string](Fatal("unsupported operation", errors.New("no method"))),
	}
	var got []string
	for _, r := range results {
		r.Match(
			func(v string, present bool) {
				if present {
					got = append(got, "ok:"+v)
				} else {
					got = append(got, "absent")
				}
			},
			func(s Status) { got = append(got, "transient:"+s.Message()) },
			func(s Status) { got = append(got, "fatal:"+s.Message()) },
		)
	}
	assert.Equal(t, []string{"ok:x", "absent", "transient:timeout", "fatal:unsupported operation"}, got)
}

// TestFoldAndMap 测试 Fold 与 Map
func TestFoldAndMap(t *testing.T) {
	describe := func(r Result[int]) string {
		return Fold(r,
			func(v int, present bool) string {
				if !present {
					return "none"
				}
				return "some"
			},
			func(s Status) string { return s.State().String() },
		)
	}
	assert.Equal(t, "some", describe(Found(1)))
	assert.Equal(t, "none", describe(Absent[int]()))
	assert.Equal(t, "fatal", describe(Fail[int](Fatal("x", nil))))

	doubled := Map(Found(21), func(v int) int { return v * 2 })
	v, ok := doubled.Value()
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.True(t, Map(Absent[int](), func(v int) int { return v }).IsAbsent())
	assert.True(t, Map(Fail[int](Transient("t", nil)), func(v int) int { return v }).Status().IsTransient())
}

// TestStatusString 测试状态文本
func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", Ok().String())
	assert.Equal(t, "transient: timeout", Transient("timeout", nil).String())
	assert.Equal(t, "fatal: rejected: boom", Fatal("rejected", errors.New("boom")).String())
}
