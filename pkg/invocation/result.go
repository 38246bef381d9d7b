package invocation

// Result 状态与可选载荷的标签联合
//
// 三种形态：Ok+值、Ok+缺失（业务层面不存在，不是错误）、失败（无载荷）。
type Result[T any] struct {
	status  Status
	value   T
	present bool
}

// Found 成功且带载荷
func Found[T any](value T) Result[T] {
	return Result[T]{status: Ok(), value: value, present: true}
}

// Absent 成功但记录不存在
func Absent[T any]() Result[T] {
	return Result[T]{status: Ok()}
}

// Fail 失败结果，status 不能为 Ok
func Fail[T any](status Status) Result[T] {
	if status.IsOk() {
		panic("invocation: Fail called with ok status")
	}
	return Result[T]{status: status}
}

// Status 返回状态
func (r Result[T]) Status() Status { return r.status }

// Value 仅在状态为 Ok 且载荷存在时返回 (value, true)
func (r Result[T]) Value() (T, bool) {
	if !r.status.IsOk() || !r.present {
		var zero T
		return zero, false
	}
	return r.value, true
}

// IsAbsent 成功但不存在
func (r Result[T]) IsAbsent() bool {
	return r.status.IsOk() && !r.present
}

// Match 按状态分派，恰好调用一个回调
//
// onOk 的第二个参数表示载荷是否存在。
func (r Result[T]) Match(onOk func(T, bool), onTransient, onFatal func(Status)) {
	switch r.status.State() {
	case StateOk:
		onOk(r.Value())
	case StateTransient:
		onTransient(r.status)
	default:
		onFatal(r.status)
	}
}

// Fold 把结果折叠为单一值
func Fold[T, R any](r Result[T], onOk func(T, bool) R, onFail func(Status) R) R {
	if r.status.IsOk() {
		return onOk(r.Value())
	}
	return onFail(r.status)
}

// Map 在成功且有载荷时转换载荷，其余状态原样传递
func Map[T, R any](r Result[T], fn func(T) R) Result[R] {
	switch {
	case !r.status.IsOk():
		return Result[R]{status: r.status}
	case !r.present:
		return Absent[R]()
	default:
		return Found(fn(r.value))
	}
}
