// Package invocation 定义一次远程调用的三态结果。
//
// 调用结果以值返回而不是以 error 抛出，调用方必须显式检查状态；
// 载荷只能在状态为 Ok 时通过 Value 或 Match 取得。
package invocation

import (
	"errors"
	"fmt"
)

// State 调用状态
type State int

const (
	// StateFatal 重试无法修复的失败（零值，未初始化的状态不会被误认为成功）
	StateFatal State = iota
	// StateTransient 重试可能修复的失败（超时、响应无法解析）
	StateTransient
	// StateOk 调用成功
	StateOk
)

func (s State) String() string {
	switch s {
	case StateOk:
		return "ok"
	case StateTransient:
		return "transient"
	case StateFatal:
		return "fatal"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status 调用状态及诊断信息
type Status struct {
	state   State
	message string
	cause   error
}

// Ok 成功状态
func Ok() Status { return Status{state: StateOk} }

// Transient 可重试失败，cause 可为 nil
func Transient(message string, cause error) Status {
	return Status{state: StateTransient, message: message, cause: cause}
}

// Fatal 不可重试失败
func Fatal(message string, cause error) Status {
	return Status{state: StateFatal, message: message, cause: cause}
}

// State 返回状态
func (s Status) State() State { return s.state }

// Message 诊断信息
func (s Status) Message() string { return s.message }

// Cause 原始错误
func (s Status) Cause() error { return s.cause }

// IsOk 是否成功
func (s Status) IsOk() bool { return s.state == StateOk }

// IsTransient 是否可重试
func (s Status) IsTransient() bool { return s.state == StateTransient }

// IsFatal 是否致命
func (s Status) IsFatal() bool { return s.state == StateFatal }

// Err 把非成功状态转为 error，成功时返回 nil
func (s Status) Err() error {
	if s.state == StateOk {
		return nil
	}
	return &StatusError{Status: s}
}

func (s Status) String() string {
	switch {
	case s.message == "" && s.cause == nil:
		return s.state.String()
	case s.cause == nil:
		return fmt.Sprintf("%s: %s", s.state, s.message)
	case s.message == "":
		return fmt.Sprintf("%s: %v", s.state, s.cause)
	default:
		return fmt.Sprintf("%s: %s: %v", s.state, s.message, s.cause)
	}
}

// StatusError 失败状态的 error 形式
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string { return e.Status.String() }

func (e *StatusError) Unwrap() error { return e.Status.cause }

// IsTransientErr 判断 err 是否来自 Transient 状态
func IsTransientErr(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status.IsTransient()
}
