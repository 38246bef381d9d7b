// Package tellorx 提供 TellorX master 与 oracle 合约的类型化绑定
package tellorx

import (
	"fmt"
	"math/big"
)

// StakerStatus 质押者状态，链上编码 0..5
type StakerStatus int

const (
	NotStaked StakerStatus = iota
	Staked
	LockedForWithdraw
	InDispute
	Disbursed
	Slashed
)

// stakerStatusNames 对外输出的名称，末两项为小写
var stakerStatusNames = [...]string{
	NotStaked:         "NotStaked",
	Staked:            "Staked",
	LockedForWithdraw: "LockedForWithdraw",
	InDispute:         "InDispute",
	Disbursed:         "disbursed",
	Slashed:           "slashed",
}

// UnknownStatusError 链上返回了未定义的状态码
type UnknownStatusError struct {
	Code string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown staker status code %s", e.Code)
}

// ParseStakerStatus 链上状态码转枚举，未定义的状态码返回 *UnknownStatusError
func ParseStakerStatus(code *big.Int) (StakerStatus, error) {
	if code == nil || !code.IsInt64() {
		return 0, &UnknownStatusError{Code: fmt.Sprint(code)}
	}
	switch s := StakerStatus(code.Int64()); s {
	case NotStaked, Staked, LockedForWithdraw, InDispute, Disbursed, Slashed:
		return s, nil
	default:
		return 0, &UnknownStatusError{Code: code.String()}
	}
}

func (s StakerStatus) String() string {
	if s < 0 || int(s) >= len(stakerStatusNames) {
		return fmt.Sprintf("StakerStatus(%d)", int(s))
	}
	return stakerStatusNames[s]
}

// MarshalText 以名称序列化
func (s StakerStatus) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stakerStatusNames) {
		return nil, fmt.Errorf("invalid staker status %d", int(s))
	}
	return []byte(s.String()), nil
}
