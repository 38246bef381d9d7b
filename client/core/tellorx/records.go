package tellorx

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/fetchoracle/telliot-core-alt/pkg/utils/timeutil"
)

// StakerInfo getStakerInfo 的结果
type StakerInfo struct {
	Status   StakerStatus `json:"status"`
	StakedAt time.Time    `json:"staked_at"` // 未质押时为零值
}

// DisputeReport disputesById 的结果，字段顺序与链上返回一致
type DisputeReport struct {
	Hash                string         `json:"hash"` // 0x 前缀十六进制
	Tally               *big.Int       `json:"tally"`
	Executed            bool           `json:"executed"`
	DisputeVotePassed   bool           `json:"dispute_vote_passed"`
	IsPropFork          bool           `json:"is_prop_fork"`
	ReportedMiner       common.Address `json:"reported_miner"`
	ReportingParty      common.Address `json:"reporting_party"`
	ProposedForkAddress common.Address `json:"proposed_fork_address"`
}

// CurrentValue getCurrentValue 的结果，Value 为编码后的上报值
type CurrentValue struct {
	QueryID common.Hash   `json:"query_id"`
	Value   hexutil.Bytes `json:"value"`
}

// CurrentReward getCurrentReward 的结果
type CurrentReward struct {
	Tips   *big.Int `json:"tips"`
	Reward *big.Int `json:"reward"`
}

// UintVarKey getUintVar 的键：变量名的 keccak256
func UintVarKey(name string) common.Hash {
	return crypto.Keccak256Hash([]byte(name))
}

// ParseQueryID 解析 32 字节十六进制查询ID
func ParseQueryID(s string) (common.Hash, error) {
	raw, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("query id %q: %w", s, err)
	}
	if len(raw) != common.HashLength {
		return common.Hash{}, fmt.Errorf("query id %q: want %d bytes, got %d", s, common.HashLength, len(raw))
	}
	return common.BytesToHash(raw), nil
}

// ParseDisputeID 解析十进制争议ID，须落在 uint256 范围内
func ParseDisputeID(s string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Sign() < 0 || id.BitLen() > 256 {
		return nil, fmt.Errorf("dispute id must be an integer in [0, 2^256), got %q", s)
	}
	return id, nil
}

var errFieldType = errors.New("unexpected field type")

func asBig(raw any, field string) (*big.Int, error) {
	v, ok := raw.(*big.Int)
	if !ok || v == nil {
		return nil, fmt.Errorf("%s: %w %T", field, errFieldType, raw)
	}
	return v, nil
}

func asBool(raw any, field string) (bool, error) {
	v, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%s: %w %T", field, errFieldType, raw)
	}
	return v, nil
}

func asAddress(raw any, field string) (common.Address, error) {
	v, ok := raw.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s: %w %T", field, errFieldType, raw)
	}
	return v, nil
}

func asBytes32(raw any, field string) ([32]byte, error) {
	v, ok := raw.([32]byte)
	if !ok {
		return [32]byte{}, fmt.Errorf("%s: %w %T", field, errFieldType, raw)
	}
	return v, nil
}

func asBytes(raw any, field string) ([]byte, error) {
	v, ok := raw.([]byte)
	if !ok {
		return nil, fmt.Errorf("%s: %w %T", field, errFieldType, raw)
	}
	return v, nil
}

func asTime(raw any, field string) (time.Time, error) {
	v, err := asBig(raw, field)
	if err != nil {
		return time.Time{}, err
	}
	t, err := timeutil.FromUnixBig(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}
