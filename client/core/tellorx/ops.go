package tellorx

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/fetchoracle/telliot-core-alt/client/core/contract"
)

// 操作表：每项给出方法名、返回字段数与解码函数

var stakerInfoOp = contract.ReadOp[StakerInfo]{
	Name:   "getStakerInfo",
	Fields: 2,
	Decode: func(raw []any) (StakerInfo, bool, error) {
		code, err := asBig(raw[0], "status")
		if err != nil {
			return StakerInfo{}, false, err
		}
		status, err := ParseStakerStatus(code)
		if err != nil {
			return StakerInfo{}, false, err
		}
		stakedAt, err := asTime(raw[1], "staked_at")
		if err != nil {
			return StakerInfo{}, false, err
		}
		return StakerInfo{Status: status, StakedAt: stakedAt}, true, nil
	},
}

// 不存在的争议返回全零记录
var disputeOp = contract.ReadOp[DisputeReport]{
	Name:   "disputesById",
	Fields: 8,
	Decode: func(raw []any) (DisputeReport, bool, error) {
		var (
			r    DisputeReport
			err  error
			hash [32]byte
		)
		if hash, err = asBytes32(raw[0], "hash"); err != nil {
			return r, false, err
		}
		if r.Tally, err = asBig(raw[1], "tally"); err != nil {
			return r, false, err
		}
		if r.Executed, err = asBool(raw[2], "executed"); err != nil {
			return r, false, err
		}
		if r.DisputeVotePassed, err = asBool(raw[3], "dispute_vote_passed"); err != nil {
			return r, false, err
		}
		if r.IsPropFork, err = asBool(raw[4], "is_prop_fork"); err != nil {
			return r, false, err
		}
		if r.ReportedMiner, err = asAddress(raw[5], "reported_miner"); err != nil {
			return r, false, err
		}
		if r.ReportingParty, err = asAddress(raw[6], "reporting_party"); err != nil {
			return r, false, err
		}
		if r.ProposedForkAddress, err = asAddress(raw[7], "proposed_fork_address"); err != nil {
			return r, false, err
		}
		if hash == ([32]byte{}) {
			return DisputeReport{}, false, nil
		}
		r.Hash = hexutil.Encode(hash[:])
		return r, true, nil
	},
}

func uintOp(name string) contract.ReadOp[*big.Int] {
	return contract.ReadOp[*big.Int]{
		Name:   name,
		Fields: 1,
		Decode: func(raw []any) (*big.Int, bool, error) {
			v, err := asBig(raw[0], name)
			return v, err == nil, err
		},
	}
}

// timestampOp 零时间戳视为不存在
func timestampOp(name string) contract.ReadOp[time.Time] {
	return contract.ReadOp[time.Time]{
		Name:   name,
		Fields: 1,
		Decode: func(raw []any) (time.Time, bool, error) {
			t, err := asTime(raw[0], name)
			if err != nil {
				return time.Time{}, false, err
			}
			return t, !t.IsZero(), nil
		},
	}
}

var currentRewardOp = contract.ReadOp[CurrentReward]{
	Name:   "getCurrentReward",
	Fields: 2,
	Decode: func(raw []any) (CurrentReward, bool, error) {
		tips, err := asBig(raw[0], "tips")
		if err != nil {
			return CurrentReward{}, false, err
		}
		reward, err := asBig(raw[1], "reward")
		if err != nil {
			return CurrentReward{}, false, err
		}
		return CurrentReward{Tips: tips, Reward: reward}, true, nil
	},
}

// 空字节表示该查询尚无上报值
var currentValueOp = contract.ReadOp[[]byte]{
	Name:   "getCurrentValue",
	Fields: 1,
	Decode: func(raw []any) ([]byte, bool, error) {
		v, err := asBytes(raw[0], "value")
		if err != nil {
			return nil, false, err
		}
		return v, len(v) > 0, nil
	},
}

var (
	depositStakeOp           = contract.WriteOp{Name: "depositStake"}
	requestStakingWithdrawOp = contract.WriteOp{Name: "requestStakingWithdraw"}
	withdrawStakeOp          = contract.WriteOp{Name: "withdrawStake"}
	submitValueOp            = contract.WriteOp{Name: "submitValue"}
	tipQueryOp               = contract.WriteOp{Name: "tipQuery"}
)
