package tellorx

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fetchoracle/telliot-core-alt/client/core/contract"
	"github.com/fetchoracle/telliot-core-alt/client/core/directory"
	"github.com/fetchoracle/telliot-core-alt/client/core/transport"
	"github.com/fetchoracle/telliot-core-alt/pkg/invocation"
	"github.com/fetchoracle/telliot-core-alt/pkg/valuetype"
)

// Oracle TellorX oracle 合约：上报值、奖励、打赏
type Oracle struct {
	binding *contract.Binding
}

// NewOracle 从目录解析 oracle 合约
func NewOracle(dir directory.Lookuper, t transport.Transport, chainID int64, opts ...contract.BindingOption) (*Oracle, error) {
	h, err := contract.Resolve(dir, chainID, directory.Oracle)
	if err != nil {
		return nil, err
	}
	return &Oracle{binding: contract.NewBinding(h, t, opts...)}, nil
}

// Address 合约地址
func (o *Oracle) Address() common.Address { return o.binding.Handle().Address() }

// GetCurrentValue 查询的最新上报值，尚无上报时返回 Ok 且无载荷
func (o *Oracle) GetCurrentValue(ctx context.Context, queryID common.Hash) invocation.Result[CurrentValue] {
	res := contract.Read(ctx, o.binding, currentValueOp, [32]byte(queryID))
	return invocation.Map(res, func(v []byte) CurrentValue {
		return CurrentValue{QueryID: queryID, Value: v}
	})
}

// GetTimestampCountByID 查询已有的上报次数
func (o *Oracle) GetTimestampCountByID(ctx context.Context, queryID common.Hash) invocation.Result[*big.Int] {
	return contract.Read(ctx, o.binding, uintOp("getTimestampCountById"), [32]byte(queryID))
}

// GetReporterLastTimestamp 上报者最近一次上报时间，从未上报时返回 Ok 且无载荷
func (o *Oracle) GetReporterLastTimestamp(ctx context.Context, reporter common.Address) invocation.Result[time.Time] {
	return contract.Read(ctx, o.binding, timestampOp("getReporterLastTimestamp"), reporter)
}

// GetTimeBasedReward 基于时间的上报奖励
func (o *Oracle) GetTimeBasedReward(ctx context.Context) invocation.Result[*big.Int] {
	return contract.Read(ctx, o.binding, uintOp("getTimeBasedReward"))
}

// GetCurrentReward 查询当前的打赏与奖励
func (o *Oracle) GetCurrentReward(ctx context.Context, queryID common.Hash) invocation.Result[CurrentReward] {
	return contract.Read(ctx, o.binding, currentRewardOp, [32]byte(queryID))
}

// SubmitValue 按 valueType 编码后上报
//
// 编码失败不会发出交易，返回 Fatal，原因为 *valuetype.EncodingError。
func (o *Oracle) SubmitValue(ctx context.Context, queryID common.Hash, valueType valuetype.GrammarType, value any, nonce *big.Int, queryData []byte) invocation.Result[transport.TxRef] {
	encoded, err := valueType.Encode(value)
	if err != nil {
		return invocation.Fail[transport.TxRef](invocation.Fatal(fmt.Sprintf("submitValue: encode %s", valueType), err))
	}
	if nonce == nil {
		return invocation.Fail[transport.TxRef](invocation.Fatal("submitValue: nonce is required", nil))
	}
	if queryData == nil {
		queryData = []byte{}
	}
	return contract.Write(ctx, o.binding, submitValueOp, [32]byte(queryID), encoded, nonce, queryData)
}

// TipQuery 为查询打赏
func (o *Oracle) TipQuery(ctx context.Context, queryID common.Hash, amount *big.Int, queryData []byte) invocation.Result[transport.TxRef] {
	if amount == nil || amount.Sign() < 0 {
		return invocation.Fail[transport.TxRef](invocation.Fatal("tipQuery: amount must be non-negative", nil))
	}
	if queryData == nil {
		queryData = []byte{}
	}
	return contract.Write(ctx, o.binding, tipQueryOp, [32]byte(queryID), amount, queryData)
}
