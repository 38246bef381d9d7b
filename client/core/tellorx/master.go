package tellorx

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fetchoracle/telliot-core-alt/client/core/contract"
	"github.com/fetchoracle/telliot-core-alt/client/core/directory"
	"github.com/fetchoracle/telliot-core-alt/client/core/transport"
	"github.com/fetchoracle/telliot-core-alt/pkg/invocation"
)

// Master TellorX master 合约：质押、争议、全局变量
type Master struct {
	binding *contract.Binding
}

// NewMaster 从目录解析 master 合约，未登记时返回 *contract.NotFoundError
func NewMaster(dir directory.Lookuper, t transport.Transport, chainID int64, opts ...contract.BindingOption) (*Master, error) {
	h, err := contract.Resolve(dir, chainID, directory.Master)
	if err != nil {
		return nil, err
	}
	return &Master{binding: contract.NewBinding(h, t, opts...)}, nil
}

// Address 合约地址
func (m *Master) Address() common.Address { return m.binding.Handle().Address() }

// GetStakerInfo 质押状态与质押时间
func (m *Master) GetStakerInfo(ctx context.Context, staker common.Address) invocation.Result[StakerInfo] {
	return contract.Read(ctx, m.binding, stakerInfoOp, staker)
}

// DisputesByID 争议详情，不存在的争议返回 Ok 且无载荷
func (m *Master) DisputesByID(ctx context.Context, id *big.Int) invocation.Result[DisputeReport] {
	return contract.Read(ctx, m.binding, disputeOp, id)
}

// GetUintVar 读取全局 uint 变量，键见 UintVarKey
func (m *Master) GetUintVar(ctx context.Context, key common.Hash) invocation.Result[*big.Int] {
	return contract.Read(ctx, m.binding, uintOp("getUintVar"), [32]byte(key))
}

// DepositStake 质押
func (m *Master) DepositStake(ctx context.Context) invocation.Result[transport.TxRef] {
	return contract.Write(ctx, m.binding, depositStakeOp)
}

// RequestStakingWithdraw 申请解除质押
func (m *Master) RequestStakingWithdraw(ctx context.Context) invocation.Result[transport.TxRef] {
	return contract.Write(ctx, m.binding, requestStakingWithdrawOp)
}

// WithdrawStake 锁定期结束后取回质押
func (m *Master) WithdrawStake(ctx context.Context) invocation.Result[transport.TxRef] {
	return contract.Write(ctx, m.binding, withdrawStakeOp)
}
