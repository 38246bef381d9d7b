// Package contract 提供通用合约绑定：按操作表编码参数、调用传输层、解码并给出三态结果
package contract

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fetchoracle/telliot-core-alt/client/core/directory"
)

// NotFoundError 目录中没有 (链ID, 合约名) 对应的条目
type NotFoundError struct {
	ChainID int64
	Name    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contract %q not registered on chain %d", e.Name, e.ChainID)
}

// Handle 已解析的合约句柄，构造后不可变
type Handle struct {
	chainID int64
	name    string
	address common.Address
	abi     *abi.ABI
}

// Resolve 从目录解析合约句柄
func Resolve(dir directory.Lookuper, chainID int64, name string) (*Handle, error) {
	entry, ok := dir.Lookup(chainID, name)
	if !ok || entry.Address == (common.Address{}) || entry.ABI == nil {
		return nil, &NotFoundError{ChainID: chainID, Name: name}
	}
	return &Handle{chainID: chainID, name: name, address: entry.Address, abi: entry.ABI}, nil
}

// ChainID 链ID
func (h *Handle) ChainID() int64 { return h.chainID }

// Name 合约逻辑名
func (h *Handle) Name() string { return h.name }

// Address 合约地址
func (h *Handle) Address() common.Address { return h.address }

// ABI 接口描述，调用方不得修改
func (h *Handle) ABI() *abi.ABI { return h.abi }

func (h *Handle) String() string {
	return fmt.Sprintf("%s@%s (chain %d)", h.name, h.address.Hex(), h.chainID)
}
