// Package transport 提供合约调用的底层传输：连接、签名、发送
//
// 传输层只负责把已编码的调用数据送达节点并返回原始字节，
// 失败按 Kind 分类，供上层映射为 Transient 或 Fatal。
package transport

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Transport 合约调用传输接口
type Transport interface {
	// Call 只读调用，返回原始返回数据
	Call(ctx context.Context, req *CallRequest) ([]byte, error)

	// Send 签名并发送状态变更交易
	Send(ctx context.Context, req *CallRequest) (*TxRef, error)
}

// CallRequest 一次合约调用
type CallRequest struct {
	ChainID   int64
	Address   common.Address
	Interface *abi.ABI // 只读，传输层不修改
	Operation string
	Calldata  []byte // 方法选择器 + 已编码参数
}

// TxRef 已发送交易的引用
type TxRef struct {
	Hash  common.Hash    `json:"hash"`
	Nonce uint64         `json:"nonce"`
	To    common.Address `json:"to"`
}
