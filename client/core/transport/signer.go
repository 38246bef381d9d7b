package transport

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer 交易签名者
//
// 只保存 go-ethereum 的 TransactOpts，私钥不对外暴露。
type Signer struct {
	opts *bind.TransactOpts
}

// NewSigner 由十六进制私钥创建签名者，0x 前缀可选
func NewSigner(hexKey string, chainID int64) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, &Error{Kind: KindAuth, Op: "signer", Err: fmt.Errorf("invalid private key: %w", err)}
	}
	return NewSignerFromKey(key, chainID)
}

// NewSignerFromKey 由 ECDSA 私钥创建签名者
func NewSignerFromKey(key *ecdsa.PrivateKey, chainID int64) (*Signer, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(chainID))
	if err != nil {
		return nil, &Error{Kind: KindAuth, Op: "signer", Err: err}
	}
	return &Signer{opts: opts}, nil
}

// Address 签名账户地址
func (s *Signer) Address() common.Address {
	return s.opts.From
}

// transactOpts 每次发送使用独立副本
func (s *Signer) transactOpts(ctx context.Context) *bind.TransactOpts {
	opts := *s.opts
	opts.Context = ctx
	return &opts
}
