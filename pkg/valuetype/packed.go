package valuetype

import (
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// encodePacked 对已转换的值做最小拼接编码
//
// 整数取 M/8 字节大端补码，bool 1 字节，address 20 字节，bytesN 原样 N 字节，
// bytes/string 为原始内容且不带长度字，数组与元组为成员编码的直接拼接。
func encodePacked(t abi.Type, rv reflect.Value) []byte {
	switch t.T {
	case abi.IntTy, abi.UintTy:
		var x *big.Int
		switch {
		case rv.Type() == bigIntType:
			x = new(big.Int).Set(rv.Interface().(*big.Int))
		case t.T == abi.UintTy:
			x = new(big.Int).SetUint64(rv.Uint())
		default:
			x = big.NewInt(rv.Int())
		}
		word := math.U256Bytes(x)
		return word[32-t.Size/8:]
	case abi.BoolTy:
		if rv.Bool() {
			return []byte{1}
		}
		return []byte{0}
	case abi.AddressTy:
		addr := rv.Interface().(common.Address)
		return addr.Bytes()
	case abi.FixedBytesTy, abi.FunctionTy:
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return out
	case abi.BytesTy:
		return append([]byte{}, rv.Bytes()...)
	case abi.StringTy:
		return []byte(rv.String())
	case abi.SliceTy, abi.ArrayTy:
		var out []byte
		for i := 0; i < rv.Len(); i++ {
			out = append(out, encodePacked(*t.Elem, rv.Index(i))...)
		}
		return out
	case abi.TupleTy:
		var out []byte
		for i, et := range t.TupleElems {
			out = append(out, encodePacked(*et, rv.Field(i))...)
		}
		return out
	}
	return nil
}
