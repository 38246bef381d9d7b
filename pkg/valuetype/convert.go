package valuetype

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// toABIValue 把调用方的值转换为 go-ethereum 打包所需的精确 Go 类型
//
// 整数接受任意 Go 整数类型或 *big.Int 并做范围检查；address 接受十六进制字符串；
// bytesN 接受长度一致的数组或切片；元组接受 []any。
func toABIValue(t abi.Type, v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Value{}, fmt.Errorf("nil value for %s", t.String())
	}
	switch t.T {
	case abi.IntTy, abi.UintTy:
		return toInteger(t, v)
	case abi.BoolTy:
		b, ok := v.(bool)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected bool, got %T", v)
		}
		return reflect.ValueOf(b), nil
	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected string, got %T", v)
		}
		return reflect.ValueOf(s), nil
	case abi.AddressTy:
		return toAddress(v)
	case abi.FixedBytesTy, abi.FunctionTy:
		return toFixedBytes(t, v)
	case abi.BytesTy:
		return toBytes(v)
	case abi.SliceTy, abi.ArrayTy:
		return toArray(t, v)
	case abi.TupleTy:
		return toTuple(t, v)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported abi type %s", t.String())
	}
}

func toInteger(t abi.Type, v any) (reflect.Value, error) {
	var x *big.Int
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return reflect.Value{}, fmt.Errorf("nil integer for %s", t.String())
		}
		x = new(big.Int).Set(n)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			x = big.NewInt(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			x = new(big.Int).SetUint64(rv.Uint())
		default:
			return reflect.Value{}, fmt.Errorf("expected integer for %s, got %T", t.String(), v)
		}
	}

	var lo, hi *big.Int
	if t.T == abi.UintTy {
		lo = new(big.Int)
		hi = new(big.Int).Lsh(big.NewInt(1), uint(t.Size))
	} else {
		hi = new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		lo = new(big.Int).Neg(hi)
	}
	if x.Cmp(lo) < 0 || x.Cmp(hi) >= 0 {
		return reflect.Value{}, fmt.Errorf("integer %s out of range for %s", x.String(), t.String())
	}

	goType := t.GetType()
	if goType == bigIntType {
		return reflect.ValueOf(x), nil
	}
	out := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		out.SetUint(x.Uint64())
	} else {
		out.SetInt(x.Int64())
	}
	return out, nil
}

func toAddress(v any) (reflect.Value, error) {
	switch a := v.(type) {
	case common.Address:
		return reflect.ValueOf(a), nil
	case *common.Address:
		if a == nil {
			return reflect.Value{}, fmt.Errorf("nil address")
		}
		return reflect.ValueOf(*a), nil
	case [common.AddressLength]byte:
		return reflect.ValueOf(common.Address(a)), nil
	case string:
		if !common.IsHexAddress(a) {
			return reflect.Value{}, fmt.Errorf("invalid hex address %q", a)
		}
		return reflect.ValueOf(common.HexToAddress(a)), nil
	default:
		return reflect.Value{}, fmt.Errorf("expected address, got %T", v)
	}
}

func toFixedBytes(t abi.Type, v any) (reflect.Value, error) {
	var raw []byte
	switch b := v.(type) {
	case []byte:
		raw = b
	case string:
		decoded, err := hexutil.Decode(b)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid hex for %s: %w", t.String(), err)
		}
		raw = decoded
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Array || rv.Type().Elem().Kind() != reflect.Uint8 {
			return reflect.Value{}, fmt.Errorf("expected [%d]byte, got %T", t.Size, v)
		}
		raw = make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(raw), rv)
	}
	if len(raw) != t.Size {
		return reflect.Value{}, fmt.Errorf("expected %d bytes for %s, got %d", t.Size, t.String(), len(raw))
	}
	out := reflect.New(t.GetType()).Elem()
	reflect.Copy(out, reflect.ValueOf(raw))
	return out, nil
}

func toBytes(v any) (reflect.Value, error) {
	switch b := v.(type) {
	case []byte:
		return reflect.ValueOf(append([]byte{}, b...)), nil
	case string:
		if !strings.HasPrefix(b, "0x") && !strings.HasPrefix(b, "0X") {
			return reflect.Value{}, fmt.Errorf("bytes string must be 0x-prefixed hex")
		}
		decoded, err := hexutil.Decode(b)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid hex bytes: %w", err)
		}
		return reflect.ValueOf(decoded), nil
	default:
		return reflect.Value{}, fmt.Errorf("expected []byte, got %T", v)
	}
}

func toArray(t abi.Type, v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("expected slice for %s, got %T", t.String(), v)
	}
	n := rv.Len()
	var out reflect.Value
	if t.T == abi.ArrayTy {
		if n != t.Size {
			return reflect.Value{}, fmt.Errorf("expected %d elements for %s, got %d", t.Size, t.String(), n)
		}
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), n, n)
	}
	for i := 0; i < n; i++ {
		ev, err := toABIValue(*t.Elem, rv.Index(i).Interface())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

func toTuple(t abi.Type, v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("expected []any for %s, got %T", t.String(), v)
	}
	if rv.Len() != len(t.TupleElems) {
		return reflect.Value{}, fmt.Errorf("tuple %s expects %d values, got %d", t.String(), len(t.TupleElems), rv.Len())
	}
	out := reflect.New(t.TupleType).Elem()
	for i, et := range t.TupleElems {
		ev, err := toABIValue(*et, rv.Index(i).Interface())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("tuple field %d: %w", i, err)
		}
		out.Field(i).Set(ev)
	}
	return out, nil
}
