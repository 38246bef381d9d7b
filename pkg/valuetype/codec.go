// Package valuetype 提供以 ABI 文法字符串描述的值类型及其编解码。
//
// 非 packed 模式的编码与 Solidity abi.encode 一致，由 go-ethereum 的 accounts/abi 完成；
// packed 模式为各元素的最小拼接，只编码不解码。
package valuetype

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// DefaultType 未指定类型时使用的默认类型
const DefaultType = "uint256"

// ErrPackedDecode packed 编码不可逆
var ErrPackedDecode = errors.New("packed encoding cannot be decoded")

// GrammarType 已校验并规范化的值类型描述
//
// 构造完成后不可变，可在多个 goroutine 间共享。
type GrammarType struct {
	typeString string
	packed     bool
	abiType    abi.Type
	args       abi.Arguments
}

// Validate 解析并规范化类型字符串，packed 默认为 false
func Validate(typeString string) (GrammarType, error) {
	return New(typeString, false)
}

// New 构造 GrammarType
func New(typeString string, packed bool) (GrammarType, error) {
	n, err := parse(typeString)
	if err != nil {
		return GrammarType{}, err
	}
	typ, err := newABIType(n)
	if err != nil {
		return GrammarType{}, &GrammarError{TypeString: typeString, Reason: err.Error()}
	}
	return GrammarType{
		typeString: n.String(),
		packed:     packed,
		abiType:    typ,
		args:       abi.Arguments{{Type: typ}},
	}, nil
}

// newABIType 构造元组类型时 go-ethereum 会调用 reflect.StructOf/ArrayOf，
// 无法表示的类型在那里 panic，这里转换为错误
func newABIType(n *node) (typ abi.Type, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unrepresentable type: %v", r)
		}
	}()
	m := n.marshaling("")
	return abi.NewType(m.Type, "", m.Components)
}

// MustNew 同 New，失败时 panic，仅用于包级常量表
func MustNew(typeString string, packed bool) GrammarType {
	gt, err := New(typeString, packed)
	if err != nil {
		panic(err)
	}
	return gt
}

// TypeString 规范化后的类型字符串
func (g GrammarType) TypeString() string { return g.typeString }

// Packed 是否使用 packed 编码
func (g GrammarType) Packed() bool { return g.packed }

// IsZero 是否为未初始化的零值
func (g GrammarType) IsZero() bool { return g.typeString == "" }

// WithPacked 返回切换了 packed 标志的副本
func (g GrammarType) WithPacked(packed bool) GrammarType {
	g.packed = packed
	return g
}

func (g GrammarType) String() string {
	if g.packed {
		return g.typeString + " (packed)"
	}
	return g.typeString
}

// Encode 按类型规则编码值
func Encode(g GrammarType, value any) ([]byte, error) {
	if g.IsZero() {
		return nil, &EncodingError{TypeString: "", Err: errors.New("uninitialized type")}
	}
	rv, err := toABIValue(g.abiType, value)
	if err != nil {
		return nil, &EncodingError{TypeString: g.typeString, Err: err}
	}
	if g.packed {
		return encodePacked(g.abiType, rv), nil
	}
	out, err := g.args.Pack(rv.Interface())
	if err != nil {
		return nil, &EncodingError{TypeString: g.typeString, Err: err}
	}
	return out, nil
}

// Decode 非 packed 编码的逆运算
func Decode(g GrammarType, data []byte) (any, error) {
	if g.IsZero() {
		return nil, &DecodingError{TypeString: "", Err: errors.New("uninitialized type")}
	}
	if g.packed {
		return nil, &DecodingError{TypeString: g.typeString, Err: ErrPackedDecode}
	}
	values, err := g.args.Unpack(data)
	if err != nil {
		return nil, &DecodingError{TypeString: g.typeString, Err: err}
	}
	if len(values) != 1 {
		return nil, &DecodingError{TypeString: g.typeString, Err: fmt.Errorf("expected 1 value, got %d", len(values))}
	}
	return FromABIValue(g.abiType, values[0]), nil
}

// Encode 方法形式
func (g GrammarType) Encode(value any) ([]byte, error) { return Encode(g, value) }

// Decode 方法形式
func (g GrammarType) Decode(data []byte) (any, error) { return Decode(g, data) }

type grammarTypeJSON struct {
	ABIType string `json:"abi_type"`
	Packed  bool   `json:"packed"`
}

// MarshalJSON 序列化为 {"abi_type": ..., "packed": ...}
func (g GrammarType) MarshalJSON() ([]byte, error) {
	ts := g.typeString
	if ts == "" {
		ts = DefaultType
	}
	return json.Marshal(grammarTypeJSON{ABIType: ts, Packed: g.packed})
}

// UnmarshalJSON 反序列化并立即校验，abi_type 缺省为 uint256
func (g *GrammarType) UnmarshalJSON(data []byte) error {
	var raw grammarTypeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ABIType == "" {
		raw.ABIType = DefaultType
	}
	gt, err := New(raw.ABIType, raw.Packed)
	if err != nil {
		return err
	}
	*g = gt
	return nil
}

// FromABIValue 把 go-ethereum 解出的值转换为对外值模型
//
// 元组转为按声明顺序排列的 []any；包含元组的数组转为 []any；其余保持原类型。
func FromABIValue(t abi.Type, v any) any {
	return fromABIValue(t, reflect.ValueOf(v))
}

func fromABIValue(t abi.Type, rv reflect.Value) any {
	switch t.T {
	case abi.TupleTy:
		out := make([]any, len(t.TupleElems))
		for i, et := range t.TupleElems {
			out[i] = fromABIValue(*et, rv.Field(i))
		}
		return out
	case abi.SliceTy, abi.ArrayTy:
		if !containsTuple(t) {
			return rv.Interface()
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = fromABIValue(*t.Elem, rv.Index(i))
		}
		return out
	default:
		return rv.Interface()
	}
}

func containsTuple(t abi.Type) bool {
	switch t.T {
	case abi.TupleTy:
		return true
	case abi.SliceTy, abi.ArrayTy:
		return containsTuple(*t.Elem)
	default:
		return false
	}
}
