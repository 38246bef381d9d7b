package valuetype

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateNormalization 测试规范化与幂等性
func TestValidateNormalization(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"uint", "uint256"},
		{"int", "int256"},
		{"  uint8 ", "uint8"},
		{"byte", "bytes1"},
		{"function", "bytes24"},
		{"bytes", "bytes"},
		{"bytes32", "bytes32"},
		{"address[]", "address[]"},
		{"uint[3][]", "uint256[3][]"},
		{"(uint,bytes32,string)", "(uint256,bytes32,string)"},
		{"(int,(bool,byte)[2])[]", "(int256,(bool,bytes1)[2])[]"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			gt, err := Validate(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, gt.TypeString())
			assert.False(t, gt.Packed())

			again, err := Validate(gt.TypeString())
			require.NoError(t, err)
			assert.Equal(t, gt.TypeString(), again.TypeString())
		})
	}
}

// TestValidateRejects 测试非法文法被拒绝且不返回部分结果
func TestValidateRejects(t *testing.T) {
	for _, in := range []string{
		"uint9999abc",
		"uint256abc",
		"uint7",
		"int264",
		"bytes0",
		"bytes33",
		"fixed128x18",
		"ufixed",
		"()",
		"(uint256",
		"(uint256,)",
		"uint256[0]",
		"uint256[",
		"uint256 []",
		"( uint256)",
		"bool8",
		"foo",
		"",
		"(uint256[4294967295][4294967295])",
		"uint256[4294967295][4294967295]",
		"(bool,uint8[1025][1025])",
		"(uint256[65536][])[32]",
	} {
		t.Run(in, func(t *testing.T) {
			gt, err := Validate(in)
			require.Error(t, err)
			var ge *GrammarError
			assert.True(t, errors.As(err, &ge))
			assert.True(t, gt.IsZero())
		})
	}
}

// TestValidateStaticSizeLimit 测试定长数组展开上限的边界
func TestValidateStaticSizeLimit(t *testing.T) {
	gt, err := Validate("(uint8[1024][1024])")
	require.NoError(t, err)
	assert.Equal(t, "(uint8[1024][1024])", gt.TypeString())

	_, err = Validate("(uint8[1024][1024],bool)")
	var ge *GrammarError
	require.True(t, errors.As(err, &ge))
	assert.Contains(t, ge.Reason, "fixed-size arrays")
}

// TestRoundTrip 测试非 packed 编解码往返
func TestRoundTrip(t *testing.T) {
	addr := common.HexToAddress("0x88dF592F8eb5D7Bd38bFeF7dEb0fBc02cf3778a0")
	var word [32]byte
	copy(word[:], []byte("tellor"))

	cases := []struct {
		name  string
		typ   string
		value any
	}{
		{"uint256", "uint256", big.NewInt(123456789)},
		{"int256 负数", "int256", big.NewInt(-42)},
		{"uint64", "uint64", uint64(1 << 40)},
		{"int8", "int8", int8(-5)},
		{"bool", "bool", true},
		{"string", "string", "hello oracle"},
		{"bytes", "bytes", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"bytes32", "bytes32", word},
		{"address", "address", addr},
		{"uint32 切片", "uint32[]", []uint32{1, 2, 3}},
		{"定长数组", "bool[2]", [2]bool{true, false}},
		{"字符串切片", "string[]", []string{"a", "bc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt, err := Validate(tc.typ)
			require.NoError(t, err)
			enc, err := Encode(gt, tc.value)
			require.NoError(t, err)
			assert.Zero(t, len(enc)%32)

			dec, err := Decode(gt, enc)
			require.NoError(t, err)
			if want, ok := tc.value.(*big.Int); ok {
				got, ok := dec.(*big.Int)
				require.True(t, ok)
				assert.Equal(t, 0, want.Cmp(got))
				return
			}
			assert.Equal(t, tc.value, dec)
		})
	}
}

// TestRoundTripTuple 测试元组往返为 []any
func TestRoundTripTuple(t *testing.T) {
	gt, err := Validate("(uint64,string,bool,bytes)")
	require.NoError(t, err)

	value := []any{uint64(7), "BTC/USD", true, []byte{1, 2, 3}}
	enc, err := Encode(gt, value)
	require.NoError(t, err)

	dec, err := Decode(gt, enc)
	require.NoError(t, err)
	assert.Equal(t, value, dec)

	nested, err := Validate("(uint8,(string,int16)[])")
	require.NoError(t, err)
	nv := []any{uint8(1), []any{[]any{"a", int16(-1)}, []any{"b", int16(2)}}}
	enc, err = Encode(nested, nv)
	require.NoError(t, err)
	dec, err = Decode(nested, enc)
	require.NoError(t, err)
	assert.Equal(t, nv, dec)
}

// TestEncodeCanonicalLayout 测试与 abi.encode 一致的布局
func TestEncodeCanonicalLayout(t *testing.T) {
	gt, err := Validate("uint")
	require.NoError(t, err)
	enc, err := Encode(gt, 1)
	require.NoError(t, err)
	require.Len(t, enc, 32)
	assert.Equal(t, byte(1), enc[31])

	st, err := Validate("string")
	require.NoError(t, err)
	enc, err = Encode(st, "abc")
	require.NoError(t, err)
	require.Len(t, enc, 96)
	assert.Equal(t, byte(0x20), enc[31], "offset word")
	assert.Equal(t, byte(3), enc[63], "length word")
	assert.Equal(t, "abc", string(enc[64:67]))
}

// TestEncodeShapeMismatch 测试形状不匹配返回 EncodingError
func TestEncodeShapeMismatch(t *testing.T) {
	cases := []struct {
		typ   string
		value any
	}{
		{"uint8", 256},
		{"uint256", -1},
		{"int8", 128},
		{"bytes32", make([]byte, 31)},
		{"(uint256,bool)", []any{big.NewInt(1)}},
		{"string", 12},
		{"address", "0x1234"},
		{"uint256[2]", []uint64{1}},
		{"bool", nil},
	}
	for _, tc := range cases {
		t.Run(tc.typ, func(t *testing.T) {
			gt, err := Validate(tc.typ)
			require.NoError(t, err)
			_, err = Encode(gt, tc.value)
			var ee *EncodingError
			require.True(t, errors.As(err, &ee), "got %v", err)
			assert.Equal(t, gt.TypeString(), ee.TypeString)
		})
	}
}

// TestDecodeErrors 测试缓冲区过短与偏移越界
func TestDecodeErrors(t *testing.T) {
	u, err := Validate("uint256")
	require.NoError(t, err)
	_, err = Decode(u, make([]byte, 16))
	var de *DecodingError
	assert.True(t, errors.As(err, &de))

	b, err := Validate("bytes")
	require.NoError(t, err)
	bad := make([]byte, 64)
	bad[31] = 0xff // 偏移指向缓冲区之外
	_, err = Decode(b, bad)
	assert.True(t, errors.As(err, &de))

	packed := b.WithPacked(true)
	_, err = Decode(packed, []byte{1})
	assert.True(t, errors.Is(err, ErrPackedDecode))
}

// TestPackedEncodeOnly 测试 packed 编码（只断言编码结果）
func TestPackedEncodeOnly(t *testing.T) {
	u16, err := New("uint16", true)
	require.NoError(t, err)
	enc, err := Encode(u16, 0x1234)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34}, enc)

	i8, err := New("int8", true)
	require.NoError(t, err)
	enc, err = Encode(i8, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, enc)

	tuple, err := New("(address,bool,string)", true)
	require.NoError(t, err)
	addr := common.HexToAddress("0x18431fd88adF138e8b979A7246eb58EA7126ea16")
	enc, err = Encode(tuple, []any{addr, true, "eth"})
	require.NoError(t, err)
	require.Len(t, enc, 20+1+3)
	assert.Equal(t, addr.Bytes(), enc[:20])
	assert.Equal(t, byte(1), enc[20])
	assert.Equal(t, "eth", string(enc[21:]))

	dyn, err := New("string[]", true)
	require.NoError(t, err)
	enc, err = Encode(dyn, []string{"ab", "c"})
	require.NoError(t, err)
	assert.Equal(t, "abc", string(enc))

	_, err = Encode(u16, 1<<16)
	var ee *EncodingError
	assert.True(t, errors.As(err, &ee))
}

// TestGrammarTypeJSON 测试 JSON 配置构造
func TestGrammarTypeJSON(t *testing.T) {
	var gt GrammarType
	require.NoError(t, json.Unmarshal([]byte(`{}`), &gt))
	assert.Equal(t, DefaultType, gt.TypeString())

	require.NoError(t, json.Unmarshal([]byte(`{"abi_type":"uint[]","packed":true}`), &gt))
	assert.Equal(t, "uint256[]", gt.TypeString())
	assert.True(t, gt.Packed())

	out, err := json.Marshal(gt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"abi_type":"uint256[]","packed":true}`, string(out))

	err = json.Unmarshal([]byte(`{"abi_type":"uint9999abc"}`), &gt)
	var ge *GrammarError
	require.True(t, errors.As(err, &ge))
	assert.True(t, strings.Contains(ge.Error(), "uint9999abc"))
}
