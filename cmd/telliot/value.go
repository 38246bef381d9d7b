package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/fetchoracle/telliot-core-alt/internal/config"
	"github.com/fetchoracle/telliot-core-alt/pkg/valuetype"
)

type encodedView struct {
	Type    string `json:"type"`
	Packed  bool   `json:"packed"`
	Encoded string `json:"encoded"`
}

type decodedView struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func (c *cli) valueCmd() *cobra.Command {
	var (
		typeString string
		packed     bool
	)
	cmd := &cobra.Command{
		Use:   "value",
		Short: "按 ABI 类型编解码上报值",
	}
	cmd.PersistentFlags().StringVar(&typeString, "type", "", "ABI 类型，如 uint256、string、(uint256,bytes32)（默认取配置 value_type）")
	cmd.PersistentFlags().BoolVar(&packed, "packed", false, "使用紧凑编码")

	resolve := func() (valuetype.GrammarType, error) {
		if typeString != "" {
			return valuetype.New(typeString, packed)
		}
		cfg, err := c.loadConfig()
		if err != nil {
			return valuetype.GrammarType{}, err
		}
		provider, err := config.NewProvider(cfg)
		if err != nil {
			return valuetype.GrammarType{}, err
		}
		vt := provider.GetValueType()
		if cmd.PersistentFlags().Changed("packed") {
			vt = vt.WithPacked(packed)
		}
		return vt, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encode <value>",
		Short: "编码值，数字、布尔、数组与元组使用 JSON 写法",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vt, err := resolve()
			if err != nil {
				return err
			}
			encoded, err := vt.Encode(parseValueArg(args[0]))
			if err != nil {
				return err
			}
			return c.formatter.Print(encodedView{Type: vt.TypeString(), Packed: vt.Packed(), Encoded: hexutil.Encode(encoded)})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "decode <hex>",
		Short: "解码 0x 前缀的十六进制数据",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vt, err := resolve()
			if err != nil {
				return err
			}
			data, err := hexutil.Decode(args[0])
			if err != nil {
				return fmt.Errorf("invalid hex %q: %w", args[0], err)
			}
			decoded, err := vt.Decode(data)
			if err != nil {
				return err
			}
			return c.formatter.Print(decodedView{Type: vt.TypeString(), Value: displayValue(decoded)})
		},
	})
	return cmd
}

// parseValueArg 命令行参数转值：合法 JSON 按 JSON 解析（数字转为 *big.Int），否则视为字符串
func parseValueArg(arg string) any {
	dec := json.NewDecoder(strings.NewReader(arg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return arg
	}
	return fromJSON(v)
}

func fromJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, ok := new(big.Int).SetString(x.String(), 10); ok {
			return n
		}
		return x.String()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = fromJSON(e)
		}
		return out
	default:
		return x
	}
}

var addressType = reflect.TypeOf(common.Address{})

// displayValue 解码结果转为便于输出的形式：字节为 0x 十六进制，整数为十进制字符串
func displayValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *big.Int:
		return x.String()
	case common.Address:
		return x.Hex()
	case []byte:
		return hexutil.Encode(x)
	case string, bool:
		return x
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprint(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprint(rv.Uint())
	case reflect.Array:
		if rv.Type() == addressType {
			return rv.Interface().(common.Address).Hex()
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			raw := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(raw), rv)
			return hexutil.Encode(raw)
		}
		return displaySlice(rv)
	case reflect.Slice:
		return displaySlice(rv)
	default:
		return v
	}
}

func displaySlice(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = displayValue(rv.Index(i).Interface())
	}
	return out
}
