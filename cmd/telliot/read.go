package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/fetchoracle/telliot-core-alt/client/core/tellorx"
	"github.com/fetchoracle/telliot-core-alt/internal/app"
	"github.com/fetchoracle/telliot-core-alt/pkg/valuetype"
)

func (c *cli) stakerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "staker <address>",
		Short: "查询质押者状态",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsHexAddress(args[0]) {
				return fmt.Errorf("invalid address %q", args[0])
			}
			addr := common.HexToAddress(args[0])
			return c.run(cmd, false, func(ctx context.Context, svc app.Services) error {
				return printResult(c, svc.Master.GetStakerInfo(ctx, addr), "staker", identity[tellorx.StakerInfo])
			})
		},
	}
}

func (c *cli) disputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dispute <id>",
		Short: "查询争议详情",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := tellorx.ParseDisputeID(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, false, func(ctx context.Context, svc app.Services) error {
				return printResult(c, svc.Master.DisputesByID(ctx, id), "dispute", identity[tellorx.DisputeReport])
			})
		},
	}
}

// currentValueView 最新上报值，decoded 按 --type 解码
type currentValueView struct {
	QueryID string `json:"query_id"`
	Value   string `json:"value"`
	Type    string `json:"type,omitempty"`
	Decoded any    `json:"decoded,omitempty"`
}

func (c *cli) currentValueCmd() *cobra.Command {
	var typeString string
	cmd := &cobra.Command{
		Use:   "current-value <queryId>",
		Short: "查询 oracle 上某个查询的最新上报值",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queryID, err := tellorx.ParseQueryID(args[0])
			if err != nil {
				return err
			}
			var vt valuetype.GrammarType
			if typeString != "" {
				if vt, err = valuetype.New(typeString, false); err != nil {
					return err
				}
			}
			return c.run(cmd, false, func(ctx context.Context, svc app.Services) error {
				if vt.IsZero() {
					vt = svc.Provider.GetValueType()
				}
				return printResult(c, svc.Oracle.GetCurrentValue(ctx, queryID), "current value", func(v tellorx.CurrentValue) any {
					view := currentValueView{QueryID: v.QueryID.Hex(), Value: hexutil.Encode(v.Value)}
					if !vt.Packed() {
						if decoded, err := vt.Decode(v.Value); err == nil {
							view.Type = vt.TypeString()
							view.Decoded = displayValue(decoded)
						} else {
							c.formatter.PrintWarning(fmt.Sprintf("value does not decode as %s: %v", vt, err))
						}
					}
					return view
				})
			})
		},
	}
	cmd.Flags().StringVar(&typeString, "type", "", "上报值的 ABI 类型（默认取配置 value_type）")
	return cmd
}
