package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fetchoracle/telliot-core-alt/client/core/tellorx"
	"github.com/fetchoracle/telliot-core-alt/client/core/transport"
	"github.com/fetchoracle/telliot-core-alt/internal/app"
	"github.com/fetchoracle/telliot-core-alt/pkg/invocation"
)

func (c *cli) stakeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake",
		Short: "质押操作（需要私钥）",
	}

	write := func(use, short string, op func(*tellorx.Master, context.Context) invocation.Result[transport.TxRef]) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.run(cmd, true, func(ctx context.Context, svc app.Services) error {
					if signer := svc.Client.Signer(); signer != nil {
						c.formatter.PrintInfo("sending from " + signer.Address().Hex())
					}
					err := printResult(c, op(svc.Master, ctx), use, identity[transport.TxRef])
					if err == nil {
						c.formatter.PrintSuccess(use + " submitted")
					}
					return err
				})
			},
		}
	}

	cmd.AddCommand(
		write("deposit", "质押", (*tellorx.Master).DepositStake),
		write("request-withdraw", "申请解除质押", (*tellorx.Master).RequestStakingWithdraw),
		write("withdraw", "提取已解锁的质押", (*tellorx.Master).WithdrawStake),
	)
	return cmd
}
