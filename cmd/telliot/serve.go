package main

import (
	"github.com/spf13/cobra"

	"github.com/fetchoracle/telliot-core-alt/internal/app"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "运行只读 HTTP 网关",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.appOptions(false)
			if err != nil {
				return err
			}
			a, err := app.Start(opts...)
			if err != nil {
				return err
			}
			c.formatter.PrintInfo("gateway running, press Ctrl+C to stop")
			<-cmd.Context().Done()
			return a.Stop()
		},
	}
}
