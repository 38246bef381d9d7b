package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fetchoracle/telliot-core-alt/client/core/feed"
	"github.com/fetchoracle/telliot-core-alt/internal/app"
	"github.com/fetchoracle/telliot-core-alt/internal/config"
	logconfig "github.com/fetchoracle/telliot-core-alt/internal/config/log"
	corelog "github.com/fetchoracle/telliot-core-alt/internal/core/infrastructure/log"
)

type gasPriceView struct {
	Style string `json:"style"`
	Gwei  uint64 `json:"gwei"`
}

// gasPriceCmd 不连接节点，只访问行情接口
func (c *cli) gasPriceCmd() *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "gas-price",
		Short: "查询当前 gas 价格（gwei）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gs, err := feed.ParseGasStyle(style)
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			provider, err := config.NewProvider(cfg)
			if err != nil {
				return err
			}
			logger, err := corelog.New(logconfig.NewFromProvider(provider))
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			gas := app.ProvideGasFeed(app.GasFeedParams{Feed: provider.GetFeed(), Logger: logger})
			price, ok := gas.Price(cmd.Context(), gs)
			if !ok {
				return fmt.Errorf("gas price unavailable from %s", gas.URL)
			}
			return c.formatter.Print(gasPriceView{Style: string(gs), Gwei: price})
		},
	}
	cmd.Flags().StringVar(&style, "style", string(feed.GasFast), "档位: fast|fastest|safeLow|average")
	return cmd
}
