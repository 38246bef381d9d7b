package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fetchoracle/telliot-core-alt/client/core/output"
	"github.com/fetchoracle/telliot-core-alt/internal/app"
	"github.com/fetchoracle/telliot-core-alt/internal/app/version"
	"github.com/fetchoracle/telliot-core-alt/internal/config"
	"github.com/fetchoracle/telliot-core-alt/pkg/invocation"
	"github.com/fetchoracle/telliot-core-alt/pkg/types"
)

// globalFlags 全局标志
type globalFlags struct {
	ConfigFile   string
	Environment  string
	OutputFormat string
	Silent       bool
}

// cli 一次命令执行的共享状态
type cli struct {
	flags     globalFlags
	out       io.Writer
	errOut    io.Writer
	formatter *output.Formatter

	// 测试替换：读取终端密码
	readPassword func(prompt string) (string, error)
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	return (&cli{out: out, errOut: errOut, readPassword: promptPassword}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "telliot",
		Short:         "TellorX oracle client",
		Long:          "telliot 查询 TellorX master/oracle 合约、提交质押操作、编解码上报值，并可运行只读 HTTP 网关。",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(c.flags.OutputFormat)
			if err != nil {
				return err
			}
			c.formatter = output.NewFormatter(format, c.out)
			c.formatter.SetLogWriter(c.errOut)
			c.formatter.SetSilent(c.flags.Silent)
			return nil
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.flags.ConfigFile, "config", "c", "", "配置文件路径（默认使用内置配置）")
	pf.StringVar(&c.flags.Environment, "env", "development", "内置配置环境: development|testing|production")
	pf.StringVarP(&c.flags.OutputFormat, "output", "o", "json", "输出格式: json|pretty|table|text")
	pf.BoolVar(&c.flags.Silent, "silent", false, "静默模式 (仅输出结果)")

	root.AddCommand(
		c.stakerCmd(),
		c.disputeCmd(),
		c.currentValueCmd(),
		c.gasPriceCmd(),
		c.valueCmd(),
		c.stakeCmd(),
		c.serveCmd(),
	)
	return root
}

// loadConfig 读取配置；CLI 下日志默认写 stderr，避免混入输出
func (c *cli) loadConfig() (*types.AppConfig, error) {
	cfg, err := config.LoadAppConfig(c.flags.ConfigFile, c.flags.Environment)
	if err != nil {
		return nil, err
	}
	if cfg.Log == nil {
		cfg.Log = &types.UserLogConfig{}
	}
	if cfg.Log.ToStderr == nil {
		cfg.Log.ToStderr = types.BoolPtr(true)
	}
	if cfg.Log.Level == nil && !c.flags.Silent {
		cfg.Log.Level = types.StringPtr("warn")
	}
	return cfg, nil
}

// appOptions 组装应用选项；needKey 时从环境变量或终端提示获取私钥
func (c *cli) appOptions(needKey bool) ([]app.Option, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	opts := []app.Option{app.WithAppConfig(cfg)}
	if !needKey {
		return opts, nil
	}

	provider, err := config.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	envName := provider.GetChain().PrivateKeyEnv
	if envName != "" && os.Getenv(envName) != "" {
		return opts, nil
	}
	key, err := c.readPassword(fmt.Sprintf("private key (%s not set): ", envName))
	if err != nil {
		return nil, err
	}
	return append(opts, app.WithPrivateKey(key)), nil
}

// run 启动不含网关的应用并执行 fn
func (c *cli) run(cmd *cobra.Command, needKey bool, fn func(context.Context, app.Services) error) error {
	opts, err := c.appOptions(needKey)
	if err != nil {
		return err
	}
	return app.Run(cmd.Context(), fn, opts...)
}

// promptPassword 终端下无回显读取
func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no private key: set the configured environment variable or run in a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read private key: %w", err)
	}
	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", fmt.Errorf("empty private key")
	}
	return key, nil
}

// printResult 输出调用结果；不存在与失败都返回错误，使退出码非零
func printResult[T any](c *cli, res invocation.Result[T], what string, view func(T) any) error {
	var err error
	res.Match(
		func(v T, present bool) {
			if !present {
				err = fmt.Errorf("%s not found", what)
				return
			}
			err = c.formatter.Print(view(v))
		},
		func(s invocation.Status) {
			err = fmt.Errorf("%s temporarily unavailable, retry later: %w", what, s.Err())
		},
		func(s invocation.Status) {
			err = fmt.Errorf("%s: %w", what, s.Err())
		},
	)
	return err
}

func identity[T any](v T) any { return v }
