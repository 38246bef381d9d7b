// Package types 定义配置文件对应的用户配置结构
package types

import "github.com/fetchoracle/telliot-core-alt/pkg/valuetype"

// AppConfig 应用配置（对应 config.json 顶层）
//
// 所有字段均为可选，只有出现在配置文件中的字段才覆盖默认值。
type AppConfig struct {
	AppName     *string `json:"app_name,omitempty"`
	Environment *string `json:"environment,omitempty"` // dev | test | prod

	// 链连接与签名
	Chain *UserChainConfig `json:"chain,omitempty"`

	// 合约目录的追加或覆盖条目
	Directory []UserDirectoryEntry `json:"directory,omitempty"`

	// 外部行情抓取
	Feed *UserFeedConfig `json:"feed,omitempty"`

	// 只读 HTTP 网关
	API *UserAPIConfig `json:"api,omitempty"`

	// 日志
	Log *UserLogConfig `json:"log,omitempty"`

	// 上报值的默认类型，{"abi_type": "...", "packed": false}
	ValueType *valuetype.GrammarType `json:"value_type,omitempty"`
}

// UserChainConfig 链连接配置
type UserChainConfig struct {
	ChainID       *int64   `json:"chain_id,omitempty"`
	Endpoint      *string  `json:"endpoint,omitempty"`        // JSON-RPC 地址
	Timeout       *string  `json:"timeout,omitempty"`         // 单次请求超时，如 "15s"
	RateLimit     *float64 `json:"rate_limit,omitempty"`      // 每秒请求数，0 表示不限速
	Burst         *int     `json:"burst,omitempty"`           // 突发请求数
	PrivateKeyEnv *string  `json:"private_key_env,omitempty"` // 私钥所在的环境变量名
}

// UserDirectoryEntry 合约目录条目
//
// ABIFile 为空时沿用内置目录中同名合约的接口描述。
type UserDirectoryEntry struct {
	ChainID int64  `json:"chain_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	ABIFile string `json:"abi_file,omitempty"`
}

// UserFeedConfig 行情抓取配置
type UserFeedConfig struct {
	GasPriceURL *string `json:"gas_price_url,omitempty"`
	MaxAttempts *int    `json:"max_attempts,omitempty"`
	Backoff     *string `json:"backoff,omitempty"` // 两次尝试之间的等待，如 "200ms"
	Timeout     *string `json:"timeout,omitempty"`
}

// UserAPIConfig HTTP 网关配置
type UserAPIConfig struct {
	HTTPEnabled *bool   `json:"http_enabled,omitempty"`
	HTTPHost    *string `json:"http_host,omitempty"`
	HTTPPort    *int    `json:"http_port,omitempty"`
	ReadTimeout *string `json:"read_timeout,omitempty"`
	// 每个客户端 IP 每秒请求数，0 表示不限流
	RateLimit *float64 `json:"rate_limit,omitempty"`
}

// UserLogConfig 日志配置
type UserLogConfig struct {
	Level           *string `json:"level,omitempty"`
	ToConsole       *bool   `json:"to_console,omitempty"`
	ToStderr        *bool   `json:"to_stderr,omitempty"`
	FilePath        *string `json:"file_path,omitempty"`
	MaxSize         *int    `json:"max_size,omitempty"`
	MaxBackups      *int    `json:"max_backups,omitempty"`
	MaxAge          *int    `json:"max_age,omitempty"`
	EnableCaller    *bool   `json:"enable_caller,omitempty"`
	EnableMultiFile *bool   `json:"enable_multi_file,omitempty"`
	LogDir          *string `json:"log_dir,omitempty"`
}

// StringPtr 返回字符串指针
func StringPtr(s string) *string { return &s }

// IntPtr 返回 int 指针
func IntPtr(i int) *int { return &i }

// BoolPtr 返回 bool 指针
func BoolPtr(b bool) *bool { return &b }
