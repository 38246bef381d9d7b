package log

import (
	configtypes "github.com/fetchoracle/telliot-core-alt/pkg/types"
	"go.uber.org/zap/zapcore"
)

// LogOptions 日志配置选项
type LogOptions struct {
	// === 基础配置 ===
	Level     string `json:"level"`      // 日志级别 (debug, info, warn, error, fatal)
	ToConsole bool   `json:"to_console"` // 是否输出到控制台
	ToStderr  bool   `json:"to_stderr"`  // 控制台输出使用 stderr（CLI 输出 JSON 时避免混入 stdout）
	FilePath  string `json:"file_path"`  // 日志文件路径，为空则不写文件

	// === 基础轮转配置 ===
	MaxSize    int  `json:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int  `json:"max_backups"` // 最大备份文件数
	MaxAge     int  `json:"max_age"`     // 日志文件最大保留天数
	Compress   bool `json:"compress"`    // 是否压缩历史日志文件

	// === 调试配置 ===
	EnableCaller     bool `json:"enable_caller"`     // 是否启用调用者信息
	EnableStacktrace bool `json:"enable_stacktrace"` // 是否启用堆栈跟踪

	// === 多文件配置 ===
	EnableMultiFile bool   `json:"enable_multi_file"` // 按 module 拆分 system/business 文件
	LogDir          string `json:"log_dir"`           // 多文件目录，为空时取 FilePath 所在目录
	SystemLogFile   string `json:"system_log_file"`
	BusinessLogFile string `json:"business_log_file"`

	LevelMap map[string]zapcore.Level `json:"-"` // 级别映射
}

// Config 日志配置实现
type Config struct {
	options *LogOptions
}

// New 创建日志配置，userConfig 可以是 *types.UserLogConfig、*LogOptions 或 nil
func New(userConfig interface{}) *Config {
	options := createDefaultLogOptions()

	switch uc := userConfig.(type) {
	case *configtypes.UserLogConfig:
		if uc != nil {
			applyUserLogConfig(options, uc)
		}
	case *LogOptions:
		if uc != nil {
			merged := *uc
			if merged.LevelMap == nil {
				merged.LevelMap = defaultLevelMap
			}
			if merged.SystemLogFile == "" {
				merged.SystemLogFile = defaultSystemLogFile
			}
			if merged.BusinessLogFile == "" {
				merged.BusinessLogFile = defaultBusinessLogFile
			}
			options = &merged
		}
	}

	return &Config{options: options}
}

// NewFromProvider 从配置提供者创建日志配置
func NewFromProvider(provider interface{}) *Config {
	if p, ok := provider.(interface{ GetLog() *LogOptions }); ok && p.GetLog() != nil {
		return New(p.GetLog())
	}
	return New(nil)
}

// createDefaultLogOptions 创建默认日志配置
func createDefaultLogOptions() *LogOptions {
	return &LogOptions{
		Level:     defaultLogLevel,
		ToConsole: defaultToConsole,
		FilePath:  defaultFilePath,

		MaxSize:    defaultMaxSize,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAge,
		Compress:   defaultCompress,

		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,

		EnableMultiFile: defaultEnableMultiFile,
		SystemLogFile:   defaultSystemLogFile,
		BusinessLogFile: defaultBusinessLogFile,

		LevelMap: defaultLevelMap,
	}
}

// applyUserLogConfig 应用用户日志配置覆盖默认值
func applyUserLogConfig(options *LogOptions, uc *configtypes.UserLogConfig) {
	if uc.Level != nil {
		options.Level = *uc.Level
	}
	if uc.FilePath != nil {
		options.FilePath = *uc.FilePath
		options.ToConsole = false // 指定文件路径时默认不输出到控制台
	}
	if uc.ToConsole != nil {
		options.ToConsole = *uc.ToConsole
	}
	if uc.ToStderr != nil {
		options.ToStderr = *uc.ToStderr
	}
	if uc.MaxSize != nil {
		options.MaxSize = *uc.MaxSize
	}
	if uc.MaxBackups != nil {
		options.MaxBackups = *uc.MaxBackups
	}
	if uc.MaxAge != nil {
		options.MaxAge = *uc.MaxAge
	}
	if uc.EnableCaller != nil {
		options.EnableCaller = *uc.EnableCaller
	}
	if uc.EnableMultiFile != nil {
		options.EnableMultiFile = *uc.EnableMultiFile
	}
	if uc.LogDir != nil {
		options.LogDir = *uc.LogDir
	}
}

// GetOptions 获取完整的日志配置选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// GetLevel 获取日志级别
func (c *Config) GetLevel() string {
	return c.options.Level
}

// GetZapLevel 获取zap日志级别
func (c *Config) GetZapLevel() zapcore.Level {
	if level, exists := c.options.LevelMap[c.options.Level]; exists {
		return level
	}
	return zapcore.InfoLevel
}

// IsConsoleEnabled 是否启用控制台输出
func (c *Config) IsConsoleEnabled() bool {
	return c.options.ToConsole
}

// IsStderrConsole 控制台输出是否走 stderr
func (c *Config) IsStderrConsole() bool {
	return c.options.ToStderr
}

// GetFilePath 获取日志文件路径
func (c *Config) GetFilePath() string {
	return c.options.FilePath
}

// GetMaxSize 获取单个文件最大大小(MB)
func (c *Config) GetMaxSize() int {
	return c.options.MaxSize
}

// GetMaxBackups 获取最大备份文件数
func (c *Config) GetMaxBackups() int {
	return c.options.MaxBackups
}

// GetMaxAge 获取最大保留天数
func (c *Config) GetMaxAge() int {
	return c.options.MaxAge
}

// IsCompressionEnabled 是否启用压缩
func (c *Config) IsCompressionEnabled() bool {
	return c.options.Compress
}

// IsCallerEnabled 是否启用调用者信息
func (c *Config) IsCallerEnabled() bool {
	return c.options.EnableCaller
}

// IsStacktraceEnabled 是否启用堆栈跟踪
func (c *Config) IsStacktraceEnabled() bool {
	return c.options.EnableStacktrace
}

// IsMultiFileEnabled 是否启用多文件日志
func (c *Config) IsMultiFileEnabled() bool {
	return c.options.EnableMultiFile
}

// GetLogDir 多文件日志目录
func (c *Config) GetLogDir() string {
	return c.options.LogDir
}

// GetSystemLogFile 系统日志文件名
func (c *Config) GetSystemLogFile() string {
	return c.options.SystemLogFile
}

// GetBusinessLogFile 业务日志文件名
func (c *Config) GetBusinessLogFile() string {
	return c.options.BusinessLogFile
}

// CreateFileEncoder 创建文件编码器（JSON）
func (c *Config) CreateFileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
	})
}

// CreateConsoleEncoder 创建控制台编码器
func (c *Config) CreateConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	})
}
