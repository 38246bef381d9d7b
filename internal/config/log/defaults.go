package log

import (
	"go.uber.org/zap/zapcore"
)

// 日志配置默认值
const (
	// defaultLogLevel 默认日志级别
	defaultLogLevel = "info"

	// defaultToConsole CLI 与 serve 默认输出到控制台
	defaultToConsole = true

	// defaultFilePath 为空表示不写文件
	defaultFilePath = ""

	// 轮转：单文件 50MB，保留 5 个，保留 14 天
	defaultMaxSize    = 50
	defaultMaxBackups = 5
	defaultMaxAge     = 14
	defaultCompress   = true

	defaultEnableCaller     = false
	defaultEnableStacktrace = true

	// defaultEnableMultiFile 写文件时按 module 字段拆分系统日志与业务日志
	defaultEnableMultiFile = true

	defaultSystemLogFile   = "client-system.log"
	defaultBusinessLogFile = "client-business.log"
)

// 默认的日志级别映射
var defaultLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"panic": zapcore.PanicLevel,
	"fatal": zapcore.FatalLevel,
}
