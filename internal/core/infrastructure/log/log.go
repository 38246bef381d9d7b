// Package log 提供基于 zap 的日志实现
// 支持控制台/文件输出、lumberjack 轮转，以及按 module 字段拆分系统日志与业务日志
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	logconfig "github.com/fetchoracle/telliot-core-alt/internal/config/log"
	logInterface "github.com/fetchoracle/telliot-core-alt/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 日志级别定义
const (
	DebugLevel = string(logInterface.DebugLevel)
	InfoLevel  = string(logInterface.InfoLevel)
	WarnLevel  = string(logInterface.WarnLevel)
	ErrorLevel = string(logInterface.ErrorLevel)
	FatalLevel = string(logInterface.FatalLevel)
)

// 模块名，日志中的 module 字段
const (
	ModuleTransport = "transport"
	ModuleDirectory = "directory"
	ModuleConfig    = "config"
	ModuleInfra     = "infra"

	ModuleBinding = "binding"
	ModuleFeed    = "feed"
	ModuleAPI     = "api"
	ModuleCLI     = "cli"
)

var (
	globalLogger logInterface.Logger
	mu           sync.RWMutex
)

// Logger 是日志记录器的结构体，实现了log.Logger接口
type Logger struct {
	zapLogger *zap.Logger
	sugar     *zap.SugaredLogger
}

func init() {
	ResetDefault()
}

// ResetDefault 重置全局日志记录器为默认配置
func ResetDefault() {
	logger, err := New(logconfig.New(nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize default logger: %v\n", err)
		return
	}
	SetLogger(logger)
}

// moduleRoutingCore 基于 module 字段的路由 Core
// 根据日志中的 module 字段决定写入 system.log 还是 business.log
type moduleRoutingCore struct {
	systemCore   zapcore.Core
	businessCore zapcore.Core
	fallbackCore zapcore.Core // 没有 module 字段时的默认 core
	module       string       // 通过 With 绑定的 module
}

func (c *moduleRoutingCore) Enabled(level zapcore.Level) bool {
	return c.systemCore.Enabled(level) || c.businessCore.Enabled(level) || c.fallbackCore.Enabled(level)
}

// With 绑定字段时记住 module，后续 Write 的字段里不会再出现它
func (c *moduleRoutingCore) With(fields []zapcore.Field) zapcore.Core {
	module := c.module
	if m := moduleOf(fields); m != "" {
		module = m
	}
	return &moduleRoutingCore{
		systemCore:   c.systemCore.With(fields),
		businessCore: c.businessCore.With(fields),
		fallbackCore: c.fallbackCore.With(fields),
		module:       module,
	}
}

// Check 在 Check 阶段拿不到字段，实际路由在 Write 中进行
func (c *moduleRoutingCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *moduleRoutingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	module := moduleOf(fields)
	if module == "" {
		module = c.module
	}
	switch {
	case isSystemModule(module):
		return c.systemCore.Write(entry, fields)
	case isBusinessModule(module):
		return c.businessCore.Write(entry, fields)
	default:
		return c.fallbackCore.Write(entry, fields)
	}
}

func (c *moduleRoutingCore) Sync() error {
	var errs []error
	for _, core := range []zapcore.Core{c.systemCore, c.businessCore, c.fallbackCore} {
		if err := core.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("sync log files: %v", errs)
	}
	return nil
}

// moduleOf 取出 module 字段
// zap.String 写入 field.String，zap.Any 可能放在 Interface 中
func moduleOf(fields []zapcore.Field) string {
	for _, field := range fields {
		if field.Key != "module" {
			continue
		}
		switch field.Type {
		case zapcore.StringType:
			return field.String
		case zapcore.StringerType:
			if s, ok := field.Interface.(fmt.Stringer); ok && s != nil {
				return s.String()
			}
		default:
			if str, ok := field.Interface.(string); ok {
				return str
			}
		}
	}
	return ""
}

// isSystemModule 基础设施：传输、目录、配置
func isSystemModule(module string) bool {
	switch module {
	case ModuleTransport, ModuleDirectory, ModuleConfig, ModuleInfra:
		return true
	}
	return false
}

// isBusinessModule 业务：合约绑定、行情、API、CLI
func isBusinessModule(module string) bool {
	switch module {
	case ModuleBinding, ModuleFeed, ModuleAPI, ModuleCLI:
		return true
	}
	return false
}

// createFileWriter 创建日志文件写入器
func createFileWriter(logPath string, config *logconfig.Config) zapcore.WriteSyncer {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "创建日志目录失败 %s: %v\n", logDir, err)
		return zapcore.AddSync(os.Stderr)
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    config.GetMaxSize(),
		MaxBackups: config.GetMaxBackups(),
		MaxAge:     config.GetMaxAge(),
		Compress:   config.IsCompressionEnabled(),
	})
}

// New 根据配置创建新的日志记录器
func New(config *logconfig.Config) (logInterface.Logger, error) {
	level := zap.NewAtomicLevelAt(config.GetZapLevel())
	var cores []zapcore.Core

	if config.IsConsoleEnabled() {
		output := zapcore.AddSync(os.Stdout)
		if config.IsStderrConsole() {
			output = zapcore.AddSync(os.Stderr)
		}
		cores = append(cores, zapcore.NewCore(config.CreateConsoleEncoder(), output, level))
	}

	if path := config.GetFilePath(); path != "" {
		fileCore, err := newFileCore(path, config, level)
		if err != nil {
			return nil, err
		}
		cores = append(cores, fileCore)
	}

	var zapOptions []zap.Option
	if config.IsCallerEnabled() {
		// 跳过一层封装，使调用位置指向业务代码
		zapOptions = append(zapOptions, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if config.IsStacktraceEnabled() {
		zapOptions = append(zapOptions, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	zapLogger := zap.New(zapcore.NewTee(cores...), zapOptions...)
	return &Logger{zapLogger: zapLogger, sugar: zapLogger.Sugar()}, nil
}

// newFileCore 单文件或 system/business 双文件
func newFileCore(path string, config *logconfig.Config, level zap.AtomicLevel) (zapcore.Core, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("获取日志文件绝对路径失败: %w", err)
	}
	encoder := config.CreateFileEncoder()

	if !config.IsMultiFileEnabled() {
		return zapcore.NewCore(encoder, createFileWriter(absPath, config), level), nil
	}

	logDir := config.GetLogDir()
	if logDir == "" {
		logDir = filepath.Dir(absPath)
	}
	systemCore := zapcore.NewCore(encoder, createFileWriter(filepath.Join(logDir, config.GetSystemLogFile()), config), level)
	businessCore := zapcore.NewCore(encoder, createFileWriter(filepath.Join(logDir, config.GetBusinessLogFile()), config), level)
	return &moduleRoutingCore{
		systemCore:   systemCore,
		businessCore: businessCore,
		fallbackCore: zapcore.NewTee(systemCore, businessCore),
	}, nil
}

// NewNop 丢弃所有输出的日志记录器，供测试与未注入日志的组件使用
func NewNop() logInterface.Logger {
	z := zap.NewNop()
	return &Logger{zapLogger: z, sugar: z.Sugar()}
}

// FromZap 包装已有的 zap.Logger
func FromZap(z *zap.Logger) logInterface.Logger {
	if z == nil {
		return NewNop()
	}
	return &Logger{zapLogger: z, sugar: z.Sugar()}
}

// GetZapLogger 获取底层的zap日志记录器
func (l *Logger) GetZapLogger() *zap.Logger {
	return l.zapLogger
}

// SetLogger 设置全局日志记录器
func SetLogger(logger logInterface.Logger) {
	if logger == nil {
		return
	}
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
}

// GetLogger 获取全局日志记录器
func GetLogger() logInterface.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Debug 记录调试级别的日志
func Debug(msg string) {
	if l := GetLogger(); l != nil {
		l.Debug(msg)
	}
}

// Debugf 使用格式化字符串记录调试级别的日志
func Debugf(format string, args ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Debugf(format, args...)
	}
}

// Info 记录信息级别的日志
func Info(msg string) {
	if l := GetLogger(); l != nil {
		l.Info(msg)
	}
}

// Infof 使用格式化字符串记录信息级别的日志
func Infof(format string, args ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Infof(format, args...)
	}
}

// Warn 记录警告级别的日志
func Warn(msg string) {
	if l := GetLogger(); l != nil {
		l.Warn(msg)
	}
}

// Warnf 使用格式化字符串记录警告级别的日志
func Warnf(format string, args ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Warnf(format, args...)
	}
}

// Error 记录错误级别的日志
func Error(msg string) {
	if l := GetLogger(); l != nil {
		l.Error(msg)
	}
}

// Errorf 使用格式化字符串记录错误级别的日志
func Errorf(format string, args ...interface{}) {
	if l := GetLogger(); l != nil {
		l.Errorf(format, args...)
	}
}

// With 基于全局日志记录器创建带字段的日志记录器
func With(args ...interface{}) logInterface.Logger {
	l := GetLogger()
	if l == nil {
		ResetDefault()
		l = GetLogger()
	}
	return l.With(args...)
}

func (l *Logger) Debug(msg string) { l.sugar.Debug(msg) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

func (l *Logger) Info(msg string) { l.sugar.Info(msg) }

func (l *Logger) Infof(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

func (l *Logger) Warn(msg string) { l.sugar.Warn(msg) }

func (l *Logger) Warnf(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }

func (l *Logger) Error(msg string) { l.sugar.Error(msg) }

func (l *Logger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// Fatal 记录致命级别的日志，然后退出程序
func (l *Logger) Fatal(msg string) { l.sugar.Fatal(msg) }

// Fatalf 使用格式化字符串记录致命级别的日志，然后退出程序
func (l *Logger) Fatalf(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

// With 返回一个带有额外字段的Logger
// 参数按键值对提供：key1, value1, key2, value2, ...
func (l *Logger) With(args ...interface{}) logInterface.Logger {
	sugar := l.sugar.With(args...)
	return &Logger{zapLogger: sugar.Desugar(), sugar: sugar}
}

// Sync 同步日志缓冲区到输出
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}
