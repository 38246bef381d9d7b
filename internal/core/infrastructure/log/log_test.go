package log

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	logconfig "github.com/fetchoracle/telliot-core-alt/internal/config/log"
	configtypes "github.com/fetchoracle/telliot-core-alt/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// TestConsoleLog 测试控制台日志
func TestConsoleLog(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	logger, err := New(logconfig.New(&logconfig.LogOptions{Level: InfoLevel, ToConsole: true}))
	require.NoError(t, err)
	logger.Info("测试控制台日志")
	logger.Debug("不应输出的调试日志")
	_ = logger.Sync()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()
	assert.Contains(t, output, "测试控制台日志")
	assert.NotContains(t, output, "不应输出的调试日志")
}

// TestSingleFileLog 测试单文件输出与级别过滤
func TestSingleFileLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "telliot.log")
	logger, err := New(logconfig.New(&logconfig.LogOptions{
		Level:           WarnLevel,
		FilePath:        logPath,
		EnableMultiFile: false,
	}))
	require.NoError(t, err)

	logger.Info("信息日志")
	logger.With("operation", "getStakerInfo").Warn("警告日志")
	logger.Errorf("错误日志 %d", 7)
	require.NoError(t, logger.Sync())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	s := string(content)
	assert.NotContains(t, s, "信息日志")
	assert.Contains(t, s, "警告日志")
	assert.Contains(t, s, `"operation":"getStakerInfo"`)
	assert.Contains(t, s, "错误日志 7")
}

// TestMultiFileRouting 测试按 module 拆分系统日志与业务日志
func TestMultiFileRouting(t *testing.T) {
	dir := t.TempDir()
	cfg := logconfig.New(&configtypes.UserLogConfig{
		Level:    ptr("debug"),
		FilePath: ptr(filepath.Join(dir, "telliot.log")),
	})
	require.False(t, cfg.IsConsoleEnabled(), "指定文件路径时默认关闭控制台")
	require.True(t, cfg.IsMultiFileEnabled())

	logger, err := New(cfg)
	require.NoError(t, err)

	NewModuleLogger(logger, ModuleTransport).Info("rpc dialed")
	NewModuleLogger(logger, ModuleBinding).Info("read ok")
	logger.Info("no module")
	require.NoError(t, logger.Sync())

	system, err := os.ReadFile(filepath.Join(dir, "client-system.log"))
	require.NoError(t, err)
	business, err := os.ReadFile(filepath.Join(dir, "client-business.log"))
	require.NoError(t, err)

	assert.Contains(t, string(system), "rpc dialed")
	assert.NotContains(t, string(system), "read ok")
	assert.Contains(t, string(business), "read ok")
	assert.NotContains(t, string(business), "rpc dialed")
	assert.Contains(t, string(system), "no module")
	assert.Contains(t, string(business), "no module")
}

// TestUserLogConfigOverrides 测试用户配置覆盖默认值
func TestUserLogConfigOverrides(t *testing.T) {
	cfg := logconfig.New(&configtypes.UserLogConfig{
		Level:     ptr("error"),
		ToConsole: ptr(true),
		ToStderr:  ptr(true),
		MaxAge:    ptr(3),
	})
	assert.Equal(t, "error", cfg.GetLevel())
	assert.True(t, cfg.IsConsoleEnabled())
	assert.True(t, cfg.IsStderrConsole())
	assert.Equal(t, 3, cfg.GetMaxAge())
	assert.Equal(t, "client-system.log", cfg.GetSystemLogFile())

	unknown := logconfig.New(&logconfig.LogOptions{Level: "verbose"})
	assert.Equal(t, "info", unknown.GetZapLevel().String())
}

// TestGlobalLogger 测试全局日志器与 Nop 日志器
func TestGlobalLogger(t *testing.T) {
	old := GetLogger()
	defer SetLogger(old)

	nop := NewNop()
	SetLogger(nop)
	assert.Same(t, nop, GetLogger())
	Info("discarded")
	Warnf("discarded %s", "too")
	assert.NotNil(t, With("k", "v"))

	SetLogger(nil)
	assert.Same(t, nop, GetLogger(), "nil 不会覆盖全局日志器")
	assert.NotNil(t, FromZap(nil).GetZapLogger())
}
