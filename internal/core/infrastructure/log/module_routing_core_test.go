package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestModuleRoutingCore_RoutesByModuleField(t *testing.T) {
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{MessageKey: "message", LevelKey: "level"})

	var sysBuf, bizBuf, fbBuf bytes.Buffer
	core := &moduleRoutingCore{
		systemCore:   zapcore.NewCore(enc, zapcore.AddSync(&sysBuf), zapcore.DebugLevel),
		businessCore: zapcore.NewCore(enc, zapcore.AddSync(&bizBuf), zapcore.DebugLevel),
		fallbackCore: zapcore.NewCore(enc, zapcore.AddSync(&fbBuf), zapcore.DebugLevel),
	}
	entry := zapcore.Entry{Message: "hello", Level: zapcore.InfoLevel}

	require.NoError(t, core.Write(entry, []zapcore.Field{zap.String("module", ModuleDirectory)}))
	assert.NotZero(t, sysBuf.Len())
	assert.Zero(t, bizBuf.Len())
	sysBuf.Reset()

	require.NoError(t, core.Write(entry, []zapcore.Field{zap.String("module", ModuleFeed)}))
	assert.NotZero(t, bizBuf.Len())
	assert.Zero(t, sysBuf.Len())
	bizBuf.Reset()

	require.NoError(t, core.Write(entry, []zapcore.Field{zap.Any("module", "unknown")}))
	assert.NotZero(t, fbBuf.Len())
	assert.Zero(t, sysBuf.Len()+bizBuf.Len())
}
