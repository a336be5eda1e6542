package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{Zap: zap.New(core)}, logs
}

func TestInfo_EmitsFields(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)

	log.Info("product created", nil, map[string]interface{}{
		"product_id": int64(42),
		"code":       "LAP-001",
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "product created", entry.Message)

	fields := entry.ContextMap()
	assert.EqualValues(t, 42, fields["product_id"])
	assert.Equal(t, "LAP-001", fields["code"])
}

func TestError_AttachesError(t *testing.T) {
	log, logs := observedLogger(zapcore.ErrorLevel)

	log.Error("sync failed", errors.New("connection refused"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "connection refused", fields["error"])
}

func TestConvertToZapFields_LaterMapWins(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)

	log.Info("merge", nil,
		map[string]interface{}{"key": "first"},
		map[string]interface{}{"key": "second"},
	)

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "second", fields["key"])
}

func TestDebug_SuppressedBelowLevel(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)

	log.Debug("noise", nil)

	assert.Zero(t, logs.Len())
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SERVICE_NAME", "")

	cfg := NewConfig()
	assert.Equal(t, Info, cfg.Level)
	assert.Equal(t, "inventario", cfg.ServiceName)
}
