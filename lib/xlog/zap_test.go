package xlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func memOut(t *testing.T) *bytes.Buffer {
	buf := &bytes.Buffer{}
	writerMap[testMemAsOut] = zapcore.AddSync(buf)
	t.Cleanup(func() {
		delete(writerMap, testMemAsOut)
	})
	return buf
}

func TestXLogger_JSON(t *testing.T) {
	buf := memOut(t)
	logger := NewXLogger(
		WithXLoggerWriter(testMemAsOut),
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(LogLevelInfo),
	)
	logger.Debug("hidden")
	logger.Info("visible", zap.Int64("size", 3))
	logger.Error(errors.New("boom"), "failed")
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	entry := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "INFO", entry["lvl"])
	require.Equal(t, "visible", entry["msg"])
	require.Equal(t, float64(3), entry["size"])

	entry = map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	require.Equal(t, "boom", entry["error"])
}

func TestXLogger_IncreaseLevelAndNamed(t *testing.T) {
	buf := memOut(t)
	logger := NewXLogger(
		WithXLoggerWriter(testMemAsOut),
		WithXLoggerEncoder(PlainText),
		WithXLoggerLevel(LogLevelDebug),
	)
	require.Equal(t, zapcore.DebugLevel, logger.Level())

	named := logger.Named("xtree")
	named.Debug("from child")
	require.Contains(t, buf.String(), "xtree")
	require.Contains(t, buf.String(), "from child")

	buf.Reset()
	logger.IncreaseLogLevel(zapcore.WarnLevel)
	require.Equal(t, zapcore.WarnLevel, logger.Level())
	logger.Info("dropped")
	logger.Logf(zapcore.WarnLevel, "kept %d", 1)
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "kept 1")
}

func TestXLogger_Options(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(_writerMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})

	testcases := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.want, getLogLevelOrDefault(tc.in))
	}
}

func TestNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	logger.Info("nothing")
	logger.Error(errors.New("nothing"), "nothing")
	require.NoError(t, logger.Sync())
	require.NotNil(t, logger.Named("child"))
}
