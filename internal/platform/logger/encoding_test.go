package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestColoredConsoleEncoder_KeepsMetadata(t *testing.T) {
	enc := NewColoredConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	buf, err := enc.EncodeEntry(zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Message: "dispatched",
	}, []zapcore.Field{zap.String("provider", "openai")})
	require.NoError(t, err)

	line := buf.String()
	assert.Contains(t, line, "dispatched")
	assert.Contains(t, line, "provider")
	assert.Contains(t, line, "openai")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}
