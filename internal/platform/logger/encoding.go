package logger

import (
	"strings"

	"github.com/ruizTechServices/new-main-1/internal/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const coloredConsoleEncoding = "colored-console"

var bufferPool = buffer.NewPool()

func init() {
	if err := zap.RegisterEncoder(coloredConsoleEncoding, func(cfg zapcore.EncoderConfig) (zapcore.Encoder, error) {
		return NewColoredConsoleEncoder(cfg), nil
	}); err != nil {
		panic(err)
	}
}

// coloredConsoleEncoder wraps zap's console encoder and highlights the trailing JSON field blob.
type coloredConsoleEncoder struct {
	zapcore.Encoder
}

func NewColoredConsoleEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &coloredConsoleEncoder{
		Encoder: zapcore.NewConsoleEncoder(cfg),
	}
}

func (c *coloredConsoleEncoder) Clone() zapcore.Encoder {
	return &coloredConsoleEncoder{
		Encoder: c.Encoder.Clone(),
	}
}

func (c *coloredConsoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf, err := c.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return nil, err
	}

	// The console encoder separates metadata from the JSON fields with a tab.
	logLine := buf.String()
	splitIdx := strings.Index(logLine, "\t{")
	if splitIdx == -1 {
		return buf, nil
	}

	out := bufferPool.Get()
	out.AppendString(logLine[:splitIdx+1])
	out.AppendString(cli.HighlightJSON(logLine[splitIdx+1:]))
	buf.Free()

	return out, nil
}
