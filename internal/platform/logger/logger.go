package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines the configuration for the logger.
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, console
	EnableColor bool   // only honoured in console mode
}

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// DefaultConfig returns a configuration derived from LOG_* environment variables.
func DefaultConfig() Config {
	return Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Format:      getEnv("LOG_FORMAT", "console"),
		EnableColor: shouldEnableColor(true),
	}
}

// Initialize sets up the global logger using the provided configuration.
// Only the first call has any effect.
func Initialize(cfg Config) {
	once.Do(func() {
		globalLogger = build(cfg)
	})
}

func build(cfg Config) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	encoding := cfg.Format
	if encoding != "json" {
		encoding = "console"
		encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		if cfg.EnableColor && shouldEnableColor(cfg.EnableColor) {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
			encoding = coloredConsoleEncoding
		}
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:       false,
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: cfg.Level != "debug",
	}

	l, err := zapConfig.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return l
}

// Get returns the global logger. Initializes with defaults if not already set.
func Get() *zap.Logger {
	Initialize(DefaultConfig())
	return globalLogger
}

func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.ToLower(value)
	}
	return fallback
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// shouldEnableColor checks NO_COLOR (https://no-color.org/) and LOG_COLOR.
func shouldEnableColor(fallback bool) bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	if val := os.Getenv("LOG_COLOR"); val != "" {
		return val == "true" || val == "1"
	}
	return fallback
}
