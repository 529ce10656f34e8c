// Package log provides the leveled logger shared by all packages.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level names accepted by SetLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Default is a console-encoded sugared zap logger. Replace it to route
// diagnostics elsewhere.
var Default = newLogger()

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg),
			zapcore.AddSync(os.Stderr),
			zapLevel,
		),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
	).Sugar()
}

// SetLevel sets the minimum level emitted by the default logger.
// Unknown names leave the level unchanged.
func SetLevel(level string) {
	switch level {
	case LevelDebug:
		zapLevel.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		zapLevel.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	}
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { Default.Infof(format, args...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) { Default.Warnf(format, args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }
