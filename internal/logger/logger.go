// Package logger builds the zap loggers used across proctab.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"io"
	"os"
	"sync/atomic"
)

var (
	debugEnabled atomic.Bool
	std          atomic.Pointer[zap.Logger]
)

func init() {
	std.Store(New(os.Stderr))
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		CallerKey:        "caller",
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		ConsoleSeparator: " ",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.LowercaseLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
	}
}

// switchLevel enables debug entries only while debug is switched on.
type switchLevel struct{}

func (switchLevel) Enabled(level zapcore.Level) bool {
	if level == zapcore.DebugLevel {
		return debugEnabled.Load()
	}
	return true
}

// New returns a console logger writing to w.
func New(w io.Writer) *zap.Logger {
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(w), switchLevel{}))
}

// Default returns the process-wide logger.
func Default() *zap.Logger {
	return std.Load()
}

// SetDefault replaces the process-wide logger; nil is ignored.
func SetDefault(l *zap.Logger) {
	if l != nil {
		std.Store(l)
	}
}

// SetDebug switches debug entries on or off for every logger built by New.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

func IsDebugEnabled() bool {
	return debugEnabled.Load()
}

func Debugw(msg string, keysAndValues ...interface{}) {
	Default().Sugar().Debugw(msg, keysAndValues...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	Default().Sugar().Infow(msg, keysAndValues...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	Default().Sugar().Warnw(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	Default().Sugar().Errorw(msg, keysAndValues...)
}
