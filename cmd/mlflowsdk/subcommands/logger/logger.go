package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func Null() *zap.Logger {
	return zap.NewNop()
}

// Default builds a human readable logger writing into w.
//
// When verbose is true, debug messages are also written.
func Default(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	conf := zap.NewDevelopmentEncoderConfig()
	conf.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		conf.TimeKey = ""
		conf.CallerKey = ""
		conf.StacktraceKey = ""
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(conf),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core)
}
