// Package logging builds the zap logger used by the CLI. Records are rendered as
// "LEVEL:logger:message", for example "INFO:annotation_checker:a.py: Missing ...".
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerName is the name every record is tagged with.
const LoggerName = "annotation_checker"

// ParseLevel accepts INFO or DEBUG in any case.
func ParseLevel(raw string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "INFO":
		return zapcore.InfoLevel, nil
	case "DEBUG":
		return zapcore.DebugLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unsupported log level %q (want INFO or DEBUG)", raw)
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: ":",
		LineEnding:       zapcore.DefaultLineEnding,
	}
}

// New returns a logger writing to w at the given level.
func New(w io.Writer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core).Named(LoggerName)
}
