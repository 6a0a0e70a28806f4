package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps the --log-level flag onto a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, errors.Errorf("unknown log level %q (expected debug, info, warn, or error)", level)
	}
}

// New returns a console logger writing to stderr. The wrapper tool captures
// stderr into a log file, so nothing else is configured here.
func New(level string) (*zap.Logger, zap.AtomicLevel, error) {
	return NewWithWriter(level, os.Stderr)
}

func NewWithWriter(level string, w io.Writer) (*zap.Logger, zap.AtomicLevel, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	atomic := zap.NewAtomicLevelAt(lvl)
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		atomic,
	)
	return zap.New(core), atomic, nil
}

// FilePattern names the temp files cmd/wrapper captures plugin output into.
const FilePattern = "obs-dynamic-path.*.log"
