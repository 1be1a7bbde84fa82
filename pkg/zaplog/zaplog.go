// Package zaplog backs the shared logging.Logger interface with zap.
//
// Components log through github.com/RyanBlaney/latency-benchmark-common/logging
// and never import zap. Configure installs a zap logger as the global logger
// of that package, so logging.WithFields and friends write through zap.
package zaplog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configure the process wide logger
type Options struct {
	// Level is the minimum level written
	Level logging.Level
	// Format is "console" or "json"
	Format string
	// Out is a file path, or "stderr"/"stdout". Empty means stderr.
	Out string
}

// contextFieldsKey is the context key the shared logging package reads
// fields from in WithContext
const contextFieldsKey = "logger_fields"

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

func init() {
	logging.SetGlobalLogger(New(zap.New(newCore("console", zapcore.Lock(os.Stderr)))))
}

func newCore(format string, out zapcore.WriteSyncer) zapcore.Core {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewCore(encoder, out, level)
}

// Configure builds a zap logger from opts and installs it as the global
// logger
func Configure(opts Options) error {
	var out zapcore.WriteSyncer
	switch opts.Out {
	case "", "stderr":
		out = zapcore.Lock(os.Stderr)
	case "stdout":
		out = zapcore.Lock(os.Stdout)
	default:
		file, err := os.OpenFile(opts.Out, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log output: %w", err)
		}
		out = zapcore.Lock(file)
	}

	format := strings.ToLower(opts.Format)
	if format != "" && format != "console" && format != "json" {
		return fmt.Errorf("unsupported log format: %s", opts.Format)
	}

	level.SetLevel(toZapLevel(opts.Level))
	logging.SetGlobalLogger(New(zap.New(newCore(format, out))))
	return nil
}

// GetLevel returns the current minimum level
func GetLevel() logging.Level {
	return fromZapLevel(level.Level())
}

// ParseLevel accepts debug, info, warn and error
func ParseLevel(s string) (logging.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logging.DebugLevel, nil
	case "info", "":
		return logging.InfoLevel, nil
	case "warn", "warning":
		return logging.WarnLevel, nil
	case "error":
		return logging.ErrorLevel, nil
	default:
		return logging.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
}

// New wraps an existing zap logger. Tests use it with an observer core.
func New(base *zap.Logger) logging.Logger {
	return &zapLogger{base: base}
}

func toZapLevel(l logging.Level) zapcore.Level {
	switch l {
	case logging.DebugLevel:
		return zapcore.DebugLevel
	case logging.WarnLevel:
		return zapcore.WarnLevel
	case logging.ErrorLevel:
		return zapcore.ErrorLevel
	case logging.FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func fromZapLevel(l zapcore.Level) logging.Level {
	switch l {
	case zapcore.DebugLevel:
		return logging.DebugLevel
	case zapcore.WarnLevel:
		return logging.WarnLevel
	case zapcore.ErrorLevel:
		return logging.ErrorLevel
	case zapcore.FatalLevel:
		return logging.FatalLevel
	default:
		return logging.InfoLevel
	}
}

type zapLogger struct {
	base *zap.Logger
}

func (l *zapLogger) Debug(msg string, fields ...logging.Fields) {
	l.base.Debug(msg, toZap(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...logging.Fields) {
	l.base.Info(msg, toZap(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...logging.Fields) {
	l.base.Warn(msg, toZap(fields)...)
}

func (l *zapLogger) Error(err error, msg string, fields ...logging.Fields) {
	l.base.Error(msg, append(toZap(fields), zap.Error(err))...)
}

func (l *zapLogger) Fatal(err error, msg string, fields ...logging.Fields) {
	l.base.Fatal(msg, append(toZap(fields), zap.Error(err))...)
}

func (l *zapLogger) WithFields(fields logging.Fields) logging.Logger {
	return &zapLogger{base: l.base.With(toZap([]logging.Fields{fields})...)}
}

func (l *zapLogger) WithContext(ctx context.Context) logging.Logger {
	if fields, ok := ctx.Value(contextFieldsKey).(logging.Fields); ok {
		return l.WithFields(fields)
	}
	return l
}

// SetLevel changes the level shared by every zap backed logger
func (l *zapLogger) SetLevel(lvl logging.Level) {
	level.SetLevel(toZapLevel(lvl))
}

// toZap flattens field maps in key order so output is stable
func toZap(sets []logging.Fields) []zap.Field {
	var out []zap.Field
	for _, fields := range sets {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, zap.Any(k, fields[k]))
		}
	}
	return out
}
