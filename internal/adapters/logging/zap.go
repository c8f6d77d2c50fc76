package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/artexis10/endstate/internal/ports"
)

// ZapLogger backs ports.Logger with go.uber.org/zap, the structured
// logger arkeep-io/arkeep wires into both its server and its agent.
// The teacher's own ConsoleLogger is kept as the zero-dependency default
// for tests and the CLI's plain-text mode; ZapLogger is the production
// wiring for hosts that want structured, leveled, sampled output.
type ZapLogger struct {
	l      *zap.Logger
	level  *zap.AtomicLevel
	fields []ports.Field
}

// NewZapLogger creates a ZapLogger. jsonFormat selects zap's production
// JSON encoder; otherwise zap's development console encoder (plain,
// uncolored level names) is used.
func NewZapLogger(jsonFormat bool) (*ZapLogger, error) {
	atomic := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	cfg := zap.NewProductionConfig()
	if !jsonFormat {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = atomic

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{l: zl, level: &atomic}, nil
}

func toZapFields(fields []ports.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

// Debug logs at debug level.
func (z *ZapLogger) Debug(_ context.Context, msg string, fields ...ports.Field) {
	z.l.Debug(msg, toZapFields(append(z.fields, fields...))...)
}

// Info logs at info level.
func (z *ZapLogger) Info(_ context.Context, msg string, fields ...ports.Field) {
	z.l.Info(msg, toZapFields(append(z.fields, fields...))...)
}

// Warn logs at warn level.
func (z *ZapLogger) Warn(_ context.Context, msg string, fields ...ports.Field) {
	z.l.Warn(msg, toZapFields(append(z.fields, fields...))...)
}

// Error logs at error level.
func (z *ZapLogger) Error(_ context.Context, msg string, fields ...ports.Field) {
	z.l.Error(msg, toZapFields(append(z.fields, fields...))...)
}

// With returns a logger carrying additional fields on every subsequent call.
func (z *ZapLogger) With(fields ...ports.Field) ports.Logger {
	merged := make([]ports.Field, 0, len(z.fields)+len(fields))
	merged = append(merged, z.fields...)
	merged = append(merged, fields...)
	return &ZapLogger{l: z.l, level: z.level, fields: merged}
}

// Level returns the current minimum level.
func (z *ZapLogger) Level() ports.Level {
	switch z.level.Level() {
	case zapcore.DebugLevel:
		return ports.LevelDebug
	case zapcore.WarnLevel:
		return ports.LevelWarn
	case zapcore.ErrorLevel:
		return ports.LevelError
	default:
		return ports.LevelInfo
	}
}

// SetLevel sets the minimum level dynamically (zap's AtomicLevel allows
// this without rebuilding the logger).
func (z *ZapLogger) SetLevel(level ports.Level) {
	switch level {
	case ports.LevelDebug:
		z.level.SetLevel(zapcore.DebugLevel)
	case ports.LevelWarn:
		z.level.SetLevel(zapcore.WarnLevel)
	case ports.LevelError:
		z.level.SetLevel(zapcore.ErrorLevel)
	default:
		z.level.SetLevel(zapcore.InfoLevel)
	}
}

// Sync flushes any buffered log entries.
func (z *ZapLogger) Sync() error {
	return z.l.Sync()
}

var _ ports.Logger = (*ZapLogger)(nil)
