// Package telemetry wraps zap behind a small facade so every subsystem
// takes an explicit *Logger collaborator (the way betadb.Database holds its
// own *flock.Flock rather than reaching for package state), with a level
// that CONFIG SET log_level can reload live.
package telemetry

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a *zap.Logger with a live-reloadable level.
type Logger struct {
	level zap.AtomicLevel
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// New builds a Logger at the given initial level ("debug", "info", "warn",
// "error"; unrecognized values fall back to "info").
func New(levelName string) (*Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{level: level, base: base, sugar: base.Sugar()}, nil
}

// Named returns a child logger scoped to name, sharing this Logger's level.
func (l *Logger) Named(name string) *Logger {
	return &Logger{level: l.level, base: l.base.Named(name), sugar: l.base.Named(name).Sugar()}
}

// SetLevel reloads the logger's minimum level in place; every Logger
// sharing this AtomicLevel (every Named child) picks it up immediately.
// Backs the live side effect of CONFIG SET log_level.
func (l *Logger) SetLevel(levelName string) error {
	var lv zapcore.Level
	if err := lv.UnmarshalText([]byte(levelName)); err != nil {
		return err
	}
	l.level.SetLevel(lv)
	return nil
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) { l.sugar.Debugw(msg, keysAndValues...) }
func (l *Logger) Info(msg string, keysAndValues ...interface{})  { l.sugar.Infow(msg, keysAndValues...) }
func (l *Logger) Warn(msg string, keysAndValues ...interface{})  { l.sugar.Warnw(msg, keysAndValues...) }
func (l *Logger) Error(msg string, keysAndValues ...interface{}) { l.sugar.Errorw(msg, keysAndValues...) }

// Sync flushes any buffered log entries, called once on shutdown.
func (l *Logger) Sync() error { return l.base.Sync() }
