// Package logging builds the application logger. Components log through the
// ectologger interface; the sink serializes each message and hands it to zap.
package logging

import (
	"encoding/json"
	"strings"

	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the application logger. The returned flush func should be
// deferred in main.
func New(logLevel string, prettyLogs bool) (ectologger.Logger, func() error, error) {
	var zcfg zap.Config
	if prettyLogs {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	if lvl, err := zapcore.ParseLevel(logLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	zlog, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, nil, err
	}

	logger := ectologger.NewEctoLogger(func(m ectologger.EctoLogMessage) {
		emit(zlog, m)
	})
	return logger, zlog.Sync, nil
}

// Noop returns a logger that discards everything. Used in tests.
func Noop() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func emit(zlog *zap.Logger, m ectologger.EctoLogMessage) {
	b, err := json.Marshal(m)
	if err != nil {
		zlog.Error("unloggable message")
		return
	}

	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		zlog.Info(string(b))
		return
	}

	msg, _ := stringField(fields, "message", "msg")
	level, _ := stringField(fields, "level", "severity")
	delete(fields, "message")
	delete(fields, "msg")
	delete(fields, "level")
	delete(fields, "severity")

	zfields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if v == nil {
			continue
		}
		zfields = append(zfields, zap.Any(k, v))
	}

	switch strings.ToLower(level) {
	case "debug":
		zlog.Debug(msg, zfields...)
	case "warn", "warning":
		zlog.Warn(msg, zfields...)
	case "error", "fatal", "panic":
		zlog.Error(msg, zfields...)
	default:
		zlog.Info(msg, zfields...)
	}
}

func stringField(fields map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := fields[k].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
