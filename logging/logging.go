// Package logging builds the bot's structured logger: severity-tagged
// lines written both to stderr and to a file named for the process's
// start time.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/astrolabio1417/testbot/config"
)

// levelFromString maps the configured severities (trace, debug, info,
// warning, error, critical) onto zap levels.
// "warning" and "critical" aren't zap's native spelling (zap uses "warn"
// and has no "critical" level), so they're remapped onto the nearest
// zap level.
func levelFromString(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "trace", "debug":
		return zapcore.DebugLevel
	case "warning", "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "critical":
		return zapcore.DPanicLevel
	case "info":
		fallthrough
	default:
		return zapcore.InfoLevel
	}
}

// New builds a *zap.Logger that tees to stderr and to a file opened once
// at startup, named with the given start timestamp (for example
// "20060102-150405", already filesystem-safe). Callers pass the timestamp in rather than letting this
// package call time.Now, keeping log setup deterministic and testable.
func New(cfg config.OpsConfig, startTimestamp string) (*zap.Logger, error) {
	level := levelFromString(cfg.LogLevel)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	stderrCore := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)

	logDir := cfg.LogDir
	if logDir == "" {
		logDir = "."
	}
	logPath := filepath.Join(logDir, fmt.Sprintf("bot-%s.log", startTimestamp))
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	fileCore := zapcore.NewCore(encoder, zapcore.AddSync(f), level)

	core := zapcore.NewTee(stderrCore, fileCore)
	return zap.New(core, zap.AddCaller()), nil
}
