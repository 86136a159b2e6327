// Package lexidexlog sets up the engine's zap logger: JSON to stdout,
// plus optional rotating file output via lumberjack, mirroring the
// logging setup conventions this module's teacher corpus uses
// (SPEC_FULL.md §4.12).
package lexidexlog

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/nnev/lexidex/config"
)

// Setup builds the process logger from cfg. If cfg.File is empty, only
// the stdout core is used. If cfg.Rotation is set, the file core writes
// through lumberjack instead of a plain append-only file.
func Setup(cfg config.LoggerConfig) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})

	stdoutCore := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	cores := []zapcore.Core{stdoutCore}

	if cfg.File != "" {
		fileCore, err := fileCore(encoder, cfg, level)
		if err != nil {
			return nil, err
		}
		cores = append(cores, fileCore)
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return logger, nil
}

func fileCore(encoder zapcore.Encoder, cfg config.LoggerConfig, level zapcore.Level) (zapcore.Core, error) {
	if cfg.Rotation {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxAge:     cfg.MaxAgeDays,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
			Compress:   cfg.Compress,
		})
		return zapcore.NewCore(encoder, sink, level), nil
	}

	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return zapcore.NewCore(encoder, zapcore.Lock(f), level), nil
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return 0, &invalidLevelError{s}
	}
}

type invalidLevelError struct{ level string }

func (e *invalidLevelError) Error() string {
	return "lexidexlog: invalid level " + e.level + ", must be one of debug, info, warn, error"
}
