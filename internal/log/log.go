// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package log builds the daemon logger.
package log

import (
	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	"github.com/black-desk/lib/go/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns the logger named name.
// When cfg sets a file, JSON logs are written there and rotated,
// otherwise the default logger of the system is used.
// closer flushes and closes the log file.
func New(name string, cfg *config.Log) (ret *zap.SugaredLogger, closer func() error) {
	if cfg == nil || cfg.File == "" {
		ret = logger.Get(name)
		closer = func() error { return nil }
		return
	}

	sink := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(sink),
		zap.NewAtomicLevelAt(defaultLevel),
	)

	l := zap.New(core, zap.AddCaller()).Named(name)

	ret = l.Sugar()
	closer = func() error {
		_ = l.Sync()
		return sink.Close()
	}
	return
}
