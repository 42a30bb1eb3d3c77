package main

import (
	"io"

	"autopilot/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// buildLogger logs to stderr (debug when verbose, warnings otherwise) and,
// when a log file is configured, JSON at debug level to a rotating file.
func buildLogger(cfg config.Config, stderr io.Writer) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	encoderCfg := zap.NewProductionEncoderConfig()
	if cfg.Verbose {
		level = zapcore.DebugLevel
		encoderCfg = zap.NewDevelopmentEncoderConfig()
	}
	if cfg.Quiet {
		level = zapcore.ErrorLevel
	}
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(stderr), level),
	}

	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		fileEncoder := zap.NewProductionEncoderConfig()
		fileEncoder.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), zapcore.AddSync(rotator), zapcore.DebugLevel))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
