package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const FileName = "sitecheck.log"

type Options struct {
	// Verbose adds a human readable debug stream on stderr next to the file.
	Verbose bool
	Console zapcore.WriteSyncer // defaults to stderr
}

func NewLogger(logDir string) (*zap.Logger, error) {
	return New(logDir, Options{})
}

func New(logDir string, opts Options) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	level := zap.InfoLevel
	if opts.Verbose {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, level)

	if opts.Verbose {
		out := opts.Console
		if out == nil {
			out = zapcore.Lock(os.Stderr)
		}
		ccfg := zap.NewDevelopmentEncoderConfig()
		ccfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core = zapcore.NewTee(core, zapcore.NewCore(zapcore.NewConsoleEncoder(ccfg), out, zap.DebugLevel))
	}
	return zap.New(core), nil
}
