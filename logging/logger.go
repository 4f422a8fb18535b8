// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logging provides the logger used by disruptor processors and
// worker pools to report handler faults and lifecycle events.
//
// The default logger is powered by go.uber.org/zap. Replace it with any
// implementation of Logger through SetDefaultLogger, or pass a Logger to
// the exception handler constructors directly.
//
// The environment variable DISRUPTOR_LOGGING_LEVEL sets the zap level as an
// integer (-1 debug, 0 info, 1 warn, 2 error, ...). The environment
// variable DISRUPTOR_LOGGING_FILE redirects output to a rotating local file.
package logging

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Flusher flushes buffered log entries to the underlying writer.
type Flusher = func() error

// Level is the alias of zapcore.Level.
type Level = zapcore.Level

const (
	// DebugLevel logs are typically voluminous, and are usually disabled in
	// production.
	DebugLevel = zapcore.DebugLevel
	// InfoLevel is the default logging priority.
	InfoLevel = zapcore.InfoLevel
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel = zapcore.WarnLevel
	// ErrorLevel logs are high-priority.
	ErrorLevel = zapcore.ErrorLevel
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel = zapcore.FatalLevel
)

var (
	mu                  sync.RWMutex
	defaultLogger       Logger
	defaultFlusher      Flusher
	defaultLoggingLevel Level
)

func init() {
	if lvl := os.Getenv("DISRUPTOR_LOGGING_LEVEL"); len(lvl) > 0 {
		loggingLevel, err := strconv.ParseInt(lvl, 10, 8)
		if err != nil {
			panic("invalid DISRUPTOR_LOGGING_LEVEL, " + err.Error())
		}
		defaultLoggingLevel = Level(loggingLevel)
	}

	if fileName := os.Getenv("DISRUPTOR_LOGGING_FILE"); len(fileName) > 0 {
		var err error
		defaultLogger, defaultFlusher, err = CreateLoggerAsLocalFile(fileName, defaultLoggingLevel)
		if err != nil {
			panic("invalid DISRUPTOR_LOGGING_FILE, " + err.Error())
		}
		return
	}

	core := zapcore.NewCore(getEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(os.Stdout), defaultLoggingLevel)
	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(ErrorLevel),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	defaultLogger = zapLogger.Sugar().Named("disruptor")
	defaultFlusher = zapLogger.Sync
}

func getEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// GetDefaultLogger returns the default logger.
func GetDefaultLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the default logger and its flusher.
// A nil flusher is allowed.
func SetDefaultLogger(logger Logger, flusher Flusher) {
	mu.Lock()
	defaultLogger, defaultFlusher = logger, flusher
	mu.Unlock()
}

// LogLevel tells what the default logging level is.
func LogLevel() string {
	return defaultLoggingLevel.String()
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(l *zap.Logger) Logger {
	return l.Sugar()
}

// CreateLoggerAsLocalFile sets up a logger writing to a rotating local file.
func CreateLoggerAsLocalFile(localFilePath string, logLevel Level) (logger Logger, flush Flusher, err error) {
	if len(localFilePath) == 0 {
		return nil, nil, errors.New("invalid local logger path")
	}

	// lumberjack.Logger is already safe for concurrent use, so we don't need to lock it.
	lumberJackLogger := &lumberjack.Logger{
		Filename:   localFilePath,
		MaxSize:    100, // megabytes
		MaxBackups: 2,
		MaxAge:     15, // days
	}

	encoder := getEncoder(zap.NewProductionEncoderConfig())
	ws := zapcore.AddSync(lumberJackLogger)
	levelEnabler := zap.LevelEnablerFunc(func(level Level) bool {
		return level >= logLevel
	})
	core := zapcore.NewCore(encoder, ws, levelEnabler)
	zapLogger := zap.New(core, zap.AddCaller())
	logger = zapLogger.Sugar().Named("disruptor")
	flush = zapLogger.Sync
	return
}

// Cleanup flushes the default logger.
func Cleanup() {
	mu.RLock()
	flush := defaultFlusher
	mu.RUnlock()
	if flush != nil {
		_ = flush()
	}
}

// Error prints err if it's not nil.
func Error(err error) {
	if err != nil {
		GetDefaultLogger().Errorf("error occurs during runtime, %v", err)
	}
}

// Debugf logs messages at DEBUG level.
func Debugf(format string, args ...any) {
	GetDefaultLogger().Debugf(format, args...)
}

// Infof logs messages at INFO level.
func Infof(format string, args ...any) {
	GetDefaultLogger().Infof(format, args...)
}

// Warnf logs messages at WARN level.
func Warnf(format string, args ...any) {
	GetDefaultLogger().Warnf(format, args...)
}

// Errorf logs messages at ERROR level.
func Errorf(format string, args ...any) {
	GetDefaultLogger().Errorf(format, args...)
}

// Logger is used for logging formatted messages.
type Logger interface {
	// Debugf logs messages at DEBUG level.
	Debugf(format string, args ...any)
	// Infof logs messages at INFO level.
	Infof(format string, args ...any)
	// Warnf logs messages at WARN level.
	Warnf(format string, args ...any)
	// Errorf logs messages at ERROR level.
	Errorf(format string, args ...any)
	// Fatalf logs messages at FATAL level.
	Fatalf(format string, args ...any)
}
