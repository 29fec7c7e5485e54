package logger

import (
	"go.uber.org/zap"
)

// LoggerAdapter bundles the console logger with the categorized file
// loggers so callers can take one dependency.
type LoggerAdapter struct {
	console *zap.Logger
	multi   *MultiLogger
}

// NewLoggerAdapter creates an adapter over a console logger and a
// multi-logger. multi may be nil; category accessors then fall back to the
// console logger.
func NewLoggerAdapter(console *zap.Logger, multi *MultiLogger) *LoggerAdapter {
	if console == nil {
		console = zap.NewNop()
	}
	return &LoggerAdapter{console: console, multi: multi}
}

// Run returns the run-category logger
func (la *LoggerAdapter) Run() *zap.Logger {
	if la.multi != nil {
		return la.multi.Run()
	}
	return la.console
}

// Error returns the error-category logger
func (la *LoggerAdapter) Error() *zap.Logger {
	if la.multi != nil {
		return la.multi.Error()
	}
	return la.console
}

// LogError logs to both the error category and the console
func (la *LoggerAdapter) LogError(msg string, fields ...zap.Field) {
	if la.multi != nil {
		la.multi.LogAppError(msg, fields...)
	}
	la.console.Error(msg, fields...)
}

// GetSingleLogger returns the console logger
func (la *LoggerAdapter) GetSingleLogger() *zap.Logger {
	return la.console
}

// GetMultiLogger returns the underlying multi-logger (may be nil)
func (la *LoggerAdapter) GetMultiLogger() *MultiLogger {
	return la.multi
}

// Sync flushes all loggers
func (la *LoggerAdapter) Sync() error {
	err := la.console.Sync()
	if la.multi != nil {
		if merr := la.multi.Sync(); merr != nil {
			err = merr
		}
	}
	return err
}
