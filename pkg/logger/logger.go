package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/zfogg/socialcommerce/cli/pkg/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *log.Logger
var rotator *lumberjack.Logger

// Init initializes the logger
func Init(verbose bool) {
	logLevel := parseLevel(config.GetString("log.level"))
	if verbose {
		logLevel = log.DebugLevel
	}

	var out io.Writer = os.Stderr
	if logFile := config.GetString("log.file"); logFile != "" {
		// Probe the file so an unwritable path falls back to stderr
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err == nil {
			f.Close()
			rotator = &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    config.GetInt("log.max_size_mb"),
				MaxBackups: config.GetInt("log.max_backups"),
				Compress:   true,
			}
			out = rotator
		}
	}

	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           logLevel,
	})
}

// SetOutput replaces the logger with one writing to w, used by tests.
func SetOutput(w io.Writer, level log.Level) {
	logger = log.NewWithOptions(w, log.Options{Level: level})
}

// Close flushes and closes the rotating log file.
func Close() error {
	if rotator != nil {
		return rotator.Close()
	}
	return nil
}

// parseLevel maps log.level onto a charmbracelet level, info when unknown
func parseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...interface{}) {
	if logger != nil {
		logger.Fatal(msg, args...)
	} else {
		os.Exit(1)
	}
}

// GetLogger returns the logger instance
func GetLogger() *log.Logger {
	return logger
}
