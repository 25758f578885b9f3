package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogrusLogger wraps a logrus logger to implement the Logger interface.
type LogrusLogger struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// Options configures a LogrusLogger.
type Options struct {
	Level  string
	Format string // "json" or "text"
	Output io.Writer
}

// NewLogrusLogger creates a new LogrusLogger writing JSON to stdout.
func NewLogrusLogger(level string) *LogrusLogger {
	return NewLogrusLoggerWithOptions(Options{Level: level, Format: "json", Output: os.Stdout})
}

// NewLogrusLoggerWithOptions creates a LogrusLogger with an explicit format and writer.
// The CLI uses the text format on stderr so stdout stays free for CSV output.
func NewLogrusLoggerWithOptions(opts Options) *LogrusLogger {
	logger := logrus.New()
	if opts.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger.SetOutput(opts.Output)

	logLevel, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return &LogrusLogger{
		logger: logger,
		entry:  logrus.NewEntry(logger),
	}
}

func (l *LogrusLogger) with(ctx context.Context, fields map[string]interface{}) *logrus.Entry {
	fields = contextFields(ctx, fields)
	if fields == nil {
		return l.entry.WithContext(ctx)
	}
	return l.entry.WithFields(fields).WithContext(ctx)
}

// Debug logs a debug-level message.
func (l *LogrusLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.with(ctx, fields).Debug(msg)
}

// Info logs an info-level message.
func (l *LogrusLogger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.with(ctx, fields).Info(msg)
}

// Warn logs a warning-level message.
func (l *LogrusLogger) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	l.with(ctx, fields).Warn(msg)
}

// Error logs an error-level message.
func (l *LogrusLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.with(ctx, fields).Error(msg)
}

// WithField returns a new logger with the given field added.
func (l *LogrusLogger) WithField(key string, value interface{}) Logger {
	return &LogrusLogger{
		logger: l.logger,
		entry:  l.entry.WithField(key, value),
	}
}

// WithFields returns a new logger with the given fields added.
func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{
		logger: l.logger,
		entry:  l.entry.WithFields(fields),
	}
}
