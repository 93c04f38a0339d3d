package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()

	// Set output to stdout
	Logger.SetOutput(os.Stdout)
	Logger.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))

	// Set JSON formatter for structured logging
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}

// Options controls the process-wide logger.
type Options struct {
	Level string
	// Dir enables a rotating api.log in this directory when non-empty.
	Dir string
}

// Configure applies opts. The returned closer flushes the rotating file.
func Configure(opts Options) (io.Closer, error) {
	Logger.SetLevel(parseLevel(opts.Level))
	if opts.Dir == "" {
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, err
	}
	file := &lumberjack.Logger{
		Filename:  filepath.Join(opts.Dir, "api.log"),
		MaxSize:   100, // megabytes
		MaxAge:    7,   // days
		LocalTime: true,
		Compress:  true,
	}
	Logger.SetOutput(io.MultiWriter(os.Stdout, file))
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// WithFields creates a new entry with the given fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithField creates a new entry with a single field
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithError creates a new entry with an error field
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}

// Info logs an info message
func Info(msg string) {
	Logger.Info(msg)
}

// Warn logs a warning message
func Warn(msg string) {
	Logger.Warn(msg)
}
