// ABOUTME: Logrus-backed implementation of the core Logger interface
// ABOUTME: Supports JSON/text formatting, level selection and optional rotating file output

package logrus

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger backend
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values fall back to info.
	Level string

	// Format is "json" or "text"
	Format string

	// File enables rotating file output in addition to the console when non-empty
	File string

	// Output is the console destination, stdout when nil
	Output io.Writer
}

// Logger implements interfaces.Logger on top of logrus
type Logger struct {
	entry *logrus.Logger
}

// New creates a logger from the given options
func New(opts Options) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(opts.Format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	var console io.Writer = os.Stdout
	if opts.Output != nil {
		console = opts.Output
	}

	if opts.File != "" {
		l.SetOutput(io.MultiWriter(console, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}))
	} else {
		l.SetOutput(console)
	}

	return &Logger{entry: l}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.with(fields).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.with(fields).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.with(fields).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.with(fields).Error(msg)
}

func (l *Logger) with(fields map[string]interface{}) *logrus.Entry {
	if len(fields) == 0 {
		return logrus.NewEntry(l.entry)
	}
	return l.entry.WithFields(logrus.Fields(fields))
}
