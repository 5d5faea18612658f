// Package logging provides structured file logging for jira-intray.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"

	"github.com/cristianoliveira/jira-intray/internal/config"
)

// Logger is the structured logging interface used across the daemon.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, args ...any)
	// Info logs an informational message.
	Info(msg string, args ...any)
	// Warn logs a warning message.
	Warn(msg string, args ...any)
	// Error logs an error message.
	Error(msg string, args ...any)
	// With returns a new logger with additional key-value pairs.
	With(args ...any) Logger
	// Shutdown flushes any buffered logs and releases resources.
	Shutdown() error
}

// Config holds logging configuration.
type Config struct {
	// Enabled determines whether logging is active.
	Enabled bool
	// Level is the minimum log level to record.
	Level string
	// MaxFiles is the maximum number of log files to retain.
	MaxFiles int
	// Component is the name reported in every log record.
	Component string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Enabled:   false,
		Level:     "info",
		MaxFiles:  10,
		Component: filepath.Base(os.Args[0]),
	}
}

// FromGlobalConfig creates a logging Config from the global configuration.
func FromGlobalConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = config.GetBool("logging_enabled", false)
	cfg.Level = config.Get("logging_level", "info")
	cfg.MaxFiles = config.GetInt("logging_max_files", 10)
	if config.GetBool("debug", false) {
		cfg.Level = "debug"
	} else if config.GetBool("quiet", false) {
		cfg.Level = "error"
	}
	return cfg
}

// LogDir returns the directory where log files are stored, creating it
// if necessary. Falls back to the system temp dir when the state dir is
// not writable.
func LogDir() (string, error) {
	stateDir := config.Get("state_dir", "")
	if stateDir != "" {
		logDir := filepath.Join(stateDir, "logs")
		if err := os.MkdirAll(logDir, 0o700); err == nil {
			return logDir, nil
		}
	}
	tempBase := filepath.Join(os.TempDir(), "jira-intray", "logs")
	if err := os.MkdirAll(tempBase, 0o700); err != nil {
		return "", err
	}
	return tempBase, nil
}

// loggerImpl is the charmbracelet/log based implementation.
type loggerImpl struct {
	clogger  *clog.Logger
	file     *os.File
	redactor *redactor
	path     string
}

// Init initializes a new Logger with the given configuration.
// If cfg.Enabled is false, a no-op logger is returned. Otherwise the
// log directory is created, old files are rotated out, and a JSON
// formatted logger writing to a fresh file is returned.
func Init(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return noopLogger{}, nil
	}
	logDir, err := LogDir()
	if err != nil {
		return nil, fmt.Errorf("logging: determine log directory: %w", err)
	}
	if err := rotate(logDir, cfg.MaxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
	}
	fname := fmt.Sprintf("jira-intray_%s_PID%d.log",
		time.Now().Format("20060102_150405"), os.Getpid())
	path := filepath.Join(logDir, fname)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	clogger := clog.NewWithOptions(f, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           parseLevel(cfg.Level),
	})
	clogger.SetFormatter(clog.JSONFormatter)
	clogger = clogger.With("component", cfg.Component, "pid", os.Getpid())

	return &loggerImpl{
		clogger:  clogger,
		file:     f,
		redactor: newRedactor(),
		path:     path,
	}, nil
}

// parseLevel converts a level name to a charmbracelet log level.
func parseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

func (l *loggerImpl) Debug(msg string, args ...any) {
	l.clogger.Debug(msg, l.redactor.redact(args)...)
}

func (l *loggerImpl) Info(msg string, args ...any) {
	l.clogger.Info(msg, l.redactor.redact(args)...)
}

func (l *loggerImpl) Warn(msg string, args ...any) {
	l.clogger.Warn(msg, l.redactor.redact(args)...)
}

func (l *loggerImpl) Error(msg string, args ...any) {
	l.clogger.Error(msg, l.redactor.redact(args)...)
}

func (l *loggerImpl) With(args ...any) Logger {
	return &loggerImpl{
		clogger:  l.clogger.With(l.redactor.redact(args)...),
		file:     l.file,
		redactor: l.redactor,
		path:     l.path,
	}
}

func (l *loggerImpl) Shutdown() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Path returns the full path to the active log file.
func (l *loggerImpl) Path() string { return l.path }

// noopLogger discards everything.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) With(...any) Logger   { return noopLogger{} }
func (noopLogger) Shutdown() error      { return nil }

// Nop returns a logger that discards all records.
func Nop() Logger { return noopLogger{} }
