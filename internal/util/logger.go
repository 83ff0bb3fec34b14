package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *log.Logger

// debugFile receives a copy of every log line while debug mode is on
var debugFile *lumberjack.Logger

// getColoredPrefix returns a styled prefix with colors
func getColoredPrefix() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#6366F1")).
		Bold(true).
		Padding(0, 1).
		MarginRight(1)
	return style.Render("movwatch")
}

// InitLogger initializes the charmbracelet logger. When debug mode is on and
// logDir is not empty, output is mirrored into a rotating debug.log file.
func InitLogger(logDir string) {
	var out io.Writer = os.Stderr
	if IsDebug && logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err == nil {
			debugFile = &lumberjack.Logger{
				Filename:   filepath.Join(logDir, "debug.log"),
				MaxSize:    5,
				MaxBackups: 3,
				MaxAge:     14,
			}
			out = io.MultiWriter(os.Stderr, debugFile)
		}
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    IsDebug,
		ReportTimestamp: IsDebug,
		TimeFormat:      "15:04:05",
		Prefix:          getColoredPrefix(),
	})
	Logger.SetColorProfile(termenv.TrueColor)

	if IsDebug {
		Logger.SetLevel(log.DebugLevel)
		Logger.Debug("Debug logging enabled")
	} else {
		Logger.SetLevel(log.InfoLevel)
	}
}

// SetLogLevel applies a textual level ("debug", "info", "warn", "error")
func SetLogLevel(level string) {
	if Logger == nil || level == "" {
		return
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		Logger.Warn("Invalid log level, keeping current", "level", level)
		return
	}
	if IsDebug && parsed > log.DebugLevel {
		return
	}
	Logger.SetLevel(parsed)
}

// CloseLogger flushes and closes the debug log file if one is open
func CloseLogger() {
	if debugFile != nil {
		_ = debugFile.Close()
		debugFile = nil
	}
}

// Debug logs a debug message (only when debug mode is enabled)
func Debug(msg interface{}, keyvals ...interface{}) {
	if IsDebug && Logger != nil {
		Logger.Debug(fmt.Sprintf("%v", msg), keyvals...)
	}
}

// Info logs an info message
func Info(msg interface{}, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(fmt.Sprintf("%v", msg), keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg interface{}, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(fmt.Sprintf("%v", msg), keyvals...)
	}
}

// Error logs an error message
func Error(msg interface{}, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(fmt.Sprintf("%v", msg), keyvals...)
	}
}

// Debugf logs a formatted debug message (only when debug mode is enabled)
func Debugf(format string, args ...interface{}) {
	if IsDebug && Logger != nil {
		Logger.Debug(fmt.Sprintf(format, args...))
	}
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Warn(fmt.Sprintf(format, args...))
	}
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Error(fmt.Sprintf(format, args...))
	}
}
