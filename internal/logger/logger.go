package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents log level
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
	LevelSuccess Level = "SUCCESS"
	LevelDebug   Level = "DEBUG"
)

// Logger writes timestamped, levelled lines to stdout and an optional log file
type Logger struct {
	out     io.Writer
	logFile *os.File
	debug   bool
	now     func() time.Time
	mu      sync.Mutex
}

// New creates a logger writing to out and, when filePath is set, appending to that file
func New(out io.Writer, filePath string, debug bool) *Logger {
	if out == nil {
		out = os.Stdout
	}
	l := &Logger{out: out, debug: debug, now: time.Now}

	if filePath != "" {
		logFile, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			l.logFile = logFile
		} else {
			fmt.Fprintf(out, "[%s] %s: could not open log file %s: %v\n", time.Now().Format("2006-01-02 15:04:05"), LevelWarning, filePath, err)
		}
	}

	return l
}

func (l *Logger) write(level Level, message string, args ...interface{}) {
	if level == LevelDebug && !l.debug {
		return
	}

	timestamp := l.now().Format("2006-01-02 15:04:05")
	formattedMsg := message
	if len(args) > 0 {
		formattedMsg = fmt.Sprintf(message, args...)
	}
	logEntry := fmt.Sprintf("[%s] %s: %s\n", timestamp, level, formattedMsg)

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.out, logEntry)
	if l.logFile != nil {
		l.logFile.WriteString(logEntry)
	}
}

// Close closes the log file
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		l.logFile.Close()
		l.logFile = nil
	}
}

// Info logs an informational message
func (l *Logger) Info(message string, args ...interface{}) {
	l.write(LevelInfo, message, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(message string, args ...interface{}) {
	l.write(LevelWarning, message, args...)
}

// Error logs an error message
func (l *Logger) Error(message string, args ...interface{}) {
	l.write(LevelError, message, args...)
}

// Success logs a success message
func (l *Logger) Success(message string, args ...interface{}) {
	l.write(LevelSuccess, message, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, args ...interface{}) {
	l.write(LevelDebug, message, args...)
}

var (
	defaultLogger = New(os.Stdout, "", false)
	defaultMu     sync.RWMutex
)

// Configure replaces the default logger. The previous one is closed.
func Configure(filePath string, debug bool) {
	SetDefault(New(os.Stdout, filePath, debug))
}

// SetOutput points the default logger at w, mostly for tests
func SetOutput(w io.Writer, debug bool) {
	SetDefault(New(w, "", debug))
}

// SetDefault swaps the default logger
func SetDefault(l *Logger) {
	defaultMu.Lock()
	prev := defaultLogger
	defaultLogger = l
	defaultMu.Unlock()
	if prev != nil && prev != l {
		prev.Close()
	}
}

// Default returns the logger used by the package-level helpers
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Info logs an informational message using the default logger
func Info(message string, args ...interface{}) {
	Default().Info(message, args...)
}

// Warning logs a warning message using the default logger
func Warning(message string, args ...interface{}) {
	Default().Warning(message, args...)
}

// Error logs an error message using the default logger
func Error(message string, args ...interface{}) {
	Default().Error(message, args...)
}

// Success logs a success message using the default logger
func Success(message string, args ...interface{}) {
	Default().Success(message, args...)
}

// Debug logs a debug message using the default logger
func Debug(message string, args ...interface{}) {
	Default().Debug(message, args...)
}
