package logger

import (
	"log"
	"os"
	"sync"
)

// LogLevel represents the severity of a log message. The order defines the
// numerical value (DEBUG=0, INFO=1, ...): a logger set to INFO shows INFO and
// above but not DEBUG.
type LogLevel int

const (
	DEBUG   LogLevel = iota // Detailed debugging information, per-request noise.
	INFO                    // General progress information.
	WARN                    // Warnings (recoverable problems).
	ERROR                   // Errors.
	SUCCESS                 // Findings and other good news.
)

// Logger holds per-level loggers and a mutex for concurrent writes.
type Logger struct {
	debugLogger   *log.Logger
	infoLogger    *log.Logger
	warnLogger    *log.Logger
	errorLogger   *log.Logger
	successLogger *log.Logger
	mu            sync.Mutex
	minLevel      LogLevel
}

// NewLogger creates a Logger that discards everything below minLevel.
func NewLogger(minLevel LogLevel) *Logger {
	flags := log.Ldate | log.Ltime
	return &Logger{
		debugLogger:   log.New(os.Stdout, "[DEBUG] ", flags),
		infoLogger:    log.New(os.Stdout, "[INFO] ", flags),
		warnLogger:    log.New(os.Stderr, "[WARN] ", flags),
		errorLogger:   log.New(os.Stderr, "[ERROR] ", flags),
		successLogger: log.New(os.Stdout, "[SUCCESS] ", flags),
		minLevel:      minLevel,
	}
}

func (l *Logger) log(level LogLevel, logger *log.Logger, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level >= l.minLevel {
		logger.Printf(format, v...)
	}
}

// Debug logs a debug message. Only active if minLevel is DEBUG.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(DEBUG, l.debugLogger, format, v...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(INFO, l.infoLogger, format, v...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(WARN, l.warnLogger, format, v...)
}

// Error logs an error message.
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(ERROR, l.errorLogger, format, v...)
}

// Success logs a success message, typically for a found vulnerability.
func (l *Logger) Success(format string, v ...interface{}) {
	l.log(SUCCESS, l.successLogger, format, v...)
}

// SetMinLevel sets the minimum logging level.
func (l *Logger) SetMinLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}
