package logging

import (
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level represents logging verbosity
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps a LOG_LEVEL value to a Level, defaulting to LevelInfo
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG", "TRACE":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger provides leveled logging with a component prefix. Loggers derived
// with With share their parent's level.
type Logger struct {
	level     *atomic.Int32
	component string
	out       *log.Logger
}

// New creates a logger writing to the standard logger's output
func New(level Level) *Logger {
	l := &Logger{level: new(atomic.Int32), out: log.Default()}
	l.level.Store(int32(level))
	return l
}

// NewFromEnv creates a logger based on the LOG_LEVEL environment variable
func NewFromEnv() *Logger {
	return New(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// With returns a logger that tags every line with component
func (l *Logger) With(component string) *Logger {
	return &Logger{level: l.level, component: component, out: l.out}
}

// SetOutput redirects output, mainly for tests
func (l *Logger) SetOutput(out *log.Logger) {
	l.out = out
}

// SetLevel changes the level of l and every logger derived from it
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *Logger) enabled(level Level) bool {
	return Level(l.level.Load()) >= level
}

func (l *Logger) logf(tag string, format string, args ...interface{}) {
	prefix := "[" + tag + "] "
	if l.component != "" {
		prefix += "[" + l.component + "] "
	}
	l.out.Printf(prefix+format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.enabled(LevelError) {
		l.logf("ERROR", format, args...)
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.enabled(LevelWarn) {
		l.logf("WARN", format, args...)
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.enabled(LevelInfo) {
		l.logf("INFO", format, args...)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.enabled(LevelDebug) {
		l.logf("DEBUG", format, args...)
	}
}

// Level returns the current log level
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// Default is the process-wide logger
var Default = NewFromEnv()
