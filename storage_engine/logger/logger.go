// Package logger provides the leveled logger shared by the storage engine.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelOff disables output
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return fmt.Sprintf("LEVEL(%d)", l)
	}
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "off", "none":
		return LevelOff, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger is the interface storage components log through.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	// WithField returns a logger that adds key=value to every entry
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	GetLevel() Level
	SetLevel(level Level)
}

// StandardLogger writes one line per entry:
//
//	[2006-01-02 15:04:05.000] [INFO] [DiskManager] key=value message
type StandardLogger struct {
	mu     *sync.Mutex
	level  *Level
	out    io.Writer
	fields map[string]interface{}
}

type Option func(*StandardLogger)

func WithLevel(level Level) Option {
	return func(l *StandardLogger) {
		*l.level = level
	}
}

func WithOutput(out io.Writer) Option {
	return func(l *StandardLogger) {
		l.out = out
	}
}

// New creates a StandardLogger writing to stderr at LevelInfo.
func New(options ...Option) *StandardLogger {
	level := LevelInfo
	l := &StandardLogger{
		mu:     &sync.Mutex{},
		level:  &level,
		out:    os.Stderr,
		fields: make(map[string]interface{}),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

// Nop returns a logger that drops everything.
func Nop() Logger {
	return New(WithLevel(LevelOff), WithOutput(io.Discard))
}

func (l *StandardLogger) log(level Level, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < *l.level {
		return
	}

	formatted := msg
	if len(args) > 0 {
		formatted = fmt.Sprintf(msg, args...)
	}

	var sb strings.Builder
	if c, ok := l.fields["component"]; ok {
		fmt.Fprintf(&sb, " [%v]", c)
	}
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		if k != "component" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, l.fields[k])
	}

	fmt.Fprintf(l.out, "[%s] [%s]%s %s\n",
		time.Now().Format("2006-01-02 15:04:05.000"), level, sb.String(), formatted)
}

func (l *StandardLogger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }
func (l *StandardLogger) Info(msg string, args ...interface{})  { l.log(LevelInfo, msg, args...) }
func (l *StandardLogger) Warn(msg string, args ...interface{})  { l.log(LevelWarn, msg, args...) }
func (l *StandardLogger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

func (l *StandardLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a child logger. Children share the parent's level,
// output and mutex.
func (l *StandardLogger) WithFields(fields map[string]interface{}) Logger {
	child := &StandardLogger{
		mu:     l.mu,
		level:  l.level,
		out:    l.out,
		fields: make(map[string]interface{}, len(l.fields)+len(fields)),
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for k, v := range fields {
		child.fields[k] = v
	}
	return child
}

func (l *StandardLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.level
}

func (l *StandardLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = level
}
