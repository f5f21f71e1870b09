// Package logging provides simple leveled logging for the ladderscan runtime.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"
)

// LogLevel represents the available log levels.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Config holds logging configuration.
type Config struct {
	Level   LogLevel
	Format  string // "text" (default) or "json"
	Output  io.Writer
	Sync    bool // write immediately, no buffering
	NoColor bool // reserved for future ANSI output
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

// Logger wraps an io.Writer with level support and a small set of
// contextual fields carried by With* calls.
type Logger struct {
	mu     sync.Mutex
	output io.Writer
	level  LogLevel
	format string
	fields map[string]any
}

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// NewLogger creates a new logger from config. A nil config uses DefaultConfig().
func NewLogger(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	format := config.Format
	if format == "" {
		format = "text"
	}
	return &Logger{
		output: output,
		level:  config.Level,
		format: format,
	}
}

// Default returns the process default logger, creating one on first use.
func Default() *Logger {
	defaultMu.RLock()
	if defaultLogger != nil {
		defer defaultMu.RUnlock()
		return defaultLogger
	}
	defaultMu.RUnlock()

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(nil)
	}
	return defaultLogger
}

// SetDefault replaces the process default logger.
func SetDefault(logger *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

func (l *Logger) withField(key string, value any) *Logger {
	child := &Logger{
		output: l.output,
		level:  l.level,
		format: l.format,
		fields: make(map[string]any, len(l.fields)+1),
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	child.fields[key] = value
	return child
}

// WithScan returns a child logger carrying the scan number as context.
func (l *Logger) WithScan(scanNumber uint64) *Logger {
	return l.withField("scan", scanNumber)
}

// WithNetwork returns a child logger carrying a network id as context.
func (l *Logger) WithNetwork(networkID string) *Logger {
	return l.withField("network", networkID)
}

// WithTag returns a child logger carrying a tag id as context.
func (l *Logger) WithTag(tagID string) *Logger {
	return l.withField("tag", tagID)
}

// WithError returns a child logger carrying an error as context.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.withField("error", err.Error())
}

func (l *Logger) log(level LogLevel, msg string, kv ...any) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format == "json" {
		l.writeJSON(level, msg, kv)
		return
	}
	l.writeText(level, msg, kv)
}

func (l *Logger) writeText(level LogLevel, msg string, kv []any) {
	line := fmt.Sprintf("%s [%s] %s", time.Now().Format(time.RFC3339Nano), level, msg)
	for _, k := range sortedKeys(l.fields) {
		line += fmt.Sprintf(" %s=%v", k, l.fields[k])
	}
	line += formatArgs(kv)
	fmt.Fprintln(l.output, line)
}

func (l *Logger) writeJSON(level LogLevel, msg string, kv []any) {
	entry := make(map[string]any, len(l.fields)+len(kv)/2+2)
	for k, v := range l.fields {
		entry[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			entry[key] = kv[i+1]
		}
	}
	entry["level"] = level.String()
	entry["msg"] = msg
	entry["time"] = time.Now().Format(time.RFC3339Nano)
	enc := json.NewEncoder(l.output)
	_ = enc.Encode(entry)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	var result string
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			result += fmt.Sprintf(" %v=%v", args[i], args[i+1])
		}
	}
	return result
}

func (l *Logger) Debug(msg string, kv ...any) { l.log(LevelDebug, msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.log(LevelInfo, msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.log(LevelWarn, msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.log(LevelError, msg, kv...) }

// Debugf/Infof/Warnf/Errorf provide printf-style logging for call sites
// ported from the teacher's Logger interface (Printf/Debugf signature).
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, fmt.Sprintf(format, args...)) }

// Printf logs at info level for compatibility with callers expecting a
// stdlib-log-shaped Logger.
func (l *Logger) Printf(format string, args ...any) { l.Infof(format, args...) }

// Global convenience functions operating on the default logger.
func Debug(msg string, kv ...any) { Default().Debug(msg, kv...) }
func Info(msg string, kv ...any)  { Default().Info(msg, kv...) }
func Warn(msg string, kv ...any)  { Default().Warn(msg, kv...) }
func Error(msg string, kv ...any) { Default().Error(msg, kv...) }
