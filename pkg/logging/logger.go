// Package logging is the leveled, component tagged logger shared by the
// converter, the archive daemon and the control tool.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dougsko/radio2csv/pkg/config"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/lumberjack.v2"
)

// LogLevel represents logging levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// String returns string representation of log level
func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel parses a string log level. Unknown names mean info.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

var levelColors = map[LogLevel]*color.Color{
	LevelDebug: color.New(color.FgCyan),
	LevelInfo:  color.New(color.FgGreen),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgHiRed),
}

// sink is one destination of log lines.
type sink struct {
	out     *log.Logger
	colored bool
}

// Logger writes leveled messages to the console, a rotating file or both
type Logger struct {
	mu         sync.Mutex
	level      LogLevel
	structured bool
	console    *sink
	file       *sink
	rotating   *lumberjack.Logger
}

// New creates a console-only logger writing to w
func New(w io.Writer, level LogLevel) *Logger {
	return &Logger{level: level, console: &sink{out: log.New(w, "", 0)}}
}

// NewLogger creates a logger from configuration. Console output goes to
// stderr so CSV written to stdout stays clean; it is always enabled when no
// log file is configured.
func NewLogger(cfg *config.Config) (*Logger, error) {
	lc := cfg.Logging
	l := &Logger{level: ParseLogLevel(lc.Level), structured: lc.Structured}

	if lc.File != "" {
		if err := os.MkdirAll(filepath.Dir(lc.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		l.rotating = &lumberjack.Logger{
			Filename:   lc.File,
			MaxSize:    lc.MaxSize, // megabytes
			MaxBackups: lc.MaxBackups,
			MaxAge:     lc.MaxAge, // days
			Compress:   lc.Compress,
		}
		l.file = &sink{out: log.New(l.rotating, "", 0)}
	}

	if lc.Console || l.file == nil {
		l.console = &sink{
			out:     log.New(os.Stderr, "", 0),
			colored: lc.Color && !lc.Structured && isatty.IsTerminal(os.Stderr.Fd()),
		}
	}
	return l, nil
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	if l.rotating != nil {
		return l.rotating.Close()
	}
	return nil
}

// SetOutput redirects console output to w and disables coloring
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = &sink{out: log.New(w, "", 0)}
}

// format renders one line. Fields are printed in key order.
func (l *Logger) format(level LogLevel, component, message string, fields map[string]interface{}, colored bool) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if l.structured {
		var sb strings.Builder
		fmt.Fprintf(&sb, `{"time":"%s","level":"%s","component":"%s","message":"%s"`,
			timestamp, level, component, message)
		if len(keys) > 0 {
			parts := make([]string, len(keys))
			for i, k := range keys {
				parts[i] = fmt.Sprintf(`"%s":"%v"`, k, fields[k])
			}
			fmt.Fprintf(&sb, " {%s}", strings.Join(parts, ","))
		}
		sb.WriteByte('}')
		return sb.String()
	}

	name := level.String()
	if c, ok := levelColors[level]; ok && colored {
		c.EnableColor()
		name = c.Sprint(name)
	}
	line := fmt.Sprintf("%s [%s] %s: %s", timestamp, name, component, message)
	if len(keys) > 0 {
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
		}
		line += " [" + strings.Join(parts, " ") + "]"
	}
	return line
}

func (l *Logger) log(level LogLevel, component, message string, fields []map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	var f map[string]interface{}
	if len(fields) > 0 {
		f = fields[0]
	}
	for _, s := range []*sink{l.file, l.console} {
		if s != nil {
			s.out.Println(l.format(level, component, message, f, s.colored))
		}
	}
}

// Debug logs a debug message with optional fields
func (l *Logger) Debug(component, message string, fields ...map[string]interface{}) {
	l.log(LevelDebug, component, message, fields)
}

// Info logs an info message with optional fields
func (l *Logger) Info(component, message string, fields ...map[string]interface{}) {
	l.log(LevelInfo, component, message, fields)
}

// Warn logs a warning with optional fields
func (l *Logger) Warn(component, message string, fields ...map[string]interface{}) {
	l.log(LevelWarn, component, message, fields)
}

// Error logs an error with optional fields
func (l *Logger) Error(component, message string, fields ...map[string]interface{}) {
	l.log(LevelError, component, message, fields)
}

var (
	globalMu     sync.Mutex
	globalLogger *Logger
)

// InitGlobalLogger replaces the global logger with one built from cfg
func InitGlobalLogger(cfg *config.Config) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	SetGlobalLogger(logger)
	return nil
}

// SetGlobalLogger replaces the global logger
func SetGlobalLogger(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// GetGlobalLogger returns the global logger, an info level stderr logger
// until one is set
func GetGlobalLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = New(os.Stderr, LevelInfo)
	}
	return globalLogger
}

// CloseGlobalLogger closes the global logger's file
func CloseGlobalLogger() error {
	return GetGlobalLogger().Close()
}

func Debug(component, message string, fields ...map[string]interface{}) {
	GetGlobalLogger().Debug(component, message, fields...)
}

func Info(component, message string, fields ...map[string]interface{}) {
	GetGlobalLogger().Info(component, message, fields...)
}

func Warn(component, message string, fields ...map[string]interface{}) {
	GetGlobalLogger().Warn(component, message, fields...)
}

func Error(component, message string, fields ...map[string]interface{}) {
	GetGlobalLogger().Error(component, message, fields...)
}
