// Package logging writes per-category debug logs for MODELTRON.
// Each category gets its own dated file under the configured directory
// (.modeltron/logs by default). Nothing is written unless debug mode is on.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Category names one subsystem's log file.
type Category string

const (
	CategoryBoot     Category = "boot"     // power cycling, startup
	CategorySession  Category = "session"  // console sessions and history
	CategoryAPI      Category = "api"      // generative provider calls
	CategoryAnalysis Category = "analysis" // debugger analysis and visualization
	CategoryUpload   Category = "upload"   // file validation, reads, watching
	CategoryStore    Category = "store"    // transcript persistence
	CategoryUI       Category = "ui"       // console rendering and keys
)

// AllCategories lists every category in display order.
func AllCategories() []Category {
	return []Category{CategoryBoot, CategorySession, CategoryAPI, CategoryAnalysis, CategoryUpload, CategoryStore, CategoryUI}
}

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	DebugMode  bool
	Level      string
	JSONFormat bool
	Categories map[string]bool
}

// Fields are structured key/value pairs attached to an Event.
type Fields map[string]interface{}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel maps a config string to a Level. Unknown values mean info.
func ParseLevel(s string) Level {
	switch s {
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

// jsonLine is one log record when JSON output is on.
type jsonLine struct {
	Timestamp int64  `json:"ts"`
	Category  string `json:"cat"`
	Level     string `json:"lvl"`
	Message   string `json:"msg"`
	Fields    Fields `json:"fields,omitempty"`
}

// Logger writes one category's records. The zero Logger discards everything.
type Logger struct {
	category Category
	out      *log.Logger
	file     *os.File
}

type settings struct {
	opts  Options
	dir   string
	level Level
}

var (
	mu      sync.RWMutex
	current settings
	open    = map[Category]*Logger{}
)

// Initialize configures logging. Calling it again closes files opened under
// the previous settings. The directory is only created in debug mode.
func Initialize(dir string, opts Options) error {
	if dir == "" {
		return fmt.Errorf("logs directory required")
	}
	CloseAll()

	mu.Lock()
	current = settings{opts: opts, dir: dir, level: ParseLevel(opts.Level)}
	mu.Unlock()

	if !opts.DebugMode {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	var disabled []string
	for _, c := range AllCategories() {
		if !IsCategoryEnabled(c) {
			disabled = append(disabled, string(c))
		}
	}
	sort.Strings(disabled)
	Get(CategoryBoot).Event(LevelInfo, "logging initialized", Fields{
		"dir":      dir,
		"level":    ParseLevel(opts.Level).String(),
		"disabled": disabled,
	})
	return nil
}

// Enabled reports whether debug logging is on at all.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return current.opts.DebugMode
}

// Dir returns the configured log directory.
func Dir() string {
	mu.RLock()
	defer mu.RUnlock()
	return current.dir
}

// IsCategoryEnabled reports whether records for category reach a file.
// Categories missing from the filter are on.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if !current.opts.DebugMode {
		return false
	}
	on, listed := current.opts.Categories[string(category)]
	return !listed || on
}

// Get returns the logger for category, opening its file on first use.
// Disabled categories get a discarding logger.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	mu.RLock()
	l, ok := open[category]
	dir := current.dir
	mu.RUnlock()
	if ok {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := open[category]; ok {
		return l
	}

	name := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), category)
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] cannot open %s: %v\n", path, err)
		return &Logger{category: category}
	}
	l = &Logger{
		category: category,
		file:     f,
		out:      log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	open[category] = l
	return l
}

// CloseAll closes every open log file. Call at shutdown.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range open {
		if l.file != nil {
			l.file.Close()
		}
	}
	open = map[Category]*Logger{}
}

func allowed(level Level) (bool, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return level >= current.level || level == LevelError, current.opts.JSONFormat
}

// Event writes msg with structured fields at level.
func (l *Logger) Event(level Level, msg string, fields Fields) {
	if l.out == nil {
		return
	}
	ok, asJSON := allowed(level)
	if !ok {
		return
	}
	if asJSON {
		data, err := json.Marshal(jsonLine{
			Timestamp: time.Now().UnixMilli(),
			Category:  string(l.category),
			Level:     level.String(),
			Message:   msg,
			Fields:    fields,
		})
		if err == nil {
			l.out.Printf("%s", data)
			return
		}
	}
	if len(fields) == 0 {
		l.out.Printf("[%s] %s", level, msg)
		return
	}
	l.out.Printf("[%s] %s | %s", level, msg, formatFields(fields))
}

func formatFields(fields Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var s string
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%v", k, fields[k])
	}
	return s
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.Event(LevelDebug, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.Event(LevelInfo, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.Event(LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Error is written whatever the configured level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.Event(LevelError, fmt.Sprintf(format, args...), nil)
}

// Shorthands for the common category/level pairs.

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

func Session(format string, args ...interface{})      { Get(CategorySession).Info(format, args...) }
func SessionDebug(format string, args ...interface{}) { Get(CategorySession).Debug(format, args...) }
func SessionError(format string, args ...interface{}) { Get(CategorySession).Error(format, args...) }

func API(format string, args ...interface{})      { Get(CategoryAPI).Info(format, args...) }
func APIDebug(format string, args ...interface{}) { Get(CategoryAPI).Debug(format, args...) }
func APIError(format string, args ...interface{}) { Get(CategoryAPI).Error(format, args...) }

func Analysis(format string, args ...interface{})      { Get(CategoryAnalysis).Info(format, args...) }
func AnalysisDebug(format string, args ...interface{}) { Get(CategoryAnalysis).Debug(format, args...) }
func AnalysisError(format string, args ...interface{}) { Get(CategoryAnalysis).Error(format, args...) }

func Upload(format string, args ...interface{})      { Get(CategoryUpload).Info(format, args...) }
func UploadDebug(format string, args ...interface{}) { Get(CategoryUpload).Debug(format, args...) }
func UploadWarn(format string, args ...interface{})  { Get(CategoryUpload).Warn(format, args...) }

func Store(format string, args ...interface{})      { Get(CategoryStore).Info(format, args...) }
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }

func UI(format string, args ...interface{})      { Get(CategoryUI).Info(format, args...) }
func UIDebug(format string, args ...interface{}) { Get(CategoryUI).Debug(format, args...) }

// Timer records how long an operation took.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing op.
func StartTimer(category Category, op string) *Timer {
	return &Timer{category: category, op: op, start: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	return t.finish(LevelDebug)
}

// StopWithThreshold is Stop, but logs a warning when threshold is exceeded.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	if time.Since(t.start) > threshold {
		return t.finish(LevelWarn)
	}
	return t.finish(LevelDebug)
}

func (t *Timer) finish(level Level) time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Event(level, "timing", Fields{
		"op":         t.op,
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return elapsed
}
