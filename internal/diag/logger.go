package diag

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
)

// Logger is a small leveled wrapper around the standard logger, in the
// style the teacher's internal/errors and internal/repl packages use
// for colorized, key/value-tagged output. A nil *Logger is valid and
// discards everything, matching tests' "no-op logger" convention.
type Logger struct {
	std *log.Logger
}

// NewLogger builds a Logger writing to os.Stderr.
func NewLogger() *Logger {
	return &Logger{std: log.New(os.Stderr, "", log.LstdFlags)}
}

// NewNopLogger builds a Logger that discards every call, for tests.
func NewNopLogger() *Logger { return nil }

var (
	logDebug = color.New(color.Faint).SprintFunc()
	logWarn  = color.New(color.FgYellow).SprintFunc()
	logError = color.New(color.FgRed, color.Bold).SprintFunc()
)

func (l *Logger) log(level, msg string, kv ...any) {
	if l == nil || l.std == nil {
		return
	}
	l.std.Println(level, msg, formatKV(kv))
}

// Debug logs at debug level with structured key/value pairs.
func (l *Logger) Debug(msg string, kv ...any) { l.log(logDebug("debug"), msg, kv...) }

// Warn logs at warn level with structured key/value pairs.
func (l *Logger) Warn(msg string, kv ...any) { l.log(logWarn("warn"), msg, kv...) }

// Error logs at error level with structured key/value pairs.
func (l *Logger) Error(msg string, kv ...any) { l.log(logError("error"), msg, kv...) }

func formatKV(kv []any) string {
	out := ""
	for i := 0; i+1 < len(kv); i += 2 {
		out += fmt.Sprintf(" %v=%v", kv[i], kv[i+1])
	}
	return out
}
