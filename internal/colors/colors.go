// Package colors provides color output utilities for CLI messages.
package colors

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Color constants
const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

const checkmark = "✓"

var (
	debugEnabled bool
	mu           sync.RWMutex
)

func init() {
	if val := os.Getenv("JIRA_INTRAY_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

// DebugEnabled reports whether debug output is enabled.
func DebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugEnabled
}

// Error prints an error message to stderr.
func Error(msgs ...string) {
	fmt.Fprintf(os.Stderr, "%sError:%s %s\n", Red, Reset, strings.Join(msgs, " "))
}

// Warning prints a warning message to stderr.
func Warning(msgs ...string) {
	fmt.Fprintf(os.Stderr, "%sWarning:%s %s\n", Yellow, Reset, strings.Join(msgs, " "))
}

// Info prints an informational message to stdout.
func Info(msgs ...string) {
	fmt.Fprintf(os.Stdout, "%s\n", strings.Join(msgs, " "))
}

// Success prints a success message with a checkmark to stdout.
func Success(msgs ...string) {
	fmt.Fprintf(os.Stdout, "%s%s%s %s\n", Green, checkmark, Reset, strings.Join(msgs, " "))
}

// Debug prints a debug message to stderr when debug output is enabled.
func Debug(msgs ...string) {
	if !DebugEnabled() {
		return
	}
	fmt.Fprintf(os.Stderr, "%sDebug:%s %s\n", Cyan, Reset, strings.Join(msgs, " "))
}
