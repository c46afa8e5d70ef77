package mocks

import (
	"fmt"
	"sync"

	"github.com/deepnoodle-ai/genner/log"
)

var _ log.Logger = &Logger{}

// Logger records log lines as "LEVEL: message".
type Logger struct {
	mutex sync.Mutex
	lines []string
}

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) record(level, msg string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.lines = append(l.lines, fmt.Sprintf("%s: %s", level, msg))
}

func (l *Logger) Debug(msg string, args ...any) { l.record("DEBUG", msg) }
func (l *Logger) Info(msg string, args ...any)  { l.record("INFO", msg) }
func (l *Logger) Warn(msg string, args ...any)  { l.record("WARN", msg) }
func (l *Logger) Error(msg string, args ...any) { l.record("ERROR", msg) }

// With shares the recorded lines with the parent.
func (l *Logger) With(args ...any) log.Logger { return l }

// Lines returns the recorded lines.
func (l *Logger) Lines() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	lines := make([]string, len(l.lines))
	copy(lines, l.lines)
	return lines
}
