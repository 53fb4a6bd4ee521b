package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogFilePath is the log file, relative to the working directory (project root when run via go run ./cmd/sandbox).
const LogFilePath = "logs/sandbox.log"

// DefaultMaxLines is how many lines the in-memory history keeps for the terminal.
const DefaultMaxLines = 500

// Logger is a logrus logger that also keeps the most recent formatted lines in memory,
// so the in-game terminal can show them.
type Logger struct {
	*logrus.Logger

	mu       sync.Mutex
	lines    []string
	maxLines int
	file     *os.File
}

// New returns a Logger writing to LogFilePath. If the file cannot be opened the logger
// still works, keeping lines in memory only.
func New() *Logger {
	_ = os.MkdirAll(filepath.Dir(LogFilePath), 0755)
	f, err := os.OpenFile(LogFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		l := NewWithWriter(io.Discard)
		l.Warnf("logger: open %s: %v", LogFilePath, err)
		return l
	}
	l := NewWithWriter(f)
	l.file = f
	return l
}

// NewWithWriter returns a Logger writing to w.
func NewWithWriter(w io.Writer) *Logger {
	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	base.SetOutput(w)

	l := &Logger{Logger: base, maxLines: DefaultMaxLines}
	base.AddHook(&historyHook{l: l})
	return l
}

// Log records a line typed into (or printed by) the terminal at info level.
func (l *Logger) Log(line string) {
	l.Info(line)
}

// Lines returns a copy of the stored lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// SetMaxLines changes the history size; n <= 0 keeps DefaultMaxLines.
func (l *Logger) SetMaxLines(n int) {
	if n <= 0 {
		n = DefaultMaxLines
	}
	l.mu.Lock()
	l.maxLines = n
	l.trim()
	l.mu.Unlock()
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) push(line string) {
	l.mu.Lock()
	l.lines = append(l.lines, line)
	l.trim()
	l.mu.Unlock()
}

func (l *Logger) trim() {
	if over := len(l.lines) - l.maxLines; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
}

// historyHook mirrors every entry into the logger's line history as
// "[timestamp] message", with the level prepended for anything but info.
type historyHook struct {
	l *Logger
}

func (h *historyHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *historyHook) Fire(e *logrus.Entry) error {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(e.Time.Format("2006-01-02 15:04:05"))
	b.WriteString("] ")
	if e.Level != logrus.InfoLevel {
		b.WriteString(strings.ToUpper(e.Level.String()))
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	h.l.push(b.String())
	return nil
}
