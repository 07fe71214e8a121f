package logx

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

const ringSize = 500

// The logger keeps its output in memory so it never corrupts the terminal
// while the TUI owns the screen. The L key surfaces the buffer; stderr echo
// is opt-in via TABSCOPE_LOG_STDERR for debugging outside the TUI.
var std = &logger{level: Info, ring: make([]string, ringSize)}

type logger struct {
	mu       sync.Mutex
	level    Level
	ring     []string
	next     int // write position
	count    int
	toStderr bool
}

func SetLevel(l Level) {
	std.mu.Lock()
	std.level = l
	std.mu.Unlock()
}

func SetLevelFromEnv() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TABSCOPE_LOG_LEVEL"))) {
	case "debug":
		SetLevel(Debug)
	case "info":
		SetLevel(Info)
	case "warn", "warning":
		SetLevel(Warn)
	case "error":
		SetLevel(Error)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("TABSCOPE_LOG_STDERR"))); v != "" {
		std.mu.Lock()
		std.toStderr = v != "0" && v != "false" && v != "no"
		std.mu.Unlock()
	}
}

func Debugf(format string, a ...any) { std.logf(Debug, "DEBUG", format, a...) }
func Infof(format string, a ...any)  { std.logf(Info, "INFO", format, a...) }
func Warnf(format string, a ...any)  { std.logf(Warn, "WARN", format, a...) }
func Errorf(format string, a ...any) { std.logf(Error, "ERROR", format, a...) }

func (l *logger) logf(lv Level, tag, format string, a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lv < l.level {
		return
	}
	ts := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	line := fmt.Sprintf("%s %-5s %s", ts, tag, fmt.Sprintf(format, a...))
	l.ring[l.next] = line
	l.next = (l.next + 1) % len(l.ring)
	if l.count < len(l.ring) {
		l.count++
	}
	if l.toStderr {
		fmt.Fprintln(os.Stderr, line)
	}
}

// Lines returns the buffered log lines, oldest first.
func Lines() []string {
	std.mu.Lock()
	defer std.mu.Unlock()
	out := make([]string, 0, std.count)
	start := std.next - std.count
	if start < 0 {
		start += len(std.ring)
	}
	for i := 0; i < std.count; i++ {
		out = append(out, std.ring[(start+i)%len(std.ring)])
	}
	return out
}

func Dump() string { return strings.Join(Lines(), "\n") }
