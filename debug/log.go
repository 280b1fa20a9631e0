package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.Mutex
	file    *os.File
	logger  *logrus.Logger
	enabled atomic.Bool
)

// Enable starts debug logging to dir/debug.log
func Enable(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled.Load() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}

	l := logrus.New()
	l.SetOutput(f)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	file = f
	logger = l
	enabled.Store(true)

	l.WithField("cat", "debug").Debug("=== Debug logging started ===")
	return nil
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	enabled.Store(false)
	if file != nil {
		file.Close()
		file = nil
	}
	logger = nil
}

// Enabled reports whether logging is on
func Enabled() bool {
	return enabled.Load()
}

func entry(category string) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return nil
	}
	return logger.WithField("cat", category)
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	if !enabled.Load() {
		return
	}
	if e := entry(category); e != nil {
		e.Debugf(format, args...)
	}
}

// Warn writes a warning, used for I/O failures that are retried
func Warn(category, format string, args ...any) {
	if !enabled.Load() {
		return
	}
	if e := entry(category); e != nil {
		e.Warnf(format, args...)
	}
}

// LogEvery logs only every N calls (use for high-frequency events)
var (
	countersMu sync.Mutex
	counters   = make(map[string]int)
)

func LogEvery(n int, category, format string, args ...any) {
	if !enabled.Load() {
		return
	}
	countersMu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	countersMu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
