// Package devlog provides development-time warnings that are logged at most
// once per key.
package devlog

import (
	"context"
	"log/slog"
	"sync"
)

// Once logs each warning key a single time for its whole lifetime.
// Once is safe for concurrent use.
type Once struct {
	logger *slog.Logger
	mu     sync.Mutex
	seen   map[string]bool
}

// New creates a deduplicating logger. A nil logger uses slog.Default() at
// the time each warning is emitted.
func New(logger *slog.Logger) *Once {
	return &Once{
		logger: logger,
		seen:   make(map[string]bool),
	}
}

var (
	defaultOnce     *Once
	defaultOnceInit sync.Once
)

// Default returns the process-wide instance. It is created on first use and
// never torn down, so a key warned through it is silenced until exit.
func Default() *Once {
	defaultOnceInit.Do(func() {
		defaultOnce = New(nil)
	})
	return defaultOnce
}

// Warn logs msg at warn level unless key was already warned. It reports
// whether the message was emitted.
func (o *Once) Warn(key, msg string, args ...any) bool {
	o.mu.Lock()
	if o.seen[key] {
		o.mu.Unlock()
		return false
	}
	o.seen[key] = true
	o.mu.Unlock()

	o.log().Log(context.Background(), slog.LevelWarn, msg, args...)
	return true
}

// Warned reports whether key has been warned.
func (o *Once) Warned(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.seen[key]
}

func (o *Once) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}
