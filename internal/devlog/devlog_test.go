package devlog

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestOnceWarnsSingleTime(t *testing.T) {
	var buf bytes.Buffer
	once := New(newTestLogger(&buf))

	if !once.Warn("store-swap", "store changed", "component", "Provider") {
		t.Error("first Warn should emit")
	}
	if once.Warn("store-swap", "store changed") {
		t.Error("second Warn with the same key should be suppressed")
	}

	if got := strings.Count(buf.String(), "store changed"); got != 1 {
		t.Errorf("Expected 1 log line, got %d:\n%s", got, buf.String())
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("Expected warn level, got %s", buf.String())
	}
	if !once.Warned("store-swap") {
		t.Error("Warned should report emitted keys")
	}
	if once.Warned("other") {
		t.Error("Warned should be false for unknown keys")
	}
}

func TestOnceKeysAreIndependent(t *testing.T) {
	var buf bytes.Buffer
	once := New(newTestLogger(&buf))

	once.Warn("a", "first")
	once.Warn("b", "second")

	out := buf.String()
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("Expected both warnings, got %s", out)
	}
}

func TestOnceConcurrent(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{buf: &buf, mu: &mu}, nil))
	once := New(logger)

	var wg sync.WaitGroup
	emitted := make(chan bool, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			emitted <- once.Warn("k", "warned")
		}()
	}
	wg.Wait()
	close(emitted)

	count := 0
	for ok := range emitted {
		if ok {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one emitter, got %d", count)
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default should return the same instance")
	}
}

type lockedWriter struct {
	buf *bytes.Buffer
	mu  *sync.Mutex
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
