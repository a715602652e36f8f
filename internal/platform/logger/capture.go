package logger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Capture collects JSON log lines written by a logger so tests can inspect them.
// It is safe for concurrent writers.
type Capture struct {
	mu  sync.Mutex
	out bytes.Buffer
}

func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Write(p)
}

func (c *Capture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.String()
}

// Entries decodes every captured line, oldest first.
func (c *Capture) Entries() ([]map[string]any, error) {
	var entries []map[string]any

	sc := bufio.NewScanner(strings.NewReader(c.String()))
	for line := 1; sc.Scan(); line++ {
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		entry := map[string]any{}
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("log line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	return entries, sc.Err()
}

// AssertContains fails t when no captured output contains text.
func (c *Capture) AssertContains(t testing.TB, text string) {
	t.Helper()
	if out := c.String(); !strings.Contains(out, text) {
		t.Errorf("log output does not contain %q:\n%s", text, out)
	}
}

// NewCapture returns a debug-level JSON logger that writes into a fresh Capture.
func NewCapture(t testing.TB) (*slog.Logger, *Capture) {
	t.Helper()
	c := &Capture{}
	return slog.New(slog.NewJSONHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug})), c
}

// CaptureContext is NewCapture with the logger already attached to a background context.
func CaptureContext(t testing.TB) (context.Context, *Capture) {
	t.Helper()
	l, c := NewCapture(t)
	return WithLogger(context.Background(), l), c
}
