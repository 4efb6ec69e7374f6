// Package testutil provides a buffered slog handler so tests can assert on
// the log output of a component under test: unknown-site warnings from the
// diel classifier, skipped-row warnings from the loaders, and so on.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// Record is one captured log record.
type Record struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// CaptureHandler is a slog.Handler that buffers every record it receives.
// Handlers derived through WithAttrs or WithGroup share the same buffer, so
// a test sees a component's full output however it decorates its logger.
// Safe for concurrent use.
type CaptureHandler struct {
	store  *recordStore
	prefix string      // open group prefix for record attr keys
	bound  []slog.Attr // attrs attached by WithAttrs, keys already prefixed
	t      *testing.T
}

type recordStore struct {
	mu      sync.Mutex
	records []Record
}

// NewCaptureHandler creates an empty capture handler. The testing.T is only
// used to echo records into the test log and may be nil.
func NewCaptureHandler(t *testing.T) *CaptureHandler {
	return &CaptureHandler{store: &recordStore{}, t: t}
}

// NewTestLogger creates a logger whose output a test can assert on.
func NewTestLogger(t *testing.T) (*slog.Logger, *CaptureHandler) {
	handler := NewCaptureHandler(t)
	return slog.New(handler), handler
}

// Enabled implements slog.Handler. Every level is captured.
func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler.
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(h.bound))
	for _, a := range h.bound {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.prefix+a.Key] = a.Value.Any()
		return true
	})

	h.store.mu.Lock()
	h.store.records = append(h.store.records, Record{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	h.store.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs implements slog.Handler. The derived handler writes to the same
// buffer with the extra attrs attached to every record.
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *h
	bound := make([]slog.Attr, 0, len(h.bound)+len(attrs))
	bound = append(bound, h.bound...)
	for _, a := range attrs {
		bound = append(bound, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	derived.bound = bound
	return &derived
}

// WithGroup implements slog.Handler. Group names become dotted key prefixes,
// which is enough for a test to locate a grouped attribute.
func (h *CaptureHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	derived := *h
	derived.prefix = h.prefix + name + "."
	return &derived
}

// GetRecords returns a copy of every captured record.
func (h *CaptureHandler) GetRecords() []Record {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	out := make([]Record, len(h.store.records))
	copy(out, h.store.records)
	return out
}

// GetRecordsByLevel returns the captured records at exactly the given level.
func (h *CaptureHandler) GetRecordsByLevel(level slog.Level) []Record {
	var out []Record
	for _, r := range h.GetRecords() {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// Count returns how many records have been captured.
func (h *CaptureHandler) Count() int {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return len(h.store.records)
}

// Clear discards every captured record.
func (h *CaptureHandler) Clear() {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.records = h.store.records[:0]
}

// ContainsMessage reports whether any captured message contains the substring.
func (h *CaptureHandler) ContainsMessage(substr string) bool {
	for _, r := range h.GetRecords() {
		if strings.Contains(r.Message, substr) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any captured record carries the attribute.
func (h *CaptureHandler) ContainsAttr(key string, value any) bool {
	for _, r := range h.GetRecords() {
		if v, ok := r.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// AssertLogContains fails the test when no record at the given level contains
// the message substring, listing what was captured at that level instead.
func AssertLogContains(t *testing.T, handler *CaptureHandler, level slog.Level, message string) {
	t.Helper()

	records := handler.GetRecordsByLevel(level)
	for _, r := range records {
		if strings.Contains(r.Message, message) {
			return
		}
	}

	t.Errorf("expected a %s log containing %q", level, message)
	for _, r := range records {
		t.Logf("  captured: %s", r.Message)
	}
}
