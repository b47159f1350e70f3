// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LogRecord is one captured log record.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogRecorder collects records emitted through a test logger so tests
// can assert on messages and attributes.
type LogRecorder struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewTestLogger returns a logger whose records are captured by the
// returned recorder. All levels are enabled.
func NewTestLogger() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	return slog.New(recorderHandler{rec: rec}), rec
}

// Records returns a copy of everything captured so far.
func (r *LogRecorder) Records() []LogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]LogRecord, len(r.records))
	copy(records, r.records)
	return records
}

// ContainsMessage reports whether any record's message contains the
// given substring.
func (r *LogRecorder) ContainsMessage(message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if strings.Contains(rec.Message, message) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any record carries the given attribute.
// Note slog stores integer attributes as int64.
func (r *LogRecorder) ContainsAttr(key string, value any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if v, ok := rec.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

func (r *LogRecorder) append(rec LogRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// recorderHandler feeds records into a LogRecorder. Attributes attached
// with Logger.With are folded into every subsequent record.
type recorderHandler struct {
	rec  *LogRecorder
	base []slog.Attr
}

func (h recorderHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(h.base))
	for _, a := range h.base {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.rec.append(LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

func (h recorderHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recorderHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	base := make([]slog.Attr, 0, len(h.base)+len(attrs))
	base = append(base, h.base...)
	base = append(base, attrs...)
	return recorderHandler{rec: h.rec, base: base}
}

// WithGroup is accepted but not tracked; grouped attributes land flat.
func (h recorderHandler) WithGroup(string) slog.Handler { return h }
