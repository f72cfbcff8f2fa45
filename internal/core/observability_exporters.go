package core

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// JSONTracer is a Tracer that appends one JSON line per finished span to a
// writer. It suits batch hosts that want a trace record without an external
// tracing backend.
type JSONTracer struct {
	mu      sync.Mutex
	w       io.Writer
	entries []TraceEntry
}

// TraceEntry is the serialised form of one finished span.
type TraceEntry struct {
	Operation  string    `json:"operation"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewJSONTracer constructs a tracer writing to w; a nil writer keeps entries
// in memory only.
func NewJSONTracer(w io.Writer) *JSONTracer {
	return &JSONTracer{w: w}
}

// Start implements Tracer.
func (t *JSONTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &jsonSpan{tracer: t, operation: operation, startedAt: time.Now().UTC()}
}

// Entries returns a copy of all finished spans in completion order.
func (t *JSONTracer) Entries() []TraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]TraceEntry(nil), t.entries...)
}

func (t *JSONTracer) finish(entry TraceEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
	if t.w == nil {
		return
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = t.w.Write(append(line, '\n'))
}

type jsonSpan struct {
	tracer    *JSONTracer
	operation string
	startedAt time.Time
}

func (s *jsonSpan) End(err error) {
	entry := TraceEntry{
		Operation:  s.operation,
		Status:     string(AuditStatusSuccess),
		StartedAt:  s.startedAt,
		FinishedAt: time.Now().UTC(),
	}
	if err != nil {
		entry.Status = string(AuditStatusError)
		entry.Error = err.Error()
	}
	s.tracer.finish(entry)
}
