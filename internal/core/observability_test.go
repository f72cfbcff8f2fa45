package core

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type captureAuditRecorder struct {
	entries []AuditEntry
}

func (c *captureAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureAuditRecorder) has(op string, status AuditStatus) bool {
	for _, entry := range c.entries {
		if entry.Operation == op && entry.Status == status {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	ended []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

type captureLogger struct {
	msgs []string
}

func (c *captureLogger) Debug(msg string, _ ...any) { c.msgs = append(c.msgs, msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.msgs = append(c.msgs, msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.msgs = append(c.msgs, msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.msgs = append(c.msgs, msg) }

func TestClockFuncNilFallsBackToUTC(t *testing.T) {
	got := ClockFunc(nil).Now()
	if got.IsZero() {
		t.Fatal("expected non-zero time from nil ClockFunc")
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC, got %s", got.Location())
	}
}

func TestClockFuncNormalisesToUTC(t *testing.T) {
	fixed := time.Date(2026, 7, 4, 12, 34, 56, 0, time.FixedZone("offset", -5*3600))
	got := ClockFunc(func() time.Time { return fixed }).Now()
	if !got.Equal(fixed) || got.Location() != time.UTC {
		t.Fatalf("got %s, want %s in UTC", got, fixed.UTC())
	}
}

func TestNoopDefaultsDoNotPanic(t *testing.T) {
	logger := noopLogger{}
	logger.Debug("msg", "k", "v")
	logger.Info("msg")
	logger.Warn("msg")
	logger.Error("msg")

	noopAuditRecorder{}.Record(context.Background(), AuditEntry{})
	noopMetricsRecorder{}.Observe(context.Background(), "op", true, time.Millisecond)
	_, span := noopTracer{}.Start(context.Background(), "op")
	span.End(nil)
}

func TestJSONTracerWritesSpanEntries(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)

	_, span := tracer.Start(context.Background(), "allocate")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "undo")
	span.End(context.DeadlineExceeded)

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Operation != "allocate" || entries[0].Status != string(AuditStatusSuccess) {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Status != string(AuditStatusError) || entries[1].Error == "" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	if !strings.Contains(buf.String(), `"operation":"allocate"`) {
		t.Fatalf("JSON output missing operation: %q", buf.String())
	}
}
