package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestContextHandler(t *testing.T) {
	t.Run("adds trace and span ids", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil))).With("component", "test")

		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		logger.InfoContext(ctx, "hello")

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("failed to decode log line: %v", err)
		}
		if rec["trace_id"] != traceID.String() {
			t.Errorf("expected trace_id %s, got %v", traceID, rec["trace_id"])
		}
		if rec["span_id"] != spanID.String() {
			t.Errorf("expected span_id %s, got %v", spanID, rec["span_id"])
		}
		if rec["component"] != "test" {
			t.Errorf("expected component attr to survive With, got %v", rec["component"])
		}
	})

	t.Run("no span in context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

		logger.InfoContext(context.Background(), "hello")

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("failed to decode log line: %v", err)
		}
		if _, ok := rec["trace_id"]; ok {
			t.Errorf("expected no trace_id, got %v", rec["trace_id"])
		}
	})
}
