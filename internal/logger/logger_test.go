package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewWithWriter_ServiceField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("backend", "info", &buf)
	l.Info("boot")

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got := out["service"]; got != "backend" {
		t.Errorf("service = %v, want %q", got, "backend")
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("backend", "warn", &buf)
	l.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info line should be suppressed at warn level, got %q", buf.String())
	}
	l.Warn("emitted")
	if buf.Len() == 0 {
		t.Error("warn line should be emitted at warn level")
	}
}

func TestWithContext_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "req-123")
	cl := WithContext(ctx, l)
	cl.Info("hello")

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got := out["correlation_id"]; got != "req-123" {
		t.Errorf("correlation_id = %v, want %q", got, "req-123")
	}
}

func TestWithContext_UserID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "info", &buf)

	ctx := WithUserID(context.Background(), "u-42")
	cl := WithContext(ctx, l)
	cl.Info("hello")

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got := out["user_id"]; got != "u-42" {
		t.Errorf("user_id = %v, want %q", got, "u-42")
	}
}

func TestWithContext_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "info", &buf)

	cl := WithContext(context.Background(), l)
	cl.Info("no span")

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := out["trace_id"]; ok {
		t.Error("trace_id should not be present when no span in context")
	}
	if _, ok := out["span_id"]; ok {
		t.Error("span_id should not be present when no span in context")
	}
}

func TestFromContext_Fallback(t *testing.T) {
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("FromContext should fall back to slog.Default()")
	}
}

func TestFromContext_RoundTrip(t *testing.T) {
	l := NewWithWriter("test", "info", &bytes.Buffer{})
	ctx := NewContext(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Error("FromContext should return the stored logger")
	}
}
