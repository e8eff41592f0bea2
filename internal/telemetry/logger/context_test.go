package logger

import (
	"context"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("test message")

	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	if l := FromContext(context.Background()); l == nil {
		t.Error("FromContext should return default logger, got nil")
	}
}

func TestWithConnID(t *testing.T) {
	ctx := WithConnID(context.Background(), "01HZX")

	if got := ConnIDFromContext(ctx); got != "01HZX" {
		t.Errorf("ConnIDFromContext() = %q, want %q", got, "01HZX")
	}
	if got := ConnIDFromContext(context.Background()); got != "" {
		t.Errorf("ConnIDFromContext() = %q, want empty string", got)
	}
}

func TestL_AddsConnID(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	ctx := WithLogger(context.Background(), l)
	ctx = WithConnID(ctx, "conn-1")
	L(ctx).Info("handled")

	entry := decode(t, buf)
	if entry["conn_id"] != "conn-1" {
		t.Errorf("conn_id = %v, want conn-1", entry["conn_id"])
	}
}
