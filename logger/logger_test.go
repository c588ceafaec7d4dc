package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestInternalOutputCapture(t *testing.T) {
	var buf bytes.Buffer
	SetInternalOutput(&buf)
	defer SetInternalOutput(nil)

	Info("hello %s", "world")
	Debug("debug %d", 42)
	Warn("careful")

	out := buf.String()
	for _, want := range []string{"hello world", "debug 42", "careful", "INFO", "WARN", "DEBUG"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	SetInternalOutput(&buf)
	defer SetInternalOutput(nil)

	err := Errorf("boom: %d", 7)
	if err == nil || err.Error() != "boom: 7" {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "boom: 7") {
		t.Errorf("Errorf should log the message, got %q", buf.String())
	}
}

func TestCtxLoggingIncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	SetInternalOutput(&buf)
	defer SetInternalOutput(nil)

	ctx := WithRequestID(context.Background(), "req-123")
	id, ok := RequestIDFromContext(ctx)
	if !ok || id != "req-123" {
		t.Fatalf("unexpected request id %q (%v)", id, ok)
	}

	InfoCtx(ctx, "remote call finished", "family_code", "fam-42")
	out := buf.String()
	if !strings.Contains(out, "req-123") || !strings.Contains(out, "fam-42") {
		t.Errorf("expected request id and field in output, got %q", out)
	}

	if _, ok := RequestIDFromContext(context.Background()); ok {
		t.Error("expected no request id on empty context")
	}
}

func TestUserOutput(t *testing.T) {
	var buf bytes.Buffer
	SetUserOutput(&buf)
	defer SetUserOutput(nil)

	User("plain %s", "line")
	if buf.String() != "plain line\n" {
		t.Errorf("unexpected user output %q", buf.String())
	}
}
