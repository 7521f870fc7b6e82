package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "counts runes not bytes",
			input:  "привет мир",
			limit:  6,
			expect: "привет...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestWithProvider(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithProvider(zap.New(core), " gemini ", "gemini-2.5-flash").Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field to be gemini, got %q", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "gemini-2.5-flash" {
		t.Fatalf("unexpected model field: %q", ctx[FieldModel])
	}
}

func TestWithProviderSkipsEmptyValues(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithProvider(zap.New(core), "", "  ").Info("test log")

	if got := len(observed.All()[0].Context); got != 0 {
		t.Fatalf("expected no fields, got %d", got)
	}

	// A nil logger falls back to a no-op logger.
	WithProvider(nil, "gemini", "").Info("another log")
}

func TestNew(t *testing.T) {
	l, err := New(true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be enabled")
	}

	l, err = New(false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be disabled")
	}
}
