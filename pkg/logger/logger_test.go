package logger

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_InvalidOutputFallsBack(t *testing.T) {
	t.Parallel()

	log := New(Config{Level: "info", Output: "/nonexistent-dir/log.txt", Format: "text"})
	if log == nil {
		t.Fatal("New() returned nil")
	}
	// Must not panic.
	log.Info("hello", "k", "v")
}

func TestNoop(t *testing.T) {
	t.Parallel()

	log := Noop()
	log.Debug("a")
	log.Info("b", "k", 1)
	log.Warn("c")
	log.Error("d")
	log.With("component", "test").Info("e")
}
