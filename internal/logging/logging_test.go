package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/phuslu/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"chatty", log.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", &buf)

	logger.Info().Msg("hidden")
	logger.Error().Str("path", "a/s.wav").Err(errors.New("boom")).Msg("download failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "download failed") || !strings.Contains(out, "a/s.wav") || !strings.Contains(out, "boom") {
		t.Errorf("expected error line with path and error, got %q", out)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error().Msg("nothing to see")
}
