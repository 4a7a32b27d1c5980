// ABOUTME: Tests for logger initialization and level parsing.
// ABOUTME: Verifies JSON output, component tagging and level filtering.
package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.WarnLevel},
		{"", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitJSONComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	l := Component("store")
	l.Debug().Str("path", "app.json").Msg("loaded")

	out := buf.String()
	if !strings.Contains(out, `"component":"store"`) {
		t.Errorf("expected component field, got %s", out)
	}
	if !strings.Contains(out, `"message":"loaded"`) {
		t.Errorf("expected message field, got %s", out)
	}
}

func TestInitFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "error", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Warn().Msg("should not appear")
	Info().Msg("should not appear")
	Debug().Msg("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected no output below error level, got %s", buf.String())
	}

	Error().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected error message, got %s", buf.String())
	}
}
