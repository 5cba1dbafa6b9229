// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"WARN", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("water_id", "pond-1").Msg("scan complete")

	out := buf.String()
	if !strings.Contains(out, `"water_id":"pond-1"`) {
		t.Errorf("missing structured field in output: %s", out)
	}
	if !strings.Contains(out, `"message":"scan complete"`) {
		t.Errorf("missing message in output: %s", out)
	}
}

func TestNewTestLogger_Captures(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)

	logger.Warn().Int("count", 3).Msg("clusters detected")

	if !strings.Contains(buf.String(), `"count":3`) {
		t.Errorf("test logger did not capture field: %s", buf.String())
	}
}

func TestSlogHandler_WritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	logger := slog.New(handler)

	logger.Info("model swapped", slog.Int("version", 4))

	out := buf.String()
	if !strings.Contains(out, `"version":4`) {
		t.Errorf("missing attribute in output: %s", out)
	}
	if !strings.Contains(out, "model swapped") {
		t.Errorf("missing message in output: %s", out)
	}
}

func TestSlogHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	logger := slog.New(handler).WithGroup("supervisor")

	logger.Info("service restarted", slog.String("name", "artifact-watcher"))

	if !strings.Contains(buf.String(), `"supervisor.name":"artifact-watcher"`) {
		t.Errorf("group prefix missing: %s", buf.String())
	}
}
