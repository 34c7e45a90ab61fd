package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/lfsrscan/internal/errors"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{" warn ", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"off", zerolog.Disabled, false},
		{"verbose", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidConfiguration) {
					t.Errorf("ParseLevel(%q) error = %v, want configuration error", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestZerologAdapter_Fields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewLogger(&buf, "test")

	l.Info("scan", String("polynomial", "1001"), Int("bits", 4), Uint64("seeds", 16),
		Float64("progress", 0.5), Bool("parallel", true), Field{Key: "extra", Value: []int{1}})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log entry is not JSON: %v (%s)", err, buf.String())
	}
	checks := map[string]any{
		"component":  "test",
		"message":    "scan",
		"polynomial": "1001",
		"bits":       float64(4),
		"seeds":      float64(16),
		"progress":   0.5,
		"parallel":   true,
		"level":      "info",
	}
	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("entry[%q] = %v, want %v", k, entry[k], want)
		}
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewZerologAdapter(NewZerolog(&buf, zerolog.InfoLevel, false))

	l.Debug("hidden")
	l.Error("failed", errors.New("boom"), Err(errors.New("inner")))
	l.Printf("formatted %d", 7)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug entry should be filtered at info level")
	}
	if !strings.Contains(out, `"error":"boom"`) || !strings.Contains(out, "formatted 7") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestNewZerolog_Console(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewZerolog(&buf, zerolog.DebugLevel, true)
	logger.Debug().Msg("hello")
	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "hello") {
		t.Errorf("console output = %q", buf.String())
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewStdLoggerAdapter(stdlog.New(&buf, "", 0))

	l.Info("started")
	l.Debug("detail", String("k", "v"))
	l.Error("failed", errors.New("boom"))
	l.Printf("port %d", 8080)

	want := []string{"[INFO] started", "[DEBUG] detail", "[ERROR] failed: boom", "port 8080"}
	for _, w := range want {
		if !strings.Contains(buf.String(), w) {
			t.Errorf("output missing %q:\n%s", w, buf.String())
		}
	}
}
