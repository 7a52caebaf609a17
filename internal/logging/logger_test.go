package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromContextAddsRequestID(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "info", "json")

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	WithFields(ctx, "mode", "scatter").Info("rendered")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v: %s", err, buf.String())
	}
	if entry["request_id"] != "req-42" || entry["mode"] != "scatter" {
		t.Errorf("entry = %v", entry)
	}
}

func TestFromContextAddsPassID(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	tests := []struct {
		name    string
		ctx     context.Context
		wantReq any
		wantID  any
	}{
		{
			name: "no ids",
			ctx:  context.Background(),
		},
		{
			name:   "pass only",
			ctx:    WithPass(context.Background(), "pass-7"),
			wantID: "pass-7",
		},
		{
			name:    "request and pass",
			ctx:     WithPass(context.WithValue(context.Background(), middleware.RequestIDKey, "req-42"), "pass-7"),
			wantReq: "req-42",
			wantID:  "pass-7",
		},
		{
			name: "empty pass id ignored",
			ctx:  WithPass(context.Background(), ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetupWriter(&buf, "info", "json")
			FromContext(tt.ctx).Info("pipeline pass")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("log line is not JSON: %v: %s", err, buf.String())
			}
			if entry["request_id"] != tt.wantReq || entry["pass_id"] != tt.wantID {
				t.Errorf("entry = %v", entry)
			}
			if got := PassID(tt.ctx); got != "" && got != tt.wantID {
				t.Errorf("PassID = %q, want %v", got, tt.wantID)
			}
		})
	}
}

func TestSetupWriterLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "warn", "text")
	slog.Info("hidden")
	slog.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q", out)
	}
}
