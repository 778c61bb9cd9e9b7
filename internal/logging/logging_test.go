package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" warn ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit_EnvFallback(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	t.Setenv(EnvLogLevel, "error")
	InitWithWriter("", &bytes.Buffer{})
	if zerolog.GlobalLevel() != zerolog.ErrorLevel {
		t.Errorf("level = %v, want error from env", zerolog.GlobalLevel())
	}

	InitWithWriter("debug", &bytes.Buffer{})
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want explicit debug", zerolog.GlobalLevel())
	}
}

func TestStartupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	NewStartupLogger("generate").
		CommitHash("abc1234").
		BuildTime("2026-01-02T03:04:05Z").
		Feature("metrics", true).
		Config("model", "gemini-2.5-flash-image").
		event(logger.Info())

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("startup event is not JSON: %v", err)
	}

	binary, ok := doc["binary"].(map[string]interface{})
	if !ok {
		t.Fatal("missing binary dict")
	}
	if binary["command"] != "generate" || binary["commitHash"] != "abc1234" {
		t.Errorf("binary = %v", binary)
	}
	if features := doc["features"].(map[string]interface{}); features["metrics"] != true {
		t.Errorf("features = %v", features)
	}
	if cfg := doc["config"].(map[string]interface{}); cfg["model"] != "gemini-2.5-flash-image" {
		t.Errorf("config = %v", cfg)
	}
	if doc["message"] != "Startup complete" {
		t.Errorf("message = %v", doc["message"])
	}
}
