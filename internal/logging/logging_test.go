package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_DefaultConfig(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := NewWithWriter(DefaultConfig(), &buf)
	if closer != nil {
		t.Error("expected nil closer without a file path")
	}

	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be enabled")
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug to be disabled")
	}

	logger.Info("scanning artists", "count", 3)
	if !strings.Contains(buf.String(), "msg=\"scanning artists\"") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
		blocked slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"bogus", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, _ := NewWithWriter(Config{Level: tt.level, Format: "text"}, &bytes.Buffer{})
			if !logger.Enabled(context.Background(), tt.enabled) {
				t.Errorf("expected %v enabled", tt.enabled)
			}
			if logger.Enabled(context.Background(), tt.blocked) {
				t.Errorf("expected %v disabled", tt.blocked)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)
	logger.Info("uploaded", slog.String("artist", "Radiohead"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["artist"] != "Radiohead" {
		t.Errorf("artist = %v, want Radiohead", entry["artist"])
	}
}

func TestNew_FileOutput(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "run.log")

	var console bytes.Buffer
	logger, closer := NewWithWriter(Config{Level: "info", Format: "text", FilePath: logPath}, &console)
	if closer == nil {
		t.Fatal("expected closer for file output")
	}

	logger.Info("test message to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "test message to file") {
		t.Errorf("log file missing message, got %q", data)
	}
	if !strings.Contains(console.String(), "test message to file") {
		t.Errorf("console missing message, got %q", console.String())
	}
}

func TestValidLevel(t *testing.T) {
	for _, l := range []string{"debug", "info", "warn", "error"} {
		if !ValidLevel(l) {
			t.Errorf("expected %q to be valid", l)
		}
	}
	for _, l := range []string{"", "trace", "INFO"} {
		if ValidLevel(l) {
			t.Errorf("expected %q to be invalid", l)
		}
	}
}

func TestValidFormat(t *testing.T) {
	if !ValidFormat("text") || !ValidFormat("json") {
		t.Error("expected text and json to be valid")
	}
	if ValidFormat("xml") {
		t.Error("expected xml to be invalid")
	}
}

func TestConfigString(t *testing.T) {
	cfg := Config{Level: "debug", Format: "json", FilePath: "/logs/run.log"}
	s := cfg.String()
	if !strings.Contains(s, "level=debug") || !strings.Contains(s, "file=/logs/run.log") {
		t.Errorf("unexpected String(): %q", s)
	}
}
