package logger

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevelFiltering(t *testing.T) {
	originalLogger := Logger
	t.Cleanup(func() {
		Logger = originalLogger
		SetLogLevel(INFO)
	})

	var buf bytes.Buffer
	Logger = slog.New(slog.NewTextHandler(&buf, nil))

	SetLogLevel(INFO)
	Debug("debug message should be filtered")
	Info("info message should appear")

	output := buf.String()
	if strings.Contains(output, "debug message should be filtered") {
		t.Fatalf("debug message was logged at INFO level:\n%s", output)
	}
	if !strings.Contains(output, "info message should appear") {
		t.Fatalf("info message was not logged:\n%s", output)
	}
}

func TestParseLogLevel(t *testing.T) {
	if level, err := ParseLogLevel(" Debug "); err != nil || level != DEBUG {
		t.Fatalf("expected DEBUG, got %v (err %v)", level, err)
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestConfigureCreatesLogFile(t *testing.T) {
	originalLogger := Logger
	t.Cleanup(func() {
		Logger = originalLogger
		SetLogLevel(INFO)
	})

	path := filepath.Join(t.TempDir(), "logs", "bot.log")
	if err := Configure(Options{Level: "error", File: path}); err != nil {
		t.Fatalf("Configure returned error: %v", err)
	}
	if currentLevel != ERROR {
		t.Fatalf("expected ERROR level, got %v", currentLevel)
	}
}
