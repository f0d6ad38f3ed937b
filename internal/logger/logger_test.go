package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	logDir := filepath.Dir(LogFilePath(configDir))
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitWithOutputWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Output: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	Info("below the warn threshold")
	Warn("streak walk recovered", "habit", "h1")

	out := buf.String()
	if strings.Contains(out, "below the warn threshold") {
		t.Errorf("info message should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "streak walk recovered") || !strings.Contains(out, "habit=h1") {
		t.Errorf("warn message missing from output: %q", out)
	}
	if !strings.Contains(out, "loomra") {
		t.Errorf("expected app prefix in output: %q", out)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestLogFilePath(t *testing.T) {
	got := LogFilePath("/tmp/cfg")
	want := filepath.Join("/tmp/cfg", "logs", "loomra.log")
	if got != want {
		t.Errorf("LogFilePath() = %q, want %q", got, want)
	}
}
