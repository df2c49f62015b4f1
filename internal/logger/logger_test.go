package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	if err := Init(Config{Debug: false, LogDir: logDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("day promoted", "user", "u1", "date", "2024-06-01")

	data, err := os.ReadFile(filepath.Join(logDir, "trackpro.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "day promoted") {
		t.Errorf("expected warning in log file, got %q", string(data))
	}
}

func TestDebugSuppressedOutsideDebugMode(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	if err := Init(Config{Debug: false, LogDir: logDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	Debug("hidden message")
	Info("hidden info")

	data, _ := os.ReadFile(filepath.Join(logDir, "trackpro.log"))
	if strings.Contains(string(data), "hidden") {
		t.Errorf("debug and info should not be written at warn level, got %q", string(data))
	}
}

func TestHelpersWithoutInit(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	// Must not panic before Init
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}
