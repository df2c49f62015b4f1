package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/trackpro/internal/constants"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("TRACKPRO_DB", "")
	t.Setenv("TRACKPRO_TIMEZONE", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Storage.Location != constants.DefaultStorePath {
		t.Errorf("expected default store path, got %q", cfg.Storage.Location)
	}
	if cfg.Insights.Model != constants.DefaultInsightModel {
		t.Errorf("expected default model, got %q", cfg.Insights.Model)
	}
	if cfg.InsightTimeout() != constants.DefaultInsightTimeout {
		t.Errorf("expected default timeout, got %v", cfg.InsightTimeout())
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("TRACKPRO_DB", "")
	t.Setenv("TRACKPRO_TIMEZONE", "")
	t.Setenv("GEMINI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Storage.Location = "/tmp/trackpro.db"
	cfg.Timezone = "UTC"
	cfg.Insights.Timeout = "5s"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Storage.Location != "/tmp/trackpro.db" {
		t.Errorf("location = %q", loaded.Storage.Location)
	}
	if loaded.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", loaded.Location())
	}
	if loaded.InsightTimeout() != 5*time.Second {
		t.Errorf("timeout = %v", loaded.InsightTimeout())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRACKPRO_DB", "/data/override.db")
	t.Setenv("TRACKPRO_TIMEZONE", "UTC")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Location != "/data/override.db" {
		t.Errorf("location override not applied: %q", cfg.Storage.Location)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("timezone override not applied: %q", cfg.Timezone)
	}
	if cfg.Insights.APIKey != "secret" {
		t.Error("api key override not applied")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("TRACKPRO_DB", "")
	t.Setenv("TRACKPRO_TIMEZONE", "")

	tests := []struct {
		name string
		yaml string
	}{
		{"bad timezone", "timezone: Mars/Olympus\n"},
		{"bad timeout", "insights:\n  timeout: soon\n"},
		{"empty storage", "storage:\n  location: \"\"\n"},
		{"malformed yaml", "storage: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
