package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("EMBEDDING_DIM", "1536")
	t.Setenv("DB_PATH", filepath.Join(tmp, "app.db"))
	t.Setenv("VECTOR_DIR", filepath.Join(tmp, "vectors"))
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.EmbeddingDim != 1536 {
		t.Errorf("EmbeddingDim = %d, want 1536", cfg.EmbeddingDim)
	}
	if cfg.APIPort != "8080" {
		t.Errorf("APIPort = %q, want 8080", cfg.APIPort)
	}
	if cfg.ScrapeWindowDays != 7 {
		t.Errorf("ScrapeWindowDays = %d, want 7", cfg.ScrapeWindowDays)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when LLM_API_KEY missing")
	}
}

func TestLoadMissingEmbeddingDim(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMBEDDING_DIM", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when EMBEDDING_DIM missing")
	}
}

func TestLoadInvalidEmbeddingDim(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not a number", value: "abc"},
		{name: "zero", value: "0"},
		{name: "negative", value: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("EMBEDDING_DIM", tt.value)

			if _, err := Load(); err == nil {
				t.Fatal("expected error for invalid EMBEDDING_DIM")
			}
		})
	}
}

func TestLoadLogLevels(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{value: "debug", want: slog.LevelDebug},
		{value: "warn", want: slog.LevelWarn},
		{value: "error", want: slog.LevelError},
		{value: "nonsense", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("LOG_LEVEL", tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.LogLevel != tt.want {
				t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, tt.want)
			}
		})
	}
}

func TestLoadScrapeOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCRAPE_MAX_PAGES", "3")
	t.Setenv("FOLLOW_UP_DAYS", "14")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ScrapeMaxPages != 3 {
		t.Errorf("ScrapeMaxPages = %d, want 3", cfg.ScrapeMaxPages)
	}
	if cfg.FollowUpDays != 14 {
		t.Errorf("FollowUpDays = %d, want 14", cfg.FollowUpDays)
	}
}
