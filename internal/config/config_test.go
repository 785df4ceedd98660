package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MARKTREE_CONFIG", "")
	t.Setenv("WORKER_COUNT", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("expected sqlite backend, got %q", cfg.StoreBackend)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.WorkerCount)
	}
	if cfg.AutosaveDelay != 2*time.Second {
		t.Errorf("expected 2s autosave delay, got %s", cfg.AutosaveDelay)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MARKTREE_CONFIG", "")
	t.Setenv("PORT", "9000")
	t.Setenv("WORKER_COUNT", "-1")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("AUTOSAVE_DELAY", "0s")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("MAX_QUEUE_SIZE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected non-positive worker count clamped to 2, got %d", cfg.WorkerCount)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("expected 5m session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.AutosaveDelay != 0 {
		t.Errorf("expected autosave disabled, got %s", cfg.AutosaveDelay)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
	if cfg.MaxQueueSize != 100 {
		t.Errorf("expected invalid queue size to fall back to 100, got %d", cfg.MaxQueueSize)
	}
}

func TestLoad_YAMLFileUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marktree.yaml")
	yml := "port: \"7000\"\napi_key: from-file\nstore_backend: pathstore\npathstore_api_key: ps\njob_ttl: 10m\nworker_count: 6\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MARKTREE_CONFIG", path)
	t.Setenv("PORT", "7100")
	t.Setenv("WORKER_COUNT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7100" {
		t.Errorf("expected env to override file port, got %q", cfg.Port)
	}
	if cfg.APIKey != "from-file" {
		t.Errorf("expected api key from file, got %q", cfg.APIKey)
	}
	if cfg.StoreBackend != "pathstore" {
		t.Errorf("expected pathstore backend, got %q", cfg.StoreBackend)
	}
	if cfg.JobTTL != 10*time.Minute {
		t.Errorf("expected 10m job ttl, got %s", cfg.JobTTL)
	}
	if cfg.WorkerCount != 6 {
		t.Errorf("expected 6 workers, got %d", cfg.WorkerCount)
	}
	if cfg.DBPath != "marktree.db" {
		t.Errorf("expected default db path to survive, got %q", cfg.DBPath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("MARKTREE_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok sqlite", func(c *Config) { c.APIKey = "k" }, false},
		{"missing api key", func(c *Config) {}, true},
		{"pathstore without key", func(c *Config) { c.APIKey = "k"; c.StoreBackend = "pathstore" }, true},
		{"pathstore with key", func(c *Config) { c.APIKey = "k"; c.StoreBackend = "pathstore"; c.PathstoreAPIKey = "p" }, false},
		{"unknown backend", func(c *Config) { c.APIKey = "k"; c.StoreBackend = "redis" }, true},
	}
	for _, tt := range tests {
		cfg := Defaults()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: expected error=%v, got %v", tt.name, tt.wantErr, err)
		}
	}
}
