package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Storage: "sqlite" or "pathstore"
	StoreBackend string `yaml:"store_backend"`
	DBPath       string `yaml:"db_path"`

	// Pathstore connection
	PathstoreURL    string `yaml:"pathstore_url"`
	PathstoreAPIKey string `yaml:"pathstore_api_key"`

	// Import worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Job and session state
	JobTTL        time.Duration `yaml:"job_ttl"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	AutosaveDelay time.Duration `yaml:"autosave_delay"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:                 "8090",
		StoreBackend:         "sqlite",
		DBPath:               "marktree.db",
		PathstoreURL:         "http://localhost:8080",
		WorkerCount:          2,
		MaxQueueSize:         100,
		MaxUploadBytes:       20 << 20, // 20MB
		JobTTL:               1 * time.Hour,
		SessionTTL:           30 * time.Minute,
		AutosaveDelay:        2 * time.Second,
		PDFFallbackPdftotext: true,
	}
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Load builds the configuration from MARKTREE_CONFIG (if set) and then the
// environment, which takes precedence.
func Load() (Config, error) {
	base := Defaults()
	if path := os.Getenv("MARKTREE_CONFIG"); path != "" {
		var err error
		if base, err = LoadFile(path); err != nil {
			return base, err
		}
	}

	cfg := Config{
		Port: envOr("PORT", base.Port),

		APIKey: envOr("MARKTREE_API_KEY", base.APIKey),

		StoreBackend: envOr("STORE_BACKEND", base.StoreBackend),
		DBPath:       envOr("DB_PATH", base.DBPath),

		PathstoreURL:    envOr("PATHSTORE_URL", base.PathstoreURL),
		PathstoreAPIKey: envOr("PATHSTORE_API_KEY", base.PathstoreAPIKey),

		WorkerCount:  envInt("WORKER_COUNT", base.WorkerCount),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", base.MaxQueueSize),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", base.MaxUploadBytes),

		JobTTL:        envDuration("JOB_TTL", base.JobTTL),
		SessionTTL:    envDuration("SESSION_TTL", base.SessionTTL),
		AutosaveDelay: envDuration("AUTOSAVE_DELAY", base.AutosaveDelay),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", base.PDFFallbackPdftotext),
	}

	def := Defaults()
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = def.WorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = def.MaxQueueSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = def.JobTTL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = def.SessionTTL
	}
	if cfg.AutosaveDelay < 0 {
		cfg.AutosaveDelay = 0
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("MARKTREE_API_KEY is required")
	}
	switch c.StoreBackend {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite backend")
		}
	case "pathstore":
		if c.PathstoreAPIKey == "" {
			return fmt.Errorf("PATHSTORE_API_KEY is required for the pathstore backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
