// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate moves the test into an empty directory so that no config.yaml or .env
// from the repository is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Dataset.Path != "data/usage.csv" {
		t.Errorf("Dataset.Path = %q, want data/usage.csv", cfg.Dataset.Path)
	}
	if cfg.Analytics.ZeroRequestPolicy != ZeroRequestExclude {
		t.Errorf("Analytics.ZeroRequestPolicy = %q, want %q", cfg.Analytics.ZeroRequestPolicy, ZeroRequestExclude)
	}
	if cfg.Analytics.TopSpenders != 5 {
		t.Errorf("Analytics.TopSpenders = %d, want 5", cfg.Analytics.TopSpenders)
	}
	if cfg.Server.Port != 8501 {
		t.Errorf("Server.Port = %d, want 8501", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want 1m", cfg.Security.RateLimitWindow)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanf_FileThenEnv(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "custom.yaml")
	content := `
dataset:
  path: /srv/usage.csv
  watch: false
analytics:
  zero_request_policy: propagate
  top_spenders: 3
server:
  port: 9000
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Dataset.Path != "/srv/usage.csv" || cfg.Dataset.Watch {
		t.Errorf("Dataset = %+v, want path from file and watch=false", cfg.Dataset)
	}
	if cfg.Analytics.ZeroRequestPolicy != ZeroRequestPropagate || cfg.Analytics.TopSpenders != 3 {
		t.Errorf("Analytics = %+v, want file values", cfg.Analytics)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v, want two trimmed origins", cfg.Security.CORSOrigins)
	}
	if cfg.Security.RateLimitWindow != 30*time.Second {
		t.Errorf("RateLimitWindow = %v, want 30s", cfg.Security.RateLimitWindow)
	}
}

func TestLoadWithKoanf_DotEnv(t *testing.T) {
	dir := isolate(t)

	if err := os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("DATASET_PATH=/from/dotenv.csv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the variable on the process; register it so t.Setenv restores it.
	t.Setenv("DATASET_PATH", "")
	os.Unsetenv("DATASET_PATH")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Dataset.Path != "/from/dotenv.csv" {
		t.Errorf("Dataset.Path = %q, want value from .env", cfg.Dataset.Path)
	}
}

func TestLoadWithKoanf_UnmappedEnvIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("SERVER_PORT", "1") // not a mapped name

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 8501 {
		t.Errorf("Server.Port = %d, unmapped env should be ignored", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty dataset path", func(c *Config) { c.Dataset.Path = " " }, "DATASET_PATH"},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, "DUCKDB_THREADS"},
		{"zero cache", func(c *Config) { c.Analytics.CacheCapacity = 0 }, "ANALYTICS_CACHE_CAPACITY"},
		{"bad policy", func(c *Config) { c.Analytics.ZeroRequestPolicy = "ignore" }, "ANALYTICS_ZERO_REQUEST_POLICY"},
		{"zero sample", func(c *Config) { c.Analytics.ScatterSampleLimit = 0 }, "ANALYTICS_SCATTER_SAMPLE_LIMIT"},
		{"top spenders", func(c *Config) { c.Analytics.TopSpenders = 0 }, "ANALYTICS_TOP_SPENDERS"},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"environment", func(c *Config) { c.Server.Environment = "qa" }, "ENVIRONMENT"},
		{"page size", func(c *Config) { c.API.DefaultPageSize = 5000 }, "API_DEFAULT_PAGE_SIZE"},
		{"rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate window", func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, "RATE_LIMIT_WINDOW"},
		{"supervisor", func(c *Config) { c.Supervisor.FailureBackoff = 0 }, "SUPERVISOR_FAILURE_BACKOFF"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RateLimitDisabledSkipsBounds(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.RateLimitDisabled = true
	cfg.Security.RateLimitReqs = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil when rate limiting is disabled", err)
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	cfg := defaultConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS in development should not warn")
	}
	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() || !cfg.IsProduction() {
		t.Error("wildcard CORS in production should warn")
	}
	cfg.Security.CORSOrigins = []string{"https://dash.example"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8501}
	if got := s.Addr(); got != "127.0.0.1:8501" {
		t.Errorf("Addr() = %q", got)
	}
}
