package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/clausewise/internal/config"
	"github.com/JaimeStill/clausewise/pkg/identity"
	"github.com/JaimeStill/clausewise/pkg/storage"
)

const baseConfig = `
shutdown_timeout = "20s"
version = "1.2.0"

[server]
port = 8081

[database]
host = "db"
name = "contracts"
user = "analyst"

[storage]
backend = "memory"

[llm]
model = "llama-3.1-8b-instant"

[identity]
mode = "header"
header = "X-Owner"

[api]
max_upload_size = "5MB"

[api.pagination]
default_page_size = 10
max_page_size = 40

[analysis]
upload_ttl = "30m"
language = "en"

[logging]
level = "debug"
format = "json"
`

const overlayConfig = `
[server]
port = 9090

[analysis]
cache_ttl = "2h"
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func withAPIKey(t *testing.T) {
	t.Helper()
	t.Setenv("CLAUSEWISE_LLM_API_KEY", "gsk_test")
	t.Setenv(config.EnvClausewiseEnv, "")
}

func TestLoadFrom(t *testing.T) {
	withAPIKey(t)
	base := writeConfig(t, t.TempDir(), "config.toml", baseConfig)

	cfg, err := config.LoadFrom(base)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("server.port = %d", cfg.Server.Port)
	}
	if cfg.ShutdownTimeoutDuration() != 20*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Database.Name != "contracts" || cfg.Database.Port != 5432 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Storage.Backend != storage.BackendMemory {
		t.Errorf("storage.backend = %s", cfg.Storage.Backend)
	}
	if cfg.LLM.Model != "llama-3.1-8b-instant" || cfg.LLM.APIKey != "gsk_test" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Identity.Mode != identity.ModeHeader || cfg.Identity.Header != "X-Owner" {
		t.Errorf("identity = %+v", cfg.Identity)
	}
	if cfg.API.MaxUploadSizeBytes() != 5*1024*1024 {
		t.Errorf("max upload = %d", cfg.API.MaxUploadSizeBytes())
	}
	if cfg.API.Pagination.MaxPageSize != 40 {
		t.Errorf("pagination = %+v", cfg.API.Pagination)
	}
	if cfg.Analysis.UploadTTLDuration() != 30*time.Minute {
		t.Errorf("upload ttl = %v", cfg.Analysis.UploadTTLDuration())
	}
	if cfg.Analysis.CacheTTLDuration() != time.Hour {
		t.Errorf("cache ttl = %v", cfg.Analysis.CacheTTLDuration())
	}
	if cfg.Logging.SlogLevel() != slog.LevelDebug || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadFromOverlay(t *testing.T) {
	withAPIKey(t)
	dir := t.TempDir()
	base := writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	t.Setenv(config.EnvClausewiseEnv, "staging")

	cfg, err := config.LoadFrom(base)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("overlay port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Analysis.CacheTTLDuration() != 2*time.Hour {
		t.Errorf("overlay cache ttl = %v", cfg.Analysis.CacheTTLDuration())
	}
	if cfg.Database.Host != "db" {
		t.Errorf("base value lost: host = %s", cfg.Database.Host)
	}
	if cfg.Env() != "staging" {
		t.Errorf("Env() = %s", cfg.Env())
	}
}

func TestLoadFromDefaults(t *testing.T) {
	withAPIKey(t)

	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"server addr", cfg.Server.Addr(), "0.0.0.0:8080"},
		{"base path", cfg.API.BasePath, "/api"},
		{"max upload", cfg.API.MaxUploadSizeBytes(), int64(10 * 1024 * 1024)},
		{"storage backend", cfg.Storage.Backend, storage.BackendRedis},
		{"llm model", cfg.LLM.Model, "llama-3.3-70b-versatile"},
		{"llm temperature", *cfg.LLM.Temperature, 0.3},
		{"llm max tokens", cfg.LLM.MaxTokens, 8192},
		{"identity mode", cfg.Identity.Mode, identity.ModeHeader},
		{"upload ttl", cfg.Analysis.UploadTTLDuration(), time.Hour},
		{"cache ttl", cfg.Analysis.CacheTTLDuration(), time.Hour},
		{"language", cfg.Analysis.Language, "en"},
		{"log level", cfg.Logging.SlogLevel(), slog.LevelInfo},
		{"env", cfg.Env(), "local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	withAPIKey(t)
	t.Setenv(config.EnvServerPort, "7000")
	t.Setenv("CLAUSEWISE_DB_HOST", "envhost")
	t.Setenv("CLAUSEWISE_STORAGE_BACKEND", "memory")
	t.Setenv("CLAUSEWISE_LLM_MODEL", "mixtral-8x7b")
	t.Setenv(config.EnvAnalysisCacheTTL, "15m")
	t.Setenv(config.EnvLoggingFormat, "json")

	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Database.Host != "envhost" {
		t.Errorf("db host = %s", cfg.Database.Host)
	}
	if cfg.Storage.Backend != storage.BackendMemory {
		t.Errorf("backend = %s", cfg.Storage.Backend)
	}
	if cfg.LLM.Model != "mixtral-8x7b" {
		t.Errorf("model = %s", cfg.LLM.Model)
	}
	if cfg.Analysis.CacheTTLDuration() != 15*time.Minute {
		t.Errorf("cache ttl = %v", cfg.Analysis.CacheTTLDuration())
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format = %s", cfg.Logging.Format)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		apiKey  string
	}{
		{"malformed toml", "[server\nport = 1", "k"},
		{"missing api key", "", ""},
		{"bad port", "[server]\nport = 70000", "k"},
		{"bad cache ttl", "[analysis]\ncache_ttl = \"soon\"", "k"},
		{"zero upload ttl", "[analysis]\nupload_ttl = \"0s\"", "k"},
		{"bad log format", "[logging]\nformat = \"xml\"", "k"},
		{"bad upload size", "[api]\nmax_upload_size = \"lots\"", "k"},
		{"oidc without issuer", "[identity]\nmode = \"oidc\"", "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CLAUSEWISE_LLM_API_KEY", tt.apiKey)
			t.Setenv(config.EnvClausewiseEnv, "")
			base := writeConfig(t, t.TempDir(), "config.toml", tt.content)

			if _, err := config.LoadFrom(base); err == nil {
				t.Error("expected error")
			}
		})
	}
}
