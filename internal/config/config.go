package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/clausewise/pkg/database"
	"github.com/JaimeStill/clausewise/pkg/identity"
	"github.com/JaimeStill/clausewise/pkg/llm"
	"github.com/JaimeStill/clausewise/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvClausewiseEnv             = "CLAUSEWISE_ENV"
	EnvClausewiseShutdownTimeout = "CLAUSEWISE_SHUTDOWN_TIMEOUT"
	EnvClausewiseVersion         = "CLAUSEWISE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CLAUSEWISE_DB_HOST",
	Port:            "CLAUSEWISE_DB_PORT",
	Name:            "CLAUSEWISE_DB_NAME",
	User:            "CLAUSEWISE_DB_USER",
	Password:        "CLAUSEWISE_DB_PASSWORD",
	SSLMode:         "CLAUSEWISE_DB_SSL_MODE",
	MaxOpenConns:    "CLAUSEWISE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CLAUSEWISE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CLAUSEWISE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CLAUSEWISE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Backend:          "CLAUSEWISE_STORAGE_BACKEND",
	RedisAddr:        "CLAUSEWISE_REDIS_ADDR",
	RedisUsername:    "CLAUSEWISE_REDIS_USERNAME",
	RedisPassword:    "CLAUSEWISE_REDIS_PASSWORD",
	RedisDB:          "CLAUSEWISE_REDIS_DB",
	ContainerName:    "CLAUSEWISE_STORAGE_CONTAINER_NAME",
	ConnectionString: "CLAUSEWISE_STORAGE_CONNECTION_STRING",
	AccountURL:       "CLAUSEWISE_STORAGE_ACCOUNT_URL",
}

var llmEnv = &llm.Env{
	Provider:   "CLAUSEWISE_LLM_PROVIDER",
	BaseURL:    "CLAUSEWISE_LLM_BASE_URL",
	APIKey:     "CLAUSEWISE_LLM_API_KEY",
	Model:      "CLAUSEWISE_LLM_MODEL",
	Timeout:    "CLAUSEWISE_LLM_TIMEOUT",
	MaxRetries: "CLAUSEWISE_LLM_MAX_RETRIES",
}

var identityEnv = &identity.Env{
	Mode:     "CLAUSEWISE_IDENTITY_MODE",
	Header:   "CLAUSEWISE_IDENTITY_HEADER",
	Issuer:   "CLAUSEWISE_IDENTITY_ISSUER",
	ClientID: "CLAUSEWISE_IDENTITY_CLIENT_ID",
}

// Config is the root configuration for the clausewise service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	LLM             llm.Config      `toml:"llm"`
	Identity        identity.Config `toml:"identity"`
	API             APIConfig       `toml:"api"`
	Analysis        AnalysisConfig  `toml:"analysis"`
	Logging         LoggingConfig   `toml:"logging"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the CLAUSEWISE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvClausewiseEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFrom(BaseConfigFile)
}

// LoadFrom behaves like Load with an explicit base file path. The overlay is
// resolved relative to the same directory.
func LoadFrom(base string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(base); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.LLM.Merge(&overlay.LLM)
	c.Identity.Merge(&overlay.Identity)
	c.API.Merge(&overlay.API)
	c.Analysis.Merge(&overlay.Analysis)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.LLM.Finalize(llmEnv); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Identity.Finalize(identityEnv); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Analysis.Finalize(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvClausewiseShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvClausewiseVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	env := os.Getenv(EnvClausewiseEnv)
	if env == "" {
		return ""
	}

	path := fmt.Sprintf(OverlayConfigPattern, env)
	if dir := filepath.Dir(base); dir != "." {
		path = filepath.Join(dir, path)
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
