package storage

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"
)

// Supported blob store backends.
const (
	BackendRedis  = "redis"
	BackendAzure  = "azure"
	BackendMemory = "memory"
)

var backends = []string{BackendRedis, BackendAzure, BackendMemory}

// Config selects a blob store backend and holds its connection parameters.
type Config struct {
	Backend string      `toml:"backend"`
	Redis   RedisConfig `toml:"redis"`
	Azure   AzureConfig `toml:"azure"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr        string `toml:"addr"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	DB          int    `toml:"db"`
	DialTimeout string `toml:"dial_timeout"`
}

// AzureConfig holds Azure Blob Storage connection parameters.
// AccountURL is used with DefaultAzureCredential when ConnectionString is empty.
type AzureConfig struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend          string
	RedisAddr        string
	RedisUsername    string
	RedisPassword    string
	RedisDB          string
	ContainerName    string
	ConnectionString string
	AccountURL       string
}

// DialTimeoutDuration returns DialTimeout as a time.Duration.
func (c *RedisConfig) DialTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.DialTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Redis.Addr != "" {
		c.Redis.Addr = overlay.Redis.Addr
	}
	if overlay.Redis.Username != "" {
		c.Redis.Username = overlay.Redis.Username
	}
	if overlay.Redis.Password != "" {
		c.Redis.Password = overlay.Redis.Password
	}
	if overlay.Redis.DB != 0 {
		c.Redis.DB = overlay.Redis.DB
	}
	if overlay.Redis.DialTimeout != "" {
		c.Redis.DialTimeout = overlay.Redis.DialTimeout
	}
	if overlay.Azure.ContainerName != "" {
		c.Azure.ContainerName = overlay.Azure.ContainerName
	}
	if overlay.Azure.ConnectionString != "" {
		c.Azure.ConnectionString = overlay.Azure.ConnectionString
	}
	if overlay.Azure.AccountURL != "" {
		c.Azure.AccountURL = overlay.Azure.AccountURL
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendRedis
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.DialTimeout == "" {
		c.Redis.DialTimeout = "5s"
	}
	if c.Azure.ContainerName == "" {
		c.Azure.ContainerName = "uploads"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	set(env.Backend, &c.Backend)
	set(env.RedisAddr, &c.Redis.Addr)
	set(env.RedisUsername, &c.Redis.Username)
	set(env.RedisPassword, &c.Redis.Password)
	set(env.ContainerName, &c.Azure.ContainerName)
	set(env.ConnectionString, &c.Azure.ConnectionString)
	set(env.AccountURL, &c.Azure.AccountURL)

	if env.RedisDB != "" {
		if v := os.Getenv(env.RedisDB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Redis.DB = n
			}
		}
	}
}

func (c *Config) validate() error {
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	switch c.Backend {
	case BackendRedis:
		if _, err := time.ParseDuration(c.Redis.DialTimeout); err != nil {
			return fmt.Errorf("invalid redis dial_timeout: %w", err)
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("invalid redis db: %d", c.Redis.DB)
		}
	case BackendAzure:
		if c.Azure.ContainerName == "" {
			return fmt.Errorf("container_name required")
		}
		if c.Azure.ConnectionString == "" && c.Azure.AccountURL == "" {
			return fmt.Errorf("connection_string or account_url required")
		}
	}

	return nil
}
