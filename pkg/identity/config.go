package identity

import (
	"fmt"
	"net/url"
	"os"
)

// Mode selects how the request owner is established.
type Mode string

const (
	// ModeHeader trusts an owner header injected by an upstream gateway.
	ModeHeader Mode = "header"
	// ModeOIDC verifies a bearer ID token against an OIDC issuer.
	ModeOIDC Mode = "oidc"
)

// Config holds identity resolution settings.
type Config struct {
	Mode     Mode   `toml:"mode"`
	Header   string `toml:"header"`
	Issuer   string `toml:"issuer"`
	ClientID string `toml:"client_id"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Mode     string
	Header   string
	Issuer   string
	ClientID string
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
	if overlay.Mode != "" {
		c.Mode = overlay.Mode
	}
	if overlay.Header != "" {
		c.Header = overlay.Header
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
}

func (c *Config) loadDefaults() {
	if c.Mode == "" {
		c.Mode = ModeHeader
	}
	if c.Header == "" {
		c.Header = "X-User-ID"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Mode != "" {
		if v := os.Getenv(env.Mode); v != "" {
			c.Mode = Mode(v)
		}
	}
	if env.Header != "" {
		if v := os.Getenv(env.Header); v != "" {
			c.Header = v
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeHeader:
		return nil
	case ModeOIDC:
		if _, err := url.ParseRequestURI(c.Issuer); err != nil {
			return fmt.Errorf("oidc mode requires a valid issuer: %w", err)
		}
		if c.ClientID == "" {
			return fmt.Errorf("oidc mode requires client_id")
		}
		return nil
	default:
		return fmt.Errorf("unsupported identity mode: %s", c.Mode)
	}
}
