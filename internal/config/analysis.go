package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvAnalysisUploadTTL = "CLAUSEWISE_ANALYSIS_UPLOAD_TTL"
	EnvAnalysisCacheTTL  = "CLAUSEWISE_ANALYSIS_CACHE_TTL"
	EnvAnalysisLanguage  = "CLAUSEWISE_ANALYSIS_LANGUAGE"
)

// AnalysisConfig holds contract analysis settings.
type AnalysisConfig struct {
	UploadTTL string `toml:"upload_ttl"`
	CacheTTL  string `toml:"cache_ttl"`
	Language  string `toml:"language"`
}

// UploadTTLDuration returns UploadTTL as a time.Duration.
func (c *AnalysisConfig) UploadTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.UploadTTL)
	return d
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (c *AnalysisConfig) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AnalysisConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.UploadTTL != "" {
		c.UploadTTL = overlay.UploadTTL
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
	if overlay.Language != "" {
		c.Language = overlay.Language
	}
}

func (c *AnalysisConfig) loadDefaults() {
	if c.UploadTTL == "" {
		c.UploadTTL = "1h"
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "1h"
	}
	if c.Language == "" {
		c.Language = "en"
	}
}

func (c *AnalysisConfig) loadEnv() {
	if v := os.Getenv(EnvAnalysisUploadTTL); v != "" {
		c.UploadTTL = v
	}
	if v := os.Getenv(EnvAnalysisCacheTTL); v != "" {
		c.CacheTTL = v
	}
	if v := os.Getenv(EnvAnalysisLanguage); v != "" {
		c.Language = v
	}
}

func (c *AnalysisConfig) validate() error {
	for name, v := range map[string]string{"upload_ttl": c.UploadTTL, "cache_ttl": c.CacheTTL} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
