package llm

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// DefaultSystemPrompt frames the assistant as a JSON-only contract analyst.
const DefaultSystemPrompt = "You are a contract analysis expert. You provide precise, structured analysis in JSON format only. Never include markdown formatting or extra text outside the JSON."

// Config holds chat provider settings. Temperature and MaxRetries are
// pointers so an explicit zero survives defaulting.
type Config struct {
	Provider     string   `toml:"provider"`
	BaseURL      string   `toml:"base_url"`
	APIKey       string   `toml:"api_key"`
	Model        string   `toml:"model"`
	SystemPrompt string   `toml:"system_prompt"`
	Temperature  *float64 `toml:"temperature"`
	MaxTokens    int      `toml:"max_tokens"`
	Timeout      string   `toml:"timeout"`
	MaxRetries   *int     `toml:"max_retries"`
	RetryBase    string   `toml:"retry_base"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider   string
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    string
	MaxRetries string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// RetryBaseDuration returns RetryBase as a time.Duration.
func (c *Config) RetryBaseDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryBase)
	return d
}

// AgentConfig projects the settings onto a go-agents agent configuration.
func (c *Config) AgentConfig() gaconfig.AgentConfig {
	overlay := gaconfig.AgentConfig{
		Name:         "clausewise",
		SystemPrompt: c.SystemPrompt,
		Provider: &gaconfig.ProviderConfig{
			Name:    c.Provider,
			BaseURL: c.BaseURL,
			Options: map[string]any{"token": c.APIKey},
		},
		Model: &gaconfig.ModelConfig{
			Name: c.Model,
		},
	}

	cfg := gaconfig.DefaultAgentConfig()
	cfg.Merge(&overlay)
	cfg.Name = overlay.Name
	cfg.SystemPrompt = overlay.SystemPrompt
	cfg.Provider = overlay.Provider
	cfg.Model = overlay.Model
	return cfg
}

// ChatOptions returns the per-request model options.
func (c *Config) ChatOptions() map[string]any {
	return map[string]any{
		"temperature": *c.Temperature,
		"max_tokens":  c.MaxTokens,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields set in overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.SystemPrompt != "" {
		c.SystemPrompt = overlay.SystemPrompt
	}
	if overlay.Temperature != nil {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxRetries != nil {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.RetryBase != "" {
		c.RetryBase = overlay.RetryBase
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = "ollama"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.groq.com/openai"
	}
	if c.Model == "" {
		c.Model = "llama-3.3-70b-versatile"
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.Temperature == nil {
		t := 0.3
		c.Temperature = &t
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 8192
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.MaxRetries == nil {
		n := 2
		c.MaxRetries = &n
	}
	if c.RetryBase == "" {
		c.RetryBase = "500ms"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.MaxRetries != "" {
		if v := os.Getenv(env.MaxRetries); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxRetries = &n
			}
		}
	}
}

func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key required")
	}
	if *c.Temperature < 0 || *c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2]: %v", *c.Temperature)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if *c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.RetryBase); err != nil {
		return fmt.Errorf("invalid retry_base: %w", err)
	}
	return nil
}
