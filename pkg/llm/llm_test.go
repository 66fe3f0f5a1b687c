package llm_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/clausewise/pkg/llm"
)

func testConfig(t *testing.T) *llm.Config {
	t.Helper()
	cfg := &llm.Config{
		APIKey:    "test-key",
		RetryBase: "1ms",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(t *testing.T, cfg *llm.Config, chat llm.ChatFunc) llm.Client {
	t.Helper()
	c, err := llm.NewWithChat(cfg, chat, discard())
	if err != nil {
		t.Fatalf("NewWithChat: %v", err)
	}
	return c
}

func TestCompletePassesPrompt(t *testing.T) {
	var got string
	c := newClient(t, testConfig(t), func(_ context.Context, prompt string) (string, error) {
		got = prompt
		return "Employment Agreement", nil
	})

	out, err := c.Complete(context.Background(), "classify this")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "Employment Agreement" {
		t.Errorf("content = %q", out)
	}
	if got != "classify this" {
		t.Errorf("prompt = %q", got)
	}
	if c.Model() != "llama-3.3-70b-versatile" {
		t.Errorf("Model() = %s", c.Model())
	}
}

func TestCompleteRetries(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		failures   int
		wantCalls  int32
		wantErr    bool
	}{
		{"first attempt succeeds", 2, 0, 1, false},
		{"recovers after one failure", 2, 1, 2, false},
		{"recovers on last retry", 2, 2, 3, false},
		{"exhausts retries", 2, 5, 3, true},
		{"retries disabled", 0, 5, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.MaxRetries = &tt.maxRetries

			var calls atomic.Int32
			c := newClient(t, cfg, func(context.Context, string) (string, error) {
				if int(calls.Add(1)) <= tt.failures {
					return "", errors.New("upstream trouble")
				}
				return `{"summary":"ok"}`, nil
			})

			_, err := c.Complete(context.Background(), "p")

			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
			if tt.wantErr {
				if !errors.Is(err, llm.ErrProvider) {
					t.Fatalf("error = %v, want ErrProvider", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCompleteStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	c := newClient(t, testConfig(t), func(context.Context, string) (string, error) {
		calls.Add(1)
		cancel()
		return "", errors.New("aborted")
	})

	if _, err := c.Complete(ctx, "p"); !errors.Is(err, llm.ErrProvider) {
		t.Errorf("error = %v, want ErrProvider", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestCompleteAttemptTimeout(t *testing.T) {
	cfg := testConfig(t)
	cfg.Timeout = "10ms"
	none := 0
	cfg.MaxRetries = &none

	c := newClient(t, cfg, func(ctx context.Context, _ string) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "late", nil
		}
	})

	_, err := c.Complete(context.Background(), "p")
	if !errors.Is(err, llm.ErrProvider) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want ErrProvider wrapping a deadline", err)
	}
}

func TestAgentConfig(t *testing.T) {
	cfg := testConfig(t)
	agent := cfg.AgentConfig()

	if agent.SystemPrompt != llm.DefaultSystemPrompt {
		t.Errorf("system prompt = %q", agent.SystemPrompt)
	}
	if agent.Provider == nil || agent.Provider.Name != "ollama" {
		t.Fatalf("provider = %+v", agent.Provider)
	}
	if agent.Provider.BaseURL != "https://api.groq.com/openai" {
		t.Errorf("base url = %s", agent.Provider.BaseURL)
	}
	if agent.Provider.Options["token"] != "test-key" {
		t.Errorf("token option = %v", agent.Provider.Options["token"])
	}
	if agent.Model == nil || agent.Model.Name != "llama-3.3-70b-versatile" {
		t.Errorf("model = %+v", agent.Model)
	}

	opts := cfg.ChatOptions()
	if opts["temperature"] != 0.3 || opts["max_tokens"] != 8192 {
		t.Errorf("chat options = %v", opts)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("api key required", func(t *testing.T) {
		cfg := &llm.Config{}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for missing api_key")
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_LLM_KEY", "from-env")
		t.Setenv("TEST_LLM_MODEL", "mixtral")
		t.Setenv("TEST_LLM_RETRIES", "4")

		cfg := &llm.Config{}
		err := cfg.Finalize(&llm.Env{
			APIKey:     "TEST_LLM_KEY",
			Model:      "TEST_LLM_MODEL",
			MaxRetries: "TEST_LLM_RETRIES",
		})
		if err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.APIKey != "from-env" || cfg.Model != "mixtral" || *cfg.MaxRetries != 4 {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("explicit zeros survive defaults", func(t *testing.T) {
		temp, retries := 0.0, 0
		cfg := &llm.Config{APIKey: "k", Temperature: &temp, MaxRetries: &retries}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if *cfg.Temperature != 0 {
			t.Errorf("temperature = %v, want 0", *cfg.Temperature)
		}
		if *cfg.MaxRetries != 0 {
			t.Errorf("max_retries = %d, want 0", *cfg.MaxRetries)
		}
	})

	t.Run("merge keeps explicit zero", func(t *testing.T) {
		base := &llm.Config{}
		zero := 0.0
		base.Merge(&llm.Config{Temperature: &zero})
		if base.Temperature == nil || *base.Temperature != 0 {
			t.Errorf("temperature = %v", base.Temperature)
		}
	})

	t.Run("invalid temperature", func(t *testing.T) {
		temp := 3.0
		cfg := &llm.Config{APIKey: "k", Temperature: &temp}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for temperature out of range")
		}
	})
}
