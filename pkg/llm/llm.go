// Package llm is a chat gateway over go-agents. Each call creates an agent
// carrying the configured system prompt, sends one user prompt, and returns
// the response text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Client sends prompts to a chat model.
type Client interface {
	// Complete returns the response content. Failures wrap ErrProvider.
	Complete(ctx context.Context, prompt string) (string, error)
	// Model returns the configured model identifier.
	Model() string
}

// ChatFunc performs a single chat exchange.
type ChatFunc func(ctx context.Context, prompt string) (string, error)

type client struct {
	chat       ChatFunc
	model      string
	timeout    time.Duration
	maxRetries uint64
	retryBase  time.Duration
	retries    metric.Int64Counter
	logger     *slog.Logger
}

// New creates a Client that chats through a go-agents agent built from cfg.
func New(cfg *Config, logger *slog.Logger) (Client, error) {
	agentCfg := cfg.AgentConfig()
	if _, err := agent.New(&agentCfg); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return NewWithChat(cfg, agentChat(agentCfg, cfg.ChatOptions()), logger)
}

// NewWithChat creates a Client around an existing chat function.
func NewWithChat(cfg *Config, chat ChatFunc, logger *slog.Logger) (Client, error) {
	retries, err := otel.Meter("github.com/JaimeStill/clausewise/pkg/llm").Int64Counter(
		"clausewise.llm.retries",
		metric.WithDescription("Chat attempts retried after a failure"),
	)
	if err != nil {
		return nil, fmt.Errorf("create retry counter: %w", err)
	}

	return &client{
		chat:       chat,
		model:      cfg.Model,
		timeout:    cfg.TimeoutDuration(),
		maxRetries: uint64(*cfg.MaxRetries),
		retryBase:  cfg.RetryBaseDuration(),
		retries:    retries,
		logger:     logger.With("system", "llm"),
	}, nil
}

func agentChat(cfg gaconfig.AgentConfig, opts map[string]any) ChatFunc {
	return func(ctx context.Context, prompt string) (string, error) {
		a, err := agent.New(&cfg)
		if err != nil {
			return "", fmt.Errorf("create agent: %w", err)
		}

		resp, err := a.Chat(ctx, prompt, opts)
		if err != nil {
			return "", fmt.Errorf("chat call: %w", err)
		}
		return resp.Content(), nil
	}
}

func (c *client) Model() string {
	return c.model
}

func (c *client) Complete(ctx context.Context, prompt string) (string, error) {
	var (
		content string
		attempt int
	)

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		out, err := c.send(ctx, prompt)
		if err == nil {
			content = out
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if uint64(attempt) <= c.maxRetries {
			c.retries.Add(ctx, 1, metric.WithAttributes(attribute.String("model", c.model)))
			c.logger.Warn("chat failed, retrying", "attempt", attempt, "error", err)
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}

	c.logger.Debug("chat response received", "attempts", attempt, "chars", len(content))
	return content, nil
}

func (c *client) send(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.chat(ctx, prompt)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
		return "", fmt.Errorf("chat timed out after %s: %w", c.timeout, err)
	}
	return out, err
}
