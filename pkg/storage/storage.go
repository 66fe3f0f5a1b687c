// Package storage provides a short-lived key/value blob store with per-key TTL.
// Redis is the primary backend; Azure Blob Storage and an in-process map are
// available for deployments without Redis and for tests.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/clausewise/pkg/lifecycle"
)

// System stores opaque byte values under string keys with an expiry.
type System interface {
	// Start registers backend startup and shutdown hooks.
	Start(lc *lifecycle.Coordinator) error
	// Set stores value at key. A ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns the value at key, or ErrNotFound if absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// New creates the blob store selected by cfg.Backend.
// Connections are not established until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Backend {
	case BackendRedis:
		return newRedis(&cfg.Redis, logger), nil
	case BackendAzure:
		return newAzure(&cfg.Azure, logger)
	case BackendMemory:
		return NewMemory(logger, nil), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
