package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/clausewise/pkg/lifecycle"
)

type redisStore struct {
	client      *redis.Client
	logger      *slog.Logger
	dialTimeout time.Duration
}

// NewRedis creates a blob store over an existing Redis client.
func NewRedis(client *redis.Client, logger *slog.Logger) System {
	return &redisStore{
		client:      client,
		logger:      logger.With("system", "storage", "backend", BackendRedis),
		dialTimeout: 5 * time.Second,
	}
}

func newRedis(cfg *RedisConfig, logger *slog.Logger) System {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeoutDuration(),
	})

	store := NewRedis(client, logger).(*redisStore)
	store.dialTimeout = cfg.DialTimeoutDuration()
	return store
}

func (s *redisStore) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting storage system")

	lc.OnStartup(func() {
		pingCtx, cancel := context.WithTimeout(lc.Context(), s.dialTimeout)
		defer cancel()

		if err := s.client.Ping(pingCtx).Err(); err != nil {
			s.logger.Error("redis ping failed", "error", err)
			return
		}

		s.logger.Info("redis connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		if err := s.client.Close(); err != nil {
			s.logger.Error("redis close failed", "error", err)
			return
		}

		s.logger.Info("redis connection closed")
	})

	return nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
