package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/clausewise/pkg/lifecycle"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

type memory struct {
	mu     sync.Mutex
	items  map[string]memoryItem
	now    func() time.Time
	logger *slog.Logger
}

// NewMemory creates a process-local blob store. Expired entries are evicted
// on access. A nil now uses time.Now.
func NewMemory(logger *slog.Logger, now func() time.Time) System {
	if now == nil {
		now = time.Now
	}
	return &memory{
		items:  make(map[string]memoryItem),
		now:    now,
		logger: logger.With("system", "storage", "backend", BackendMemory),
	}
}

func (m *memory) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("starting storage system")
	return nil
}

func (m *memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}

	item := memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

func (m *memory) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		delete(m.items, key)
		return nil, ErrNotFound
	}

	return append([]byte(nil), item.value...), nil
}

func (m *memory) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}
