package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/clausewise/pkg/storage"
)

// cache is a read-through layer over the store keyed by analysis id.
// Concurrent misses for the same record share one database read.
type cache struct {
	blobs  storage.System
	store  *store
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

func (c *cache) find(ctx context.Context, id uuid.UUID, owner string) (*Analysis, error) {
	if a, ok := c.lookup(ctx, id); ok {
		if a.OwnerID != owner {
			return nil, ErrNotFound
		}
		return a, nil
	}

	v, err, shared := c.group.Do(id.String()+"|"+owner, func() (any, error) {
		a, err := c.store.find(context.WithoutCancel(ctx), id, owner)
		if err != nil {
			return nil, err
		}
		c.fill(context.WithoutCancel(ctx), a)
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("analysis read coalesced", "id", id)
	}

	a := *v.(*Analysis)
	return &a, nil
}

func (c *cache) lookup(ctx context.Context, id uuid.UUID) (*Analysis, bool) {
	data, err := c.blobs.Get(ctx, cacheKey(id))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn("analysis cache read failed", "id", id, "error", err)
		}
		return nil, false
	}

	var a Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		c.logger.Warn("analysis cache entry unreadable", "id", id, "error", err)
		return nil, false
	}
	return &a, true
}

// fill stores a and then drops it again if the record was deleted while
// the store read was in flight.
func (c *cache) fill(ctx context.Context, a *Analysis) {
	data, err := json.Marshal(a)
	if err != nil {
		c.logger.Warn("analysis cache encode failed", "id", a.ID, "error", err)
		return
	}
	if err := c.blobs.Set(ctx, cacheKey(a.ID), data, c.ttl); err != nil {
		c.logger.Warn("analysis cache write failed", "id", a.ID, "error", err)
		return
	}

	if _, err := c.blobs.Get(ctx, tombstoneKey(a.ID)); err == nil {
		c.logger.Debug("analysis deleted during read, dropping cache entry", "id", a.ID)
		c.drop(ctx, a.ID)
	}
}

// evict marks id as deleted before removing its cache entry, so a fill
// racing the delete sees the mark once its own write has landed.
func (c *cache) evict(ctx context.Context, id uuid.UUID) {
	if err := c.blobs.Set(ctx, tombstoneKey(id), []byte{1}, c.ttl); err != nil {
		c.logger.Warn("analysis tombstone write failed", "id", id, "error", err)
	}
	c.drop(ctx, id)
}

func (c *cache) drop(ctx context.Context, id uuid.UUID) {
	if err := c.blobs.Delete(ctx, cacheKey(id)); err != nil {
		c.logger.Warn("analysis cache invalidation failed", "id", id, "error", err)
	}
}
