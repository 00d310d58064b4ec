// Package cache keeps per-owner catalog snapshots in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/catalog"
)

// Source loads a snapshot from the system of record.
type Source interface {
	Snapshot(ctx context.Context, owner int64) (catalog.Snapshot, error)
}

// NewClient creates a redis client.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		MinIdleConns: 2,
	})
}

// Catalog is a read-through cache in front of a Source. Redis failures are
// logged and the Source is used directly.
type Catalog struct {
	next   Source
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewCatalog(next Source, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Catalog {
	return &Catalog{next: next, client: client, ttl: ttl, logger: logger}
}

func snapshotKey(owner int64) string {
	return fmt.Sprintf("catalog:snapshot:%d", owner)
}

func (c *Catalog) Snapshot(ctx context.Context, owner int64) (catalog.Snapshot, error) {
	key := snapshotKey(owner)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var snap catalog.Snapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			return snap, nil
		}
		c.logger.Warn("discarding undecodable catalog cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	snap, err := c.next.Snapshot(ctx, owner)
	if err != nil {
		return catalog.Snapshot{}, err
	}

	if data, err := json.Marshal(snap); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot of owner. Call it after any catalog
// write or stock change.
func (c *Catalog) Invalidate(ctx context.Context, owner int64) error {
	if err := c.client.Del(ctx, snapshotKey(owner)).Err(); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}
