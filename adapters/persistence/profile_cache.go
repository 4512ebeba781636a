package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jmakela/profiili/internal/domain/profile"
	"github.com/jmakela/profiili/pkg/logger"
)

const profileCacheTTL = 10 * time.Minute

// RedisProfileCache is a read-through cache for profile records. Entries are
// invalidated by the transaction manager's after-commit listener, so a hit
// is never older than the profile's last committed modification.
type RedisProfileCache struct {
	rdb    *redis.Client
	logger logger.Logger
}

func NewRedisProfileCache(rdb *redis.Client, log logger.Logger) *RedisProfileCache {
	return &RedisProfileCache{rdb: rdb, logger: log}
}

func profileCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("profile:%s", id)
}

func (c *RedisProfileCache) Get(ctx context.Context, id uuid.UUID) (*profile.Profile, bool) {
	data, err := c.rdb.Get(ctx, profileCacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("profile cache read failed", zap.String("profile_id", id.String()), zap.Error(err))
		}
		return nil, false
	}

	p := &profile.Profile{}
	if err := json.Unmarshal(data, p); err != nil {
		c.logger.Warn("profile cache entry corrupt, dropping", zap.String("profile_id", id.String()), zap.Error(err))
		c.rdb.Del(ctx, profileCacheKey(id))
		return nil, false
	}
	return p, true
}

func (c *RedisProfileCache) Set(ctx context.Context, p *profile.Profile) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, profileCacheKey(p.ID), data, profileCacheTTL).Err(); err != nil {
		c.logger.Warn("profile cache write failed", zap.String("profile_id", p.ID.String()), zap.Error(err))
	}
}

// Invalidate drops the cache entries of the given profiles. Registered as a
// TxManager after-commit listener.
func (c *RedisProfileCache) Invalidate(ctx context.Context, profileIDs []uuid.UUID) {
	keys := make([]string, len(profileIDs))
	for i, id := range profileIDs {
		keys[i] = profileCacheKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("profile cache invalidation failed", zap.Error(err))
	}
}
