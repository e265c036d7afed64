// Package cache keeps user profiles fetched from the user directory so event
// snapshots do not cost a remote call per booking.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Eursukkul/room-booking-service/internal/client"
	"github.com/Eursukkul/room-booking-service/pkg/logger"
)

var (
	ErrCacheMiss    = errors.New("cache miss")
	ErrCorruptEntry = errors.New("corrupt cache entry")
)

type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl}
}

func (c *UserCache) Get(ctx context.Context, id string) (*client.User, error) {
	raw, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var user client.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	return &user, nil
}

func (c *UserCache) Set(ctx context.Context, id string, user *client.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, userKey(id), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *UserCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, userKey(id)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func userKey(id string) string {
	return fmt.Sprintf("users:profile:%s", id)
}

// UserDirectory is the lookup the cache sits in front of.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*client.User, error)
}

// CachedUsers reads through the cache. Cache failures fall back to the
// directory; directory errors are returned unchanged and never cached.
type CachedUsers struct {
	next  UserDirectory
	cache *UserCache
	log   *zap.Logger
}

func NewCachedUsers(next UserDirectory, cache *UserCache) *CachedUsers {
	return &CachedUsers{next: next, cache: cache, log: logger.Named("cache")}
}

func (c *CachedUsers) FindByID(ctx context.Context, id string) (*client.User, error) {
	user, err := c.cache.Get(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("user cache read failed", zap.String("user_id", id), zap.Error(err))
	}
	if errors.Is(err, ErrCorruptEntry) {
		if err := c.cache.Invalidate(ctx, id); err != nil {
			c.log.Warn("user cache invalidate failed", zap.String("user_id", id), zap.Error(err))
		}
	}

	user, err = c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, id, user); err != nil {
		c.log.Warn("user cache write failed", zap.String("user_id", id), zap.Error(err))
	}
	return user, nil
}
