package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"tracker/src/models"
	"tracker/src/utils"
	redis_utils "tracker/src/utils/redis"
)

// CategoryTotalsCache keeps the per-user category aggregation between writes.
//
// Readers take Version before computing totals and hand it back to Set.
// Invalidate bumps the version, so totals computed before a write are
// dropped instead of stored.
type CategoryTotalsCache interface {
	Get(ctx context.Context, userID string) ([]models.CategoryTotal, bool, error)
	Version(ctx context.Context, userID string) (int64, error)
	Set(ctx context.Context, userID string, version int64, totals []models.CategoryTotal) error
	Invalidate(ctx context.Context, userID string) error
}

func categoryKey(userID string) string {
	return redis_utils.GenerateKey("transactions", "byCategory", userID)
}

func versionKey(userID string) string {
	return redis_utils.GenerateKey("transactions", "byCategory", "version", userID)
}

type redisCategoryCache struct {
	handler *redis_utils.RedisHandler
	ttl     time.Duration
}

func NewRedisCategoryCache(handler *redis_utils.RedisHandler, ttl time.Duration) CategoryTotalsCache {
	return &redisCategoryCache{handler: handler, ttl: ttl}
}

func (c *redisCategoryCache) Get(ctx context.Context, userID string) ([]models.CategoryTotal, bool, error) {
	var totals []models.CategoryTotal
	err := c.handler.Get(ctx, categoryKey(userID), &totals)
	if errors.Is(err, redis_utils.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return totals, true, nil
}

func (c *redisCategoryCache) Version(ctx context.Context, userID string) (int64, error) {
	return c.handler.GetInt64(ctx, versionKey(userID))
}

func (c *redisCategoryCache) Set(ctx context.Context, userID string, version int64, totals []models.CategoryTotal) error {
	err := c.handler.SetIfVersion(ctx, versionKey(userID), version, categoryKey(userID), totals, c.ttl)
	if errors.Is(err, redis_utils.ErrVersionChanged) {
		return nil
	}
	return err
}

func (c *redisCategoryCache) Invalidate(ctx context.Context, userID string) error {
	return c.handler.IncrAndDelete(ctx, versionKey(userID), categoryKey(userID))
}

// memoryCategoryCache keeps one version counter per user seen by Invalidate.
type memoryCategoryCache struct {
	cache    *utils.Cache[[]models.CategoryTotal]
	ttl      time.Duration
	mutex    sync.Mutex
	versions map[string]int64
}

func NewMemoryCategoryCache(ttl time.Duration) CategoryTotalsCache {
	return &memoryCategoryCache{
		cache:    utils.NewCache[[]models.CategoryTotal](),
		ttl:      ttl,
		versions: make(map[string]int64),
	}
}

func (c *memoryCategoryCache) Get(_ context.Context, userID string) ([]models.CategoryTotal, bool, error) {
	totals, ok := c.cache.Get(categoryKey(userID))
	return totals, ok, nil
}

func (c *memoryCategoryCache) Version(_ context.Context, userID string) (int64, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.versions[userID], nil
}

func (c *memoryCategoryCache) Set(_ context.Context, userID string, version int64, totals []models.CategoryTotal) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.versions[userID] != version {
		return nil
	}
	c.cache.Set(categoryKey(userID), totals, c.ttl)
	return nil
}

func (c *memoryCategoryCache) Invalidate(_ context.Context, userID string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.versions[userID]++
	c.cache.Delete(categoryKey(userID))
	return nil
}

type noopCategoryCache struct{}

// NewNoopCategoryCache never stores anything.
func NewNoopCategoryCache() CategoryTotalsCache {
	return noopCategoryCache{}
}

func (noopCategoryCache) Get(context.Context, string) ([]models.CategoryTotal, bool, error) {
	return nil, false, nil
}

func (noopCategoryCache) Version(context.Context, string) (int64, error) { return 0, nil }

func (noopCategoryCache) Set(context.Context, string, int64, []models.CategoryTotal) error {
	return nil
}

func (noopCategoryCache) Invalidate(context.Context, string) error { return nil }
