package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	callprepdomain "github.com/smallbiznis/mentorhub/internal/callprep/domain"
	"github.com/smallbiznis/mentorhub/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyBundle = "callprep:bundle:%s"

// BundleCache holds composed call-preparation bundles per mentee until their
// TTL elapses or Invalidate is called.
type BundleCache interface {
	Get(ctx context.Context, orgID, menteeID string) (callprepdomain.Bundle, bool)
	Set(ctx context.Context, orgID, menteeID string, bundle callprepdomain.Bundle)
	Invalidate(ctx context.Context, orgID, menteeID string)
}

type BundleCacheParams struct {
	fx.In

	Log    *zap.Logger
	Config *config.AlertingConfigHolder
	Redis  redis.UniversalClient `optional:"true"`
}

func NewBundleCache(p BundleCacheParams) BundleCache {
	log := p.Log.Named("cache.bundle")
	if p.Redis != nil {
		return &redisBundleCache{client: p.Redis, cfg: p.Config, log: log}
	}
	return &memoryBundleCache{entries: NewTTLCache[string, callprepdomain.Bundle](), cfg: p.Config}
}

type redisBundleCache struct {
	client redis.UniversalClient
	cfg    *config.AlertingConfigHolder
	log    *zap.Logger
}

func (c *redisBundleCache) Get(ctx context.Context, orgID, menteeID string) (callprepdomain.Bundle, bool) {
	raw, err := c.client.Get(ctx, bundleKey(orgID, menteeID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("bundle cache read failed", zap.Error(err))
		}
		return callprepdomain.Bundle{}, false
	}

	var bundle callprepdomain.Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		c.log.Warn("bundle cache entry unreadable", zap.Error(err))
		return callprepdomain.Bundle{}, false
	}
	return bundle, true
}

func (c *redisBundleCache) Set(ctx context.Context, orgID, menteeID string, bundle callprepdomain.Bundle) {
	ttl := c.cfg.Get().BundleCacheTTL
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(bundle)
	if err != nil {
		c.log.Warn("bundle cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, bundleKey(orgID, menteeID), raw, ttl).Err(); err != nil {
		c.log.Warn("bundle cache write failed", zap.Error(err))
	}
}

func (c *redisBundleCache) Invalidate(ctx context.Context, orgID, menteeID string) {
	if err := c.client.Del(ctx, bundleKey(orgID, menteeID)).Err(); err != nil {
		c.log.Warn("bundle cache invalidate failed", zap.Error(err))
	}
}

type memoryBundleCache struct {
	entries Cache[string, callprepdomain.Bundle]
	cfg     *config.AlertingConfigHolder
}

func (c *memoryBundleCache) Get(_ context.Context, orgID, menteeID string) (callprepdomain.Bundle, bool) {
	return c.entries.Get(bundleKey(orgID, menteeID))
}

func (c *memoryBundleCache) Set(_ context.Context, orgID, menteeID string, bundle callprepdomain.Bundle) {
	c.entries.Set(bundleKey(orgID, menteeID), bundle, c.cfg.Get().BundleCacheTTL)
}

func (c *memoryBundleCache) Invalidate(_ context.Context, orgID, menteeID string) {
	c.entries.Delete(bundleKey(orgID, menteeID))
}

func bundleKey(orgID, menteeID string) string {
	return fmt.Sprintf(keyBundle, cacheKey(orgID, menteeID))
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}
