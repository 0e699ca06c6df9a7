package ratelimit

import (
	"context"
	"fmt"
	"sync"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/mentorhub/internal/config"
	"github.com/smallbiznis/mentorhub/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const keySuggestionOrg = "suggestions:org:%s"

// SuggestionLimiter caps AI suggestion calls per organization. It uses the
// shared Redis bucket when Redis is configured and a per-process bucket
// otherwise.
type SuggestionLimiter struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	bucket  *TokenBucket

	perSecond float64
	burst     int

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

type SuggestionLimiterParams struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Redis   redis.UniversalClient `optional:"true"`
	Metrics *metrics.Metrics      `optional:"true"`
}

func NewSuggestionLimiter(p SuggestionLimiterParams) *SuggestionLimiter {
	perMinute := p.Config.AI.RatePerMinute
	if perMinute <= 0 {
		perMinute = 20
	}
	burst := p.Config.AI.Burst
	if burst <= 0 {
		burst = 1
	}

	return &SuggestionLimiter{
		log:       p.Log.Named("ratelimit.suggestions"),
		metrics:   p.Metrics,
		bucket:    NewTokenBucket(p.Redis),
		perSecond: perMinute / 60,
		burst:     burst,
		local:     make(map[string]*rate.Limiter),
	}
}

// Allow consumes one token for orgID. A Redis failure falls back to the
// in-process bucket.
func (l *SuggestionLimiter) Allow(ctx context.Context, orgID string) bool {
	if l == nil {
		return true
	}

	allowed := false
	if l.bucket != nil {
		res, err := l.bucket.Allow(ctx, fmt.Sprintf(keySuggestionOrg, orgID), l.perSecond, l.burst)
		if err == nil {
			allowed = res.Allowed
		} else {
			l.log.Warn("redis rate limit failed, using local bucket", zap.Error(err))
			allowed = l.localLimiter(orgID).Allow()
		}
	} else {
		allowed = l.localLimiter(orgID).Allow()
	}

	if !allowed {
		l.metrics.RecordRateLimitDenied(ctx, orgID, "suggestions", "bucket_empty")
	}
	return allowed
}

func (l *SuggestionLimiter) localLimiter(orgID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.local[orgID]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(l.perSecond), l.burst)
		l.local[orgID] = lim
	}
	return lim
}
