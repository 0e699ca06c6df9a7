package service

import (
	"context"
	"errors"

	"github.com/smallbiznis/mentorhub/internal/config"
	"github.com/smallbiznis/mentorhub/internal/observability/logger"
	"github.com/smallbiznis/mentorhub/internal/observability/metrics"
	"github.com/smallbiznis/mentorhub/internal/ratelimit"
	"github.com/smallbiznis/mentorhub/internal/suggestion/domain"
	"github.com/smallbiznis/mentorhub/internal/suggestion/fallback"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Config   *config.AlertingConfigHolder
	Provider domain.Provider              `optional:"true"`
	Limiter  *ratelimit.SuggestionLimiter `optional:"true"`
	Metrics  *metrics.Metrics             `optional:"true"`
}

type Composer struct {
	log      *zap.Logger
	cfg      *config.AlertingConfigHolder
	provider domain.Provider
	limiter  *ratelimit.SuggestionLimiter
	metrics  *metrics.Metrics
}

func New(p Params) domain.Composer {
	return &Composer{
		log:      p.Log.Named("suggestion.service"),
		cfg:      p.Config,
		provider: p.Provider,
		limiter:  p.Limiter,
		metrics:  p.Metrics,
	}
}

func (c *Composer) Compose(ctx context.Context, in domain.Context) domain.Result {
	result := c.compose(ctx, in)
	c.metrics.RecordSuggestions(ctx, string(result.Source))
	return result
}

func (c *Composer) compose(ctx context.Context, in domain.Context) domain.Result {
	if c.provider == nil {
		return fallback.Result(in.Alerts)
	}
	log := logger.WithContext(ctx, c.log).With(zap.String("mentee_id", in.MenteeID))

	if !c.limiter.Allow(ctx, in.OrgID) {
		log.Info("suggestion provider rate limited, using fallback")
		return fallback.Result(in.Alerts)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Get().SuggestionTimeout)
	defer cancel()

	result, err := c.provider.Generate(callCtx, in)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("suggestion provider timed out, using fallback")
		return fallback.Result(in.Alerts)
	case err != nil:
		log.Warn("suggestion provider failed, using fallback", zap.Error(err))
		return fallback.Result(in.Alerts)
	case len(result.Suggestions) == 0:
		return fallback.Result(in.Alerts)
	}

	if len(result.Suggestions) > fallback.MaxSuggestions {
		result.Suggestions = result.Suggestions[:fallback.MaxSuggestions]
	}
	result.Source = domain.SourceAI
	return result
}
