package service

import (
	"context"
	"errors"
	"testing"
	"time"

	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	"github.com/smallbiznis/mentorhub/internal/config"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"github.com/smallbiznis/mentorhub/internal/ratelimit"
	"github.com/smallbiznis/mentorhub/internal/suggestion/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type providerMock struct {
	mock.Mock
}

func (m *providerMock) Generate(ctx context.Context, in domain.Context) (domain.Result, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Result), args.Error(1)
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ domain.Context) (domain.Result, error) {
	<-ctx.Done()
	return domain.Result{}, ctx.Err()
}

var redAlert = alertdomain.Alert{
	Type:     alertdomain.AlertTypeMetric,
	Metric:   performancedomain.MetricRevenue,
	Severity: alertdomain.SeverityRed,
}

func input() domain.Context {
	return domain.Context{
		OrgID:    "1",
		MenteeID: "2",
		Period:   performancedomain.Period{Year: 2025, Month: 6},
		Alerts:   []alertdomain.Alert{redAlert},
	}
}

func newComposer(provider domain.Provider, limiter *ratelimit.SuggestionLimiter, timeout time.Duration) domain.Composer {
	cfg := config.DefaultAlertingConfig()
	cfg.SuggestionTimeout = timeout
	return New(Params{
		Log:      zap.NewNop(),
		Config:   config.NewStaticAlertingConfig(cfg),
		Provider: provider,
		Limiter:  limiter,
	})
}

func TestComposeWithoutProviderUsesFallback(t *testing.T) {
	res := newComposer(nil, nil, time.Second).Compose(context.Background(), input())
	assert.Equal(t, domain.SourceFallback, res.Source)
	require.NotEmpty(t, res.Suggestions)
	assert.Equal(t, performancedomain.MetricRevenue, res.Suggestions[0].Metric)
}

func TestComposeUsesProviderResult(t *testing.T) {
	p := &providerMock{}
	p.On("Generate", mock.Anything, mock.Anything).Return(domain.Result{
		Suggestions: []domain.Suggestion{{Topic: "Preço"}},
	}, nil)

	res := newComposer(p, nil, time.Second).Compose(context.Background(), input())
	assert.Equal(t, domain.SourceAI, res.Source)
	assert.Equal(t, []domain.Suggestion{{Topic: "Preço"}}, res.Suggestions)
	p.AssertNumberOfCalls(t, "Generate", 1)
}

func TestComposeProviderErrorFallsBack(t *testing.T) {
	p := &providerMock{}
	p.On("Generate", mock.Anything, mock.Anything).Return(domain.Result{}, errors.New("boom"))

	res := newComposer(p, nil, time.Second).Compose(context.Background(), input())
	assert.Equal(t, domain.SourceFallback, res.Source)
	assert.NotEmpty(t, res.Suggestions)
}

func TestComposeEmptyProviderResultFallsBack(t *testing.T) {
	p := &providerMock{}
	p.On("Generate", mock.Anything, mock.Anything).Return(domain.Result{Source: domain.SourceAI}, nil)

	res := newComposer(p, nil, time.Second).Compose(context.Background(), input())
	assert.Equal(t, domain.SourceFallback, res.Source)
}

func TestComposeTimeoutFallsBack(t *testing.T) {
	start := time.Now()
	res := newComposer(slowProvider{}, nil, 20*time.Millisecond).Compose(context.Background(), input())
	assert.Equal(t, domain.SourceFallback, res.Source)
	assert.Less(t, time.Since(start), time.Second)
}

func TestComposeRateLimitedSkipsProvider(t *testing.T) {
	limiter := ratelimit.NewSuggestionLimiter(ratelimit.SuggestionLimiterParams{
		Config: config.Config{AI: config.AIConfig{RatePerMinute: 0.001, Burst: 1}},
		Log:    zap.NewNop(),
	})
	p := &providerMock{}
	p.On("Generate", mock.Anything, mock.Anything).Return(domain.Result{
		Suggestions: []domain.Suggestion{{Topic: "Preço"}},
	}, nil)
	c := newComposer(p, limiter, time.Second)

	first := c.Compose(context.Background(), input())
	second := c.Compose(context.Background(), input())

	assert.Equal(t, domain.SourceAI, first.Source)
	assert.Equal(t, domain.SourceFallback, second.Source)
	p.AssertNumberOfCalls(t, "Generate", 1)
}

func TestComposeCapsProviderSuggestions(t *testing.T) {
	many := make([]domain.Suggestion, 8)
	for i := range many {
		many[i] = domain.Suggestion{Topic: "t"}
	}
	p := &providerMock{}
	p.On("Generate", mock.Anything, mock.Anything).Return(domain.Result{Suggestions: many}, nil)

	res := newComposer(p, nil, time.Second).Compose(context.Background(), input())
	assert.Len(t, res.Suggestions, 5)
}
