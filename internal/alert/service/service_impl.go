package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/internal/alert/domain"
	"github.com/smallbiznis/mentorhub/internal/clock"
	"github.com/smallbiznis/mentorhub/internal/config"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	"github.com/smallbiznis/mentorhub/internal/observability/metrics"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Config      *config.AlertingConfigHolder
	Metrics     *metrics.Metrics `optional:"true"`
	MenteeRepo  menteedomain.Repository
	MetricsRepo performancedomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	cfg         *config.AlertingConfigHolder
	metrics     *metrics.Metrics
	menteeRepo  menteedomain.Repository
	metricsRepo performancedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("alert.service"),
		clock:       p.Clock,
		cfg:         p.Config,
		metrics:     p.Metrics,
		menteeRepo:  p.MenteeRepo,
		metricsRepo: p.MetricsRepo,
	}
}

func (s *Service) CalculateAlerts(ctx context.Context, req domain.CalculateAlertsRequest) (domain.AlertSet, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.AlertSet{}, domain.ErrInvalidOrganization
	}

	menteeID, err := snowflake.ParseString(strings.TrimSpace(req.MenteeID))
	if err != nil || menteeID <= 0 {
		return domain.AlertSet{}, domain.ErrInvalidID
	}

	target := performancedomain.PeriodOf(s.clock.Now())
	if req.Period != nil {
		if !req.Period.Valid() {
			return domain.AlertSet{}, domain.ErrInvalidPeriod
		}
		target = *req.Period
	}

	mentee, err := s.menteeRepo.FindByID(ctx, s.db, orgID, menteeID)
	if err != nil {
		return domain.AlertSet{}, err
	}
	if mentee == nil {
		return domain.AlertSet{}, domain.ErrNotFound
	}

	detector := NewDetector(s.cfg.Get())
	rows, err := s.metricsRepo.ListMonthly(ctx, s.db, orgID, menteeID, detector.LoadRange(target))
	if err != nil {
		return domain.AlertSet{}, err
	}

	set := detector.Detect(performancedomain.NewHistory(rows), target)
	RecordAlerts(ctx, s.metrics, set)

	s.log.Debug("alerts calculated",
		zap.String("mentee_id", menteeID.String()),
		zap.String("period", target.String()),
		zap.Int("alerts", len(set.Alerts)),
		zap.Bool("used_fallback", set.UsedFallback),
	)

	return set, nil
}

// RecordAlerts counts emitted alerts by severity and metric.
func RecordAlerts(ctx context.Context, m *metrics.Metrics, set domain.AlertSet) {
	for _, alert := range set.Alerts {
		name := string(alert.Metric)
		if alert.Type == domain.AlertTypeNoRecord {
			name = string(domain.AlertTypeNoRecord)
		}
		m.RecordAlert(ctx, alert.Severity.String(), name)
	}
}
