package service

import (
	"context"

	"github.com/smallbiznis/mentorhub/internal/cohort/domain"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"github.com/smallbiznis/mentorhub/internal/stats"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo performancedomain.Repository
}

type Aggregator struct {
	db   *gorm.DB
	log  *zap.Logger
	repo performancedomain.Repository
}

func New(p Params) domain.Aggregator {
	return &Aggregator{
		db:   p.DB,
		log:  p.Log.Named("cohort.service"),
		repo: p.Repo,
	}
}

func (a *Aggregator) Aggregate(ctx context.Context, req domain.AggregateRequest) (domain.Baseline, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.Baseline{}, domain.ErrInvalidOrganization
	}
	if req.CohortID == 0 {
		return domain.Baseline{}, domain.ErrInvalidCohort
	}

	rows, err := a.repo.ListCohort(ctx, a.db, orgID, req.CohortID, req.Period, req.ExcludeMenteeID)
	if err != nil {
		return domain.Baseline{}, err
	}

	baseline := Summarize(rows, req)
	a.log.Debug("cohort aggregated",
		zap.String("cohort_id", req.CohortID.String()),
		zap.String("period", req.Period.String()),
		zap.Int("peers", baseline.PeerCount),
	)
	return baseline, nil
}

// Summarize averages every metric across rows after dropping the subject
// mentee and any row outside the requested period.
func Summarize(rows []performancedomain.MonthlyMetric, req domain.AggregateRequest) domain.Baseline {
	baseline := domain.Baseline{CohortID: req.CohortID, Period: req.Period}

	peers := make([]performancedomain.MonthlyMetric, 0, len(rows))
	for _, row := range rows {
		if row.MenteeID == req.ExcludeMenteeID || row.Period() != req.Period {
			continue
		}
		peers = append(peers, row)
	}

	baseline.PeerCount = len(peers)
	if len(peers) == 0 {
		return baseline
	}

	var averages performancedomain.MetricAverages
	values := make([]float64, len(peers))
	for _, kind := range performancedomain.AllMetrics {
		for i, row := range peers {
			values[i] = kind.Value(row)
		}
		averages.Set(kind, stats.Mean(values))
	}
	baseline.Averages = &averages
	return baseline
}
