package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	alertservice "github.com/smallbiznis/mentorhub/internal/alert/service"
	calendardomain "github.com/smallbiznis/mentorhub/internal/calendar/domain"
	callnotedomain "github.com/smallbiznis/mentorhub/internal/callnote/domain"
	"github.com/smallbiznis/mentorhub/internal/callprep/domain"
	"github.com/smallbiznis/mentorhub/internal/clock"
	cohortdomain "github.com/smallbiznis/mentorhub/internal/cohort/domain"
	"github.com/smallbiznis/mentorhub/internal/config"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	"github.com/smallbiznis/mentorhub/internal/observability/logger"
	"github.com/smallbiznis/mentorhub/internal/observability/metrics"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	suggestiondomain "github.com/smallbiznis/mentorhub/internal/suggestion/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("mentorhub/callprep")

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Config      *config.AlertingConfigHolder
	Metrics     *metrics.Metrics `optional:"true"`
	Mentees     menteedomain.Service
	MenteeRepo  menteedomain.Repository
	MetricsRepo performancedomain.Repository
	NoteRepo    callnotedomain.Repository
	Notes       callnotedomain.Service
	Cohorts     cohortdomain.Aggregator
	Suggestions suggestiondomain.Composer
	Calendar    calendardomain.Connector
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	cfg         *config.AlertingConfigHolder
	metrics     *metrics.Metrics
	mentees     menteedomain.Service
	menteeRepo  menteedomain.Repository
	metricsRepo performancedomain.Repository
	noteRepo    callnotedomain.Repository
	notes       callnotedomain.Service
	cohorts     cohortdomain.Aggregator
	suggestions suggestiondomain.Composer
	calendar    calendardomain.Connector
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("callprep.service"),
		clock:       p.Clock,
		cfg:         p.Config,
		metrics:     p.Metrics,
		mentees:     p.Mentees,
		menteeRepo:  p.MenteeRepo,
		metricsRepo: p.MetricsRepo,
		noteRepo:    p.NoteRepo,
		notes:       p.Notes,
		cohorts:     p.Cohorts,
		suggestions: p.Suggestions,
		calendar:    p.Calendar,
	}
}

func (s *Service) GetCallPreparation(ctx context.Context, req domain.CallPreparationRequest) (domain.Bundle, error) {
	started := time.Now()

	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.Bundle{}, domain.ErrInvalidOrganization
	}

	menteeID, err := snowflake.ParseString(strings.TrimSpace(req.MenteeID))
	if err != nil || menteeID <= 0 {
		return domain.Bundle{}, domain.ErrInvalidID
	}

	target := performancedomain.PeriodOf(s.clock.Now())
	if req.Period != nil {
		if !req.Period.Valid() {
			return domain.Bundle{}, domain.ErrInvalidPeriod
		}
		target = *req.Period
	}

	ctx, span := tracer.Start(ctx, "callprep.GetCallPreparation")
	defer span.End()
	span.SetAttributes(
		attribute.String("mentee_id", menteeID.String()),
		attribute.String("period", target.String()),
	)

	mentee, err := s.menteeRepo.FindByID(ctx, s.db, orgID, menteeID)
	if err != nil {
		return domain.Bundle{}, err
	}
	if mentee == nil {
		return domain.Bundle{}, domain.ErrNotFound
	}

	cfg := s.cfg.Get()
	detector := alertservice.NewDetector(cfg)
	evolution := performancedomain.Trailing(target, cfg.EvolutionMonths)

	var (
		history  performancedomain.History
		alerts   alertdomain.AlertSet
		baseline *cohortdomain.Baseline
		lastNote *callnotedomain.CallNote
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.metricsRepo.ListMonthly(gctx, s.db, orgID, menteeID, historyRange(detector.LoadRange(target), evolution))
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		history = performancedomain.NewHistory(rows)
		alerts = detector.Detect(history, target)
		return nil
	})
	if mentee.CohortID != nil {
		g.Go(func() error {
			b, err := s.cohorts.Aggregate(gctx, cohortdomain.AggregateRequest{
				CohortID:        *mentee.CohortID,
				Period:          target,
				ExcludeMenteeID: mentee.ID,
			})
			if err != nil {
				return fmt.Errorf("aggregate cohort: %w", err)
			}
			baseline = &b
			return nil
		})
	}
	g.Go(func() error {
		note, err := s.noteRepo.FindLast(gctx, s.db, orgID, menteeID)
		if err != nil {
			return fmt.Errorf("load last call note: %w", err)
		}
		lastNote = note
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Bundle{}, err
	}
	alertservice.RecordAlerts(ctx, s.metrics, alerts)

	bundle := domain.Bundle{
		Mentee:          *mentee,
		Period:          target,
		ReferencePeriod: alerts.ReferencePeriod,
		Alerts:          alerts.Alerts,
		UsedFallback:    alerts.UsedFallback,
		NoRecord:        alerts.NoRecord,
		Evolution:       EvolutionSeries(history, evolution),
		Cohort:          compareCohort(mentee.CohortID, target, baseline, history),
		LastCallNote:    lastNote,
		GeneratedAt:     s.clock.Now(),
	}
	if alerts.ReferencePeriod != nil {
		if row, ok := history.Lookup(*alerts.ReferencePeriod); ok {
			bundle.CurrentMetrics = &row
		}
	}

	bundle.Suggestions = s.suggestions.Compose(ctx, suggestionContext(orgID, bundle))

	elapsed := time.Since(started)
	s.metrics.RecordBundle(ctx, elapsed)
	logger.WithContext(ctx, s.log).Info("call preparation composed",
		zap.String("mentee_id", menteeID.String()),
		zap.String("period", target.String()),
		zap.Int("alerts", len(bundle.Alerts)),
		zap.String("suggestion_source", string(bundle.Suggestions.Source)),
		zap.Duration("elapsed", elapsed),
	)

	return bundle, nil
}

func (s *Service) SaveCallNotes(ctx context.Context, req callnotedomain.SaveRequest) (callnotedomain.SaveResponse, error) {
	return s.notes.Save(ctx, req)
}

// historyRange widens the detector's range so it also covers the evolution
// series.
func historyRange(detect, evolution performancedomain.Range) performancedomain.Range {
	out := detect
	if evolution.From.Before(out.From) {
		out.From = evolution.From
	}
	if out.To.Before(evolution.To) {
		out.To = evolution.To
	}
	return out
}

// EvolutionSeries lists every month of r, marking months without a row.
func EvolutionSeries(h performancedomain.History, r performancedomain.Range) []domain.EvolutionPoint {
	months := r.Months()
	points := make([]domain.EvolutionPoint, 0, len(months))
	for _, p := range months {
		point := domain.EvolutionPoint{Period: p}
		if row, ok := h.Lookup(p); ok {
			point.Submitted = true
			point.Revenue = row.Revenue
			point.Profit = row.Profit
			point.Leads = row.Leads
			point.Procedures = row.Procedures
			point.FeedPosts = row.FeedPosts
			point.Stories = row.Stories
		}
		points = append(points, point)
	}
	return points
}

func compareCohort(cohortID *snowflake.ID, target performancedomain.Period, b *cohortdomain.Baseline, h performancedomain.History) domain.CohortComparison {
	cmp := domain.CohortComparison{CohortID: cohortID, Period: target}
	if b != nil {
		cmp.PeerCount = b.PeerCount
		cmp.Averages = b.Averages
	}
	if row, ok := h.Lookup(target); ok {
		values := performancedomain.ValuesOf(row)
		cmp.Mentee = &values
	}
	return cmp
}

func suggestionContext(orgID snowflake.ID, b domain.Bundle) suggestiondomain.Context {
	in := suggestiondomain.Context{
		OrgID:      orgID.String(),
		MenteeID:   b.Mentee.ID.String(),
		MenteeName: b.Mentee.Name,
		Period:     b.Period,
		NoRecord:   b.NoRecord,
		Alerts:     b.Alerts,
		Cohort:     b.Cohort.Averages,
	}
	if b.CurrentMetrics != nil {
		values := performancedomain.ValuesOf(*b.CurrentMetrics)
		in.Current = &values
	}
	return in
}
