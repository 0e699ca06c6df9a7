package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	alertservice "github.com/smallbiznis/mentorhub/internal/alert/service"
	calendardomain "github.com/smallbiznis/mentorhub/internal/calendar/domain"
	"github.com/smallbiznis/mentorhub/internal/calendar/mention"
	"github.com/smallbiznis/mentorhub/internal/callprep/domain"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	"github.com/smallbiznis/mentorhub/internal/observability/logger"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// alertWorkers bounds concurrent per-mentee alert computations.
const alertWorkers = 4

func (s *Service) GetUpcomingCalls(ctx context.Context, req domain.UpcomingCallsRequest) ([]domain.CallSummary, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	now := s.clock.Now()
	window := calendardomain.Range{Start: now, End: now.Add(domain.DefaultUpcomingWindow)}
	if req.Start != nil {
		window.Start = req.Start.UTC()
		if req.End == nil {
			window.End = window.Start.Add(domain.DefaultUpcomingWindow)
		}
	}
	if req.End != nil {
		window.End = req.End.UTC()
	}
	if !window.Valid() {
		return nil, domain.ErrInvalidRange
	}

	ctx, span := tracer.Start(ctx, "callprep.GetUpcomingCalls")
	defer span.End()

	provider, err := s.calendar.ProviderFor(ctx)
	if err != nil {
		return nil, err
	}
	events, err := provider.Events(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}

	calls := make([]domain.CallSummary, 0, len(events))
	for _, ev := range events {
		if !mention.IsCallEvent(ev.Title) {
			continue
		}
		summary := domain.CallSummary{
			EventID: ev.ID,
			Title:   ev.Title,
			Start:   ev.Start,
			End:     ev.End,
			Alerts:  []alertdomain.Alert{},
		}
		if name, ok := mention.ExtractMentoradoName(ev.Title); ok {
			summary.CandidateName = name
		}
		calls = append(calls, summary)
	}
	if len(calls) == 0 {
		return calls, nil
	}

	roster, err := s.mentees.Roster(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	matched := make(map[snowflake.ID]*menteedomain.Mentee)
	for i := range calls {
		if calls[i].CandidateName == "" {
			continue
		}
		m := roster.Resolve(calls[i].CandidateName)
		if m == nil {
			continue
		}
		id := m.ID
		calls[i].MentoradoID = &id
		calls[i].MentoradoName = m.Name
		matched[id] = m
	}

	sets, err := s.alertsFor(ctx, orgID, matched, performancedomain.PeriodOf(now))
	if err != nil {
		return nil, err
	}
	for i := range calls {
		if calls[i].MentoradoID == nil {
			continue
		}
		set := sets[*calls[i].MentoradoID]
		calls[i].Alerts = set.Alerts
		calls[i].Highest = set.Highest()
		calls[i].RedCount = set.Count(alertdomain.SeverityRed)
		calls[i].YellowCount = set.Count(alertdomain.SeverityYellow)
		calls[i].NoRecord = set.NoRecord
	}

	sort.SliceStable(calls, func(i, j int) bool {
		if !calls[i].Start.Equal(calls[j].Start) {
			return calls[i].Start.Before(calls[j].Start)
		}
		return calls[i].EventID < calls[j].EventID
	})

	logger.WithContext(ctx, s.log).Debug("upcoming calls listed",
		zap.Int("events", len(events)),
		zap.Int("calls", len(calls)),
		zap.Int("matched_mentees", len(matched)),
	)
	return calls, nil
}

// alertsFor computes one alert set per mentee, each from a single history
// load.
func (s *Service) alertsFor(ctx context.Context, orgID snowflake.ID, mentees map[snowflake.ID]*menteedomain.Mentee, target performancedomain.Period) (map[snowflake.ID]alertdomain.AlertSet, error) {
	detector := alertservice.NewDetector(s.cfg.Get())
	loadRange := detector.LoadRange(target)

	var mu sync.Mutex
	out := make(map[snowflake.ID]alertdomain.AlertSet, len(mentees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(alertWorkers)
	for id := range mentees {
		g.Go(func() error {
			rows, err := s.metricsRepo.ListMonthly(gctx, s.db, orgID, id, loadRange)
			if err != nil {
				return fmt.Errorf("load history for %s: %w", id, err)
			}
			set := detector.Detect(performancedomain.NewHistory(rows), target)
			alertservice.RecordAlerts(gctx, s.metrics, set)

			mu.Lock()
			out[id] = set
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
