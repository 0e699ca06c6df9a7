package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	calendardomain "github.com/smallbiznis/mentorhub/internal/calendar/domain"
	callnotedomain "github.com/smallbiznis/mentorhub/internal/callnote/domain"
	callnoterepo "github.com/smallbiznis/mentorhub/internal/callnote/repository"
	callnoteservice "github.com/smallbiznis/mentorhub/internal/callnote/service"
	"github.com/smallbiznis/mentorhub/internal/callprep/domain"
	"github.com/smallbiznis/mentorhub/internal/clock"
	cohortservice "github.com/smallbiznis/mentorhub/internal/cohort/service"
	"github.com/smallbiznis/mentorhub/internal/config"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	menteerepo "github.com/smallbiznis/mentorhub/internal/mentee/repository"
	menteeservice "github.com/smallbiznis/mentorhub/internal/mentee/service"
	"github.com/smallbiznis/mentorhub/internal/migration"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	performancerepo "github.com/smallbiznis/mentorhub/internal/performance/repository"
	suggestiondomain "github.com/smallbiznis/mentorhub/internal/suggestion/domain"
	suggestionservice "github.com/smallbiznis/mentorhub/internal/suggestion/service"
	"github.com/smallbiznis/mentorhub/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeProvider struct {
	events []calendardomain.Event
}

func (p fakeProvider) Events(context.Context, calendardomain.Range) ([]calendardomain.Event, error) {
	return p.events, nil
}

type fakeConnector struct {
	provider calendardomain.Provider
}

func (c fakeConnector) ProviderFor(context.Context) (calendardomain.Provider, error) {
	if c.provider == nil {
		return nil, calendardomain.ErrNotConnected
	}
	return c.provider, nil
}

func (c fakeConnector) Connect(context.Context, calendardomain.ConnectRequest) error { return nil }

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	orgID    snowflake.ID
	cohortID snowflake.ID
	ctx      context.Context
	metrics  performancedomain.Repository
	notes    callnotedomain.Service
}

func setup(t *testing.T) fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	f := fixture{
		db:       conn,
		node:     node,
		orgID:    node.Generate(),
		cohortID: node.Generate(),
		metrics:  performancerepo.Provide(),
	}
	f.ctx = orgcontext.WithOrgID(context.Background(), int64(f.orgID))
	f.notes = callnoteservice.New(callnoteservice.Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.NewFakeClock(now),
		Repo:       callnoterepo.Provide(),
		MenteeRepo: menteerepo.Provide(),
	})
	return f
}

func (f fixture) service(connector calendardomain.Connector) domain.Service {
	cfg := config.NewStaticAlertingConfig(config.DefaultAlertingConfig())
	return New(Params{
		DB:     f.db,
		Log:    zap.NewNop(),
		Clock:  clock.NewFakeClock(now),
		Config: cfg,
		Mentees: menteeservice.New(menteeservice.Params{
			DB: f.db, Log: zap.NewNop(), GenID: f.node, Repo: menteerepo.Provide(),
		}),
		MenteeRepo:  menteerepo.Provide(),
		MetricsRepo: f.metrics,
		NoteRepo:    callnoterepo.Provide(),
		Notes:       f.notes,
		Cohorts: cohortservice.New(cohortservice.Params{
			DB: f.db, Log: zap.NewNop(), Repo: f.metrics,
		}),
		Suggestions: suggestionservice.New(suggestionservice.Params{Log: zap.NewNop(), Config: cfg}),
		Calendar:    connector,
	})
}

func (f fixture) mentee(t *testing.T, name string, cohort bool) menteedomain.Mentee {
	t.Helper()
	m := menteedomain.Mentee{
		ID: f.node.Generate(), OrgID: f.orgID, Name: name, Email: "x@example.com",
		Active: true, CreatedAt: now, UpdatedAt: now,
	}
	if cohort {
		id := f.cohortID
		m.CohortID = &id
	}
	require.NoError(t, menteerepo.Provide().Insert(context.Background(), f.db, &m))
	return m
}

func (f fixture) submit(t *testing.T, menteeID snowflake.ID, month int, revenue float64, leads int64) {
	t.Helper()
	require.NoError(t, f.metrics.Upsert(context.Background(), f.db, &performancedomain.MonthlyMetric{
		ID: f.node.Generate(), OrgID: f.orgID, MenteeID: menteeID,
		Year: 2025, Month: month, Revenue: revenue, Leads: leads, SubmittedAt: now,
	}))
}

func TestGetCallPreparationAssemblesBundle(t *testing.T) {
	f := setup(t)
	joao := f.mentee(t, "João Silva", true)
	peer := f.mentee(t, "Maria Lima", true)

	for month := 1; month <= 5; month++ {
		f.submit(t, joao.ID, month, 10000, 40)
	}
	f.submit(t, joao.ID, 6, 6000, 40)
	f.submit(t, peer.ID, 6, 8000, 20)

	callDate := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	_, err := f.notes.Save(f.ctx, callnotedomain.SaveRequest{
		MenteeID: joao.ID.String(), CallDate: &callDate,
		Insights: "Agenda cheia mas ticket baixo", AgreedActions: "Reajustar tabela de preços",
		NextSteps: "Revisar resultado em julho", DurationMinutes: 30,
	})
	require.NoError(t, err)

	bundle, err := f.service(fakeConnector{}).GetCallPreparation(f.ctx, domain.CallPreparationRequest{MenteeID: joao.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, joao.ID, bundle.Mentee.ID)
	assert.Equal(t, performancedomain.Period{Year: 2025, Month: 6}, bundle.Period)
	require.NotNil(t, bundle.CurrentMetrics)
	assert.Equal(t, 6000.0, bundle.CurrentMetrics.Revenue)
	assert.False(t, bundle.NoRecord)

	require.NotEmpty(t, bundle.Alerts)
	assert.Equal(t, performancedomain.MetricRevenue, bundle.Alerts[0].Metric)
	assert.Equal(t, alertdomain.SeverityRed, bundle.Alerts[0].Severity)

	require.Len(t, bundle.Evolution, 6)
	assert.Equal(t, performancedomain.Period{Year: 2025, Month: 1}, bundle.Evolution[0].Period)
	assert.True(t, bundle.Evolution[5].Submitted)

	assert.Equal(t, 1, bundle.Cohort.PeerCount)
	require.NotNil(t, bundle.Cohort.Averages)
	assert.Equal(t, 8000.0, bundle.Cohort.Averages.Revenue)
	require.NotNil(t, bundle.Cohort.Mentee)
	assert.Equal(t, 6000.0, bundle.Cohort.Mentee.Revenue)

	require.NotNil(t, bundle.LastCallNote)
	assert.Equal(t, 30, bundle.LastCallNote.DurationMinutes)

	assert.Equal(t, suggestiondomain.SourceFallback, bundle.Suggestions.Source)
	assert.NotEmpty(t, bundle.Suggestions.Suggestions)
	assert.Equal(t, now, bundle.GeneratedAt)
}

func TestGetCallPreparationWithoutCohortOrData(t *testing.T) {
	f := setup(t)
	solo := f.mentee(t, "Ana Souza", false)

	bundle, err := f.service(fakeConnector{}).GetCallPreparation(f.ctx, domain.CallPreparationRequest{MenteeID: solo.ID.String()})
	require.NoError(t, err)

	assert.True(t, bundle.NoRecord)
	assert.Nil(t, bundle.CurrentMetrics)
	assert.Nil(t, bundle.Cohort.CohortID)
	assert.Nil(t, bundle.Cohort.Averages)
	assert.Nil(t, bundle.LastCallNote)
	require.Len(t, bundle.Alerts, 1)
	assert.Equal(t, alertdomain.AlertTypeNoRecord, bundle.Alerts[0].Type)
	for _, p := range bundle.Evolution {
		assert.False(t, p.Submitted)
	}
}

func TestGetCallPreparationFallsBackToLatestMonth(t *testing.T) {
	f := setup(t)
	m := f.mentee(t, "Carla Dias", true)
	f.submit(t, m.ID, 3, 9000, 10)
	f.submit(t, m.ID, 4, 9500, 12)

	bundle, err := f.service(fakeConnector{}).GetCallPreparation(f.ctx, domain.CallPreparationRequest{MenteeID: m.ID.String()})
	require.NoError(t, err)

	assert.True(t, bundle.UsedFallback)
	require.NotNil(t, bundle.ReferencePeriod)
	assert.Equal(t, performancedomain.Period{Year: 2025, Month: 4}, *bundle.ReferencePeriod)
	require.NotNil(t, bundle.CurrentMetrics)
	assert.Equal(t, 9500.0, bundle.CurrentMetrics.Revenue)
	assert.Nil(t, bundle.Cohort.Mentee)
	assert.Nil(t, bundle.Cohort.Averages)
	assert.Equal(t, 0, bundle.Cohort.PeerCount)
}

func TestGetCallPreparationErrors(t *testing.T) {
	f := setup(t)
	svc := f.service(fakeConnector{})

	_, err := svc.GetCallPreparation(context.Background(), domain.CallPreparationRequest{MenteeID: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)

	_, err = svc.GetCallPreparation(f.ctx, domain.CallPreparationRequest{MenteeID: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetCallPreparation(f.ctx, domain.CallPreparationRequest{
		MenteeID: "1", Period: &performancedomain.Period{Year: 2025, Month: 13},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	_, err = svc.GetCallPreparation(f.ctx, domain.CallPreparationRequest{MenteeID: "42"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveCallNotesDelegates(t *testing.T) {
	f := setup(t)
	m := f.mentee(t, "João Silva", false)
	callDate := now

	resp, err := f.service(fakeConnector{}).SaveCallNotes(f.ctx, callnotedomain.SaveRequest{
		MenteeID: m.ID.String(), CallDate: &callDate,
		Insights: "curto", AgreedActions: "Reajustar tabela de preços", NextSteps: "Revisar resultado em julho",
	})
	var verrs callnotedomain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("principaisInsights"))
	assert.False(t, resp.Success)
}

func TestGetUpcomingCalls(t *testing.T) {
	f := setup(t)
	joao := f.mentee(t, "João Silva", false)
	f.mentee(t, "Maria Lima", false)
	f.mentee(t, "Maria Souza", false)

	for month := 1; month <= 5; month++ {
		f.submit(t, joao.ID, month, 10000, 40)
	}
	f.submit(t, joao.ID, 6, 6000, 40)

	at := func(day, hour int) time.Time { return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC) }
	provider := fakeProvider{events: []calendardomain.Event{
		{ID: "e3", Title: "Mentoria - Maria", Start: at(17, 9), End: at(17, 10)},
		{ID: "e2", Title: "Call - João", Start: at(16, 9), End: at(16, 10)},
		{ID: "e1", Title: "Dentista", Start: at(16, 8), End: at(16, 9)},
		{ID: "e0", Title: "1:1 - Pedro", Start: at(16, 9), End: at(16, 10)},
	}}

	calls, err := f.service(fakeConnector{provider: provider}).GetUpcomingCalls(f.ctx, domain.UpcomingCallsRequest{})
	require.NoError(t, err)
	require.Len(t, calls, 3)

	assert.Equal(t, "e0", calls[0].EventID)
	assert.Equal(t, "Pedro", calls[0].CandidateName)
	assert.Nil(t, calls[0].MentoradoID)
	assert.Empty(t, calls[0].Alerts)

	assert.Equal(t, "e2", calls[1].EventID)
	require.NotNil(t, calls[1].MentoradoID)
	assert.Equal(t, joao.ID, *calls[1].MentoradoID)
	assert.Equal(t, alertdomain.SeverityRed, calls[1].Highest)
	assert.GreaterOrEqual(t, calls[1].RedCount, 1)

	assert.Equal(t, "e3", calls[2].EventID)
	assert.Equal(t, "Maria", calls[2].CandidateName)
	assert.Nil(t, calls[2].MentoradoID, "ambiguous first name stays unmatched")
}

func TestGetUpcomingCallsRequiresCalendar(t *testing.T) {
	f := setup(t)

	_, err := f.service(fakeConnector{}).GetUpcomingCalls(f.ctx, domain.UpcomingCallsRequest{})
	assert.ErrorIs(t, err, calendardomain.ErrNotConnected)
}

func TestGetUpcomingCallsRejectsInvertedRange(t *testing.T) {
	f := setup(t)
	start := now
	end := now.Add(-time.Hour)

	_, err := f.service(fakeConnector{provider: fakeProvider{}}).GetUpcomingCalls(f.ctx, domain.UpcomingCallsRequest{Start: &start, End: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}
