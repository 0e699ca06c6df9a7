package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	callnotedomain "github.com/smallbiznis/mentorhub/internal/callnote/domain"
	"github.com/smallbiznis/mentorhub/internal/callprep/domain"
	"github.com/smallbiznis/mentorhub/internal/clock"
	cohortdomain "github.com/smallbiznis/mentorhub/internal/cohort/domain"
	"github.com/smallbiznis/mentorhub/internal/config"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	suggestiondomain "github.com/smallbiznis/mentorhub/internal/suggestion/domain"
	"github.com/smallbiznis/mentorhub/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type menteeRepoMock struct{ mock.Mock }

func (m *menteeRepoMock) Insert(ctx context.Context, db *gorm.DB, mentee *menteedomain.Mentee) error {
	return m.Called(ctx, db, mentee).Error(0)
}

func (m *menteeRepoMock) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*menteedomain.Mentee, error) {
	args := m.Called(ctx, db, orgID, id)
	mentee, _ := args.Get(0).(*menteedomain.Mentee)
	return mentee, args.Error(1)
}

func (m *menteeRepoMock) ListActive(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]menteedomain.Mentee, error) {
	args := m.Called(ctx, db, orgID)
	mentees, _ := args.Get(0).([]menteedomain.Mentee)
	return mentees, args.Error(1)
}

type metricsRepoMock struct{ mock.Mock }

func (m *metricsRepoMock) Upsert(ctx context.Context, db *gorm.DB, row *performancedomain.MonthlyMetric) error {
	return m.Called(ctx, db, row).Error(0)
}

func (m *metricsRepoMock) ListMonthly(ctx context.Context, db *gorm.DB, orgID, menteeID snowflake.ID, r performancedomain.Range) ([]performancedomain.MonthlyMetric, error) {
	args := m.Called(ctx, db, orgID, menteeID, r)
	rows, _ := args.Get(0).([]performancedomain.MonthlyMetric)
	return rows, args.Error(1)
}

func (m *metricsRepoMock) ListCohort(ctx context.Context, db *gorm.DB, orgID, cohortID snowflake.ID, period performancedomain.Period, excludeMenteeID snowflake.ID) ([]performancedomain.MonthlyMetric, error) {
	args := m.Called(ctx, db, orgID, cohortID, period, excludeMenteeID)
	rows, _ := args.Get(0).([]performancedomain.MonthlyMetric)
	return rows, args.Error(1)
}

type noteRepoMock struct{ mock.Mock }

func (m *noteRepoMock) Insert(ctx context.Context, db *gorm.DB, note *callnotedomain.CallNote) error {
	return m.Called(ctx, db, note).Error(0)
}

func (m *noteRepoMock) FindLast(ctx context.Context, db *gorm.DB, orgID, menteeID snowflake.ID) (*callnotedomain.CallNote, error) {
	args := m.Called(ctx, db, orgID, menteeID)
	note, _ := args.Get(0).(*callnotedomain.CallNote)
	return note, args.Error(1)
}

func (m *noteRepoMock) List(ctx context.Context, db *gorm.DB, orgID, menteeID snowflake.ID, page pagination.Pagination) ([]*callnotedomain.CallNote, error) {
	args := m.Called(ctx, db, orgID, menteeID, page)
	notes, _ := args.Get(0).([]*callnotedomain.CallNote)
	return notes, args.Error(1)
}

type aggregatorMock struct{ mock.Mock }

func (m *aggregatorMock) Aggregate(ctx context.Context, req cohortdomain.AggregateRequest) (cohortdomain.Baseline, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(cohortdomain.Baseline), args.Error(1)
}

type composerMock struct{ mock.Mock }

func (m *composerMock) Compose(ctx context.Context, in suggestiondomain.Context) suggestiondomain.Result {
	return m.Called(ctx, in).Get(0).(suggestiondomain.Result)
}

func TestGetCallPreparationUnknownMenteeSkipsSubFetches(t *testing.T) {
	mentees := &menteeRepoMock{}
	mentees.On("FindByID", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	metricsRepo := &metricsRepoMock{}
	notes := &noteRepoMock{}
	cohorts := &aggregatorMock{}
	composer := &composerMock{}

	svc := New(Params{
		Log:         zap.NewNop(),
		Clock:       clock.NewFakeClock(now),
		Config:      config.NewStaticAlertingConfig(config.DefaultAlertingConfig()),
		MenteeRepo:  mentees,
		MetricsRepo: metricsRepo,
		NoteRepo:    notes,
		Cohorts:     cohorts,
		Suggestions: composer,
	})

	ctx := orgcontext.WithOrgID(context.Background(), 7)
	_, err := svc.GetCallPreparation(ctx, domain.CallPreparationRequest{MenteeID: "99"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mentees.AssertNumberOfCalls(t, "FindByID", 1)
	metricsRepo.AssertNotCalled(t, "ListMonthly", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notes.AssertNotCalled(t, "FindLast", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cohorts.AssertNotCalled(t, "Aggregate", mock.Anything, mock.Anything)
	composer.AssertNotCalled(t, "Compose", mock.Anything, mock.Anything)
}
