package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/internal/callnote/domain"
	"github.com/smallbiznis/mentorhub/internal/callnote/repository"
	"github.com/smallbiznis/mentorhub/internal/clock"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	menteerepo "github.com/smallbiznis/mentorhub/internal/mentee/repository"
	"github.com/smallbiznis/mentorhub/internal/migration"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	"github.com/smallbiznis/mentorhub/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc    domain.Service
	ctx    context.Context
	mentee menteedomain.Mentee
}

func setup(t *testing.T) fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	orgID := node.Generate()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	mentee := menteedomain.Mentee{
		ID: node.Generate(), OrgID: orgID, Name: "Ana Souza", Email: "ana@example.com",
		Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, menteerepo.Provide().Insert(context.Background(), conn, &mentee))

	svc := New(Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.NewFakeClock(now),
		Repo:       repository.Provide(),
		MenteeRepo: menteerepo.Provide(),
	})

	return fixture{
		svc:    svc,
		ctx:    orgcontext.WithOrgID(context.Background(), int64(orgID)),
		mentee: mentee,
	}
}

func validRequest(menteeID string, day int) domain.SaveRequest {
	callDate := time.Date(2025, 6, day, 14, 0, 0, 0, time.UTC)
	return domain.SaveRequest{
		MenteeID:        menteeID,
		CallDate:        &callDate,
		Insights:        "Agenda cheia mas ticket baixo",
		AgreedActions:   "Reajustar tabela de preços",
		NextSteps:       "Revisar resultado em julho",
		DurationMinutes: 45,
	}
}

func TestSaveAndGetLast(t *testing.T) {
	f := setup(t)

	first, err := f.svc.Save(f.ctx, validRequest(f.mentee.ID.String(), 1))
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.NotEmpty(t, first.NoteID)

	second, err := f.svc.Save(f.ctx, validRequest(f.mentee.ID.String(), 10))
	require.NoError(t, err)

	last, err := f.svc.GetLast(f.ctx, f.mentee.ID.String())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, second.NoteID, last.ID.String())
	assert.Equal(t, 45, last.DurationMinutes)
}

func TestGetLastWithoutNotes(t *testing.T) {
	f := setup(t)

	last, err := f.svc.GetLast(f.ctx, f.mentee.ID.String())
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestSaveRejectsShortFields(t *testing.T) {
	f := setup(t)

	req := validRequest(f.mentee.ID.String(), 1)
	req.Insights = "  curto   "
	req.NextSteps = "curto"

	_, err := f.svc.Save(f.ctx, req)

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("principaisInsights"))
	assert.True(t, verrs.Has("proximosPassos"))
	assert.False(t, verrs.Has("acoesAcordadas"))
}

func TestValidateCountsRunesAfterTrim(t *testing.T) {
	req := validRequest("1", 1)
	req.Insights = "  ação já!  "
	assert.True(t, Validate(req).Has("principaisInsights"))

	req.Insights = "açãoçãoção"
	assert.False(t, Validate(req).Has("principaisInsights"))
}

func TestValidateMissingDateAndNegativeDuration(t *testing.T) {
	req := validRequest("1", 1)
	req.CallDate = nil
	req.DurationMinutes = -1

	verrs := Validate(req)
	assert.True(t, verrs.Has("dataCall"))
	assert.True(t, verrs.Has("duracaoMinutos"))
}

func TestSaveUnknownMentee(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Save(f.ctx, validRequest("123456", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveErrors(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Save(context.Background(), validRequest(f.mentee.ID.String(), 1))
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)

	_, err = f.svc.Save(f.ctx, validRequest("abc", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListPaginates(t *testing.T) {
	f := setup(t)
	for day := 1; day <= 5; day++ {
		_, err := f.svc.Save(f.ctx, validRequest(f.mentee.ID.String(), day))
		require.NoError(t, err)
	}

	page1, err := f.svc.List(f.ctx, domain.ListRequest{MenteeID: f.mentee.ID.String(), PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page1.Notes, 2)
	assert.True(t, page1.HasMore)
	assert.Equal(t, 5, page1.Notes[0].CallDate.Day())
	assert.Equal(t, 4, page1.Notes[1].CallDate.Day())

	page2, err := f.svc.List(f.ctx, domain.ListRequest{
		MenteeID: f.mentee.ID.String(), PageSize: 2, PageToken: page1.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, page2.Notes, 2)
	assert.Equal(t, 3, page2.Notes[0].CallDate.Day())

	page3, err := f.svc.List(f.ctx, domain.ListRequest{
		MenteeID: f.mentee.ID.String(), PageSize: 2, PageToken: page2.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, page3.Notes, 1)
	assert.False(t, page3.HasMore)
	assert.Empty(t, page3.NextPageToken)
}
