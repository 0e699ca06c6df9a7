package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/internal/calendar/domain"
	"github.com/smallbiznis/mentorhub/internal/calendar/repository"
	"github.com/smallbiznis/mentorhub/internal/config"
	"github.com/smallbiznis/mentorhub/internal/migration"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	"github.com/smallbiznis/mentorhub/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newConnector(t *testing.T, calendarCfg config.CalendarConfig) (domain.Connector, context.Context) {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	c := New(Params{
		DB:     conn,
		Log:    zap.NewNop(),
		Config: config.Config{Calendar: calendarCfg},
		GenID:  node,
		Repo:   repository.Provide(),
	})
	return c, orgcontext.WithOrgID(context.Background(), node.Generate().Int64())
}

func TestProviderForRequiresOAuthClient(t *testing.T) {
	c, ctx := newConnector(t, config.CalendarConfig{})
	_, err := c.ProviderFor(ctx)
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestProviderForRequiresIntegration(t *testing.T) {
	c, ctx := newConnector(t, config.CalendarConfig{GoogleClientID: "id", GoogleClientSecret: "secret"})
	_, err := c.ProviderFor(ctx)
	assert.ErrorIs(t, err, domain.ErrNotConnected)

	_, err = c.ProviderFor(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestConnectThenFetchEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{
				"id": "e1", "summary": "Call - Ana",
				"start": map[string]string{"dateTime": "2025-06-03T14:00:00Z"},
				"end":   map[string]string{"dateTime": "2025-06-03T15:00:00Z"},
			}},
		})
	}))
	defer srv.Close()

	c, ctx := newConnector(t, config.CalendarConfig{
		GoogleClientID:     "id",
		GoogleClientSecret: "secret",
		GoogleAPIBaseURL:   srv.URL,
	})

	expiry := time.Now().Add(time.Hour).UTC()
	require.NoError(t, c.Connect(ctx, domain.ConnectRequest{AccessToken: "token-123", Expiry: &expiry}))

	provider, err := c.ProviderFor(ctx)
	require.NoError(t, err)

	events, err := provider.Events(ctx, domain.Range{
		Start: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Call - Ana", events[0].Title)
}

func TestConnectRejectsEmptyToken(t *testing.T) {
	c, ctx := newConnector(t, config.CalendarConfig{})
	assert.ErrorIs(t, c.Connect(ctx, domain.ConnectRequest{AccessToken: " "}), domain.ErrInvalidToken)
}
