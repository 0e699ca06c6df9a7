package seed_test

import (
	"testing"

	callnotedomain "github.com/smallbiznis/mentorhub/internal/callnote/domain"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	"github.com/smallbiznis/mentorhub/internal/migration"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"github.com/smallbiznis/mentorhub/internal/seed"
	"github.com/smallbiznis/mentorhub/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDemoDataIsIdempotent(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	require.NoError(t, seed.EnsureDemoData(conn, 1))
	require.NoError(t, seed.EnsureDemoData(conn, 1))

	var mentees, rows, notes int64
	require.NoError(t, conn.Model(&menteedomain.Mentee{}).Count(&mentees).Error)
	require.NoError(t, conn.Model(&performancedomain.MonthlyMetric{}).Count(&rows).Error)
	require.NoError(t, conn.Model(&callnotedomain.CallNote{}).Count(&notes).Error)

	assert.Equal(t, int64(4), mentees)
	assert.Equal(t, int64(4), notes)
	assert.Equal(t, int64(29), rows)
}

func TestEnsureDemoDataRejectsBadInput(t *testing.T) {
	assert.Error(t, seed.EnsureDemoData(nil, 1))

	conn, err := db.NewTest()
	require.NoError(t, err)
	assert.Error(t, seed.EnsureDemoData(conn, 0))
}
