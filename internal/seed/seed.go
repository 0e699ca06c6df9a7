package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	callnotedomain "github.com/smallbiznis/mentorhub/internal/callnote/domain"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const demoMonths = 8

type demoMentee struct {
	name     string
	email    string
	inCohort bool
	revenue  []float64
}

// Revenue per month, oldest first. A zero marks a month without submission.
var demoMentees = []demoMentee{
	{"João Silva", "joao.silva@example.com", true, []float64{18000, 19500, 21000, 20500, 22000, 21500, 20000, 12000}},
	{"Maria Lima", "maria.lima@example.com", true, []float64{15000, 15500, 16000, 15800, 16200, 16500, 17000, 17400}},
	{"Ana Souza", "ana.souza@example.com", true, []float64{9000, 9500, 9800, 10100, 10400, 0, 0, 0}},
	{"Carla Dias", "carla.dias@example.com", false, []float64{25000, 24000, 26000, 25500, 27000, 26500, 21000, 20500}},
}

// EnsureDemoData seeds mentees, monthly metrics and one call note per mentee
// for orgID. It does nothing when the organization already has mentees.
func EnsureDemoData(db *gorm.DB, orgID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if orgID <= 0 {
		return errors.New("seed organization id must be positive")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	org := snowflake.ID(orgID)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&menteedomain.Mentee{}).Where("org_id = ?", org).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		current := performancedomain.PeriodOf(now)
		cohortID := node.Generate()

		for i, dm := range demoMentees {
			mentee := menteedomain.Mentee{
				ID:        node.Generate(),
				OrgID:     org,
				Name:      dm.name,
				Email:     dm.email,
				Active:    true,
				Metadata:  datatypes.JSONMap{"source": "seed"},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if dm.inCohort {
				id := cohortID
				mentee.CohortID = &id
			}
			if err := tx.Create(&mentee).Error; err != nil {
				return err
			}

			if err := seedMetrics(tx, node, mentee, current, dm.revenue, i); err != nil {
				return err
			}

			note := callnotedomain.CallNote{
				ID:              node.Generate(),
				OrgID:           org,
				MenteeID:        mentee.ID,
				CallDate:        now.AddDate(0, 0, -14),
				Insights:        "Agenda estável, mas conversão de orçamentos abaixo do esperado.",
				AgreedActions:   "Revisar roteiro de atendimento e follow-up em 48h.",
				NextSteps:       "Trazer números de conversão do mês na próxima call.",
				DurationMinutes: 45,
				Metadata:        datatypes.JSONMap{"source": "seed"},
				CreatedAt:       now,
			}
			if err := tx.Create(&note).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// seedMetrics writes the series so that its last entry lands on the month
// before current.
func seedMetrics(tx *gorm.DB, node *snowflake.Node, mentee menteedomain.Mentee, current performancedomain.Period, revenue []float64, salt int) error {
	start := current.Add(-len(revenue))
	for i, r := range revenue {
		if r == 0 {
			continue
		}
		p := start.Add(i)
		scale := r / 1000
		row := performancedomain.MonthlyMetric{
			ID:          node.Generate(),
			OrgID:       mentee.OrgID,
			MenteeID:    mentee.ID,
			Year:        p.Year,
			Month:       p.Month,
			Revenue:     r,
			Profit:      r * 0.35,
			Leads:       int64(scale*2) + int64(salt),
			Procedures:  int64(scale),
			FeedPosts:   int64(8 + (i+salt)%4),
			Stories:     int64(20 + (i*3+salt)%10),
			SubmittedAt: time.Date(p.Year, time.Month(p.Month), 28, 12, 0, 0, 0, time.UTC),
		}
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}
