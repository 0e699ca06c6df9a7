package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/internal/performance/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func periodKey(p domain.Period) int {
	return p.Year*100 + p.Month
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, metric *domain.MonthlyMetric) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "org_id"}, {Name: "mentee_id"}, {Name: "year"}, {Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"revenue", "profit", "leads", "procedures", "feed_posts", "stories", "submitted_at",
			}),
		}).
		Create(metric).Error
}

func (r *repo) ListMonthly(ctx context.Context, db *gorm.DB, orgID, menteeID snowflake.ID, rng domain.Range) ([]domain.MonthlyMetric, error) {
	var rows []domain.MonthlyMetric
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, mentee_id, year, month, revenue, profit, leads, procedures, feed_posts, stories, submitted_at
		 FROM monthly_metrics
		 WHERE org_id = ? AND mentee_id = ? AND (year * 100 + month) BETWEEN ? AND ?
		 ORDER BY year ASC, month ASC`,
		orgID,
		menteeID,
		periodKey(rng.From),
		periodKey(rng.To),
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListCohort(ctx context.Context, db *gorm.DB, orgID, cohortID snowflake.ID, period domain.Period, excludeMenteeID snowflake.ID) ([]domain.MonthlyMetric, error) {
	var rows []domain.MonthlyMetric
	err := db.WithContext(ctx).Raw(
		`SELECT mm.id, mm.org_id, mm.mentee_id, mm.year, mm.month, mm.revenue, mm.profit, mm.leads,
		        mm.procedures, mm.feed_posts, mm.stories, mm.submitted_at
		 FROM monthly_metrics mm
		 JOIN mentees m ON m.id = mm.mentee_id AND m.org_id = mm.org_id
		 WHERE mm.org_id = ? AND m.cohort_id = ? AND mm.year = ? AND mm.month = ? AND mm.mentee_id <> ?
		 ORDER BY mm.mentee_id ASC`,
		orgID,
		cohortID,
		period.Year,
		period.Month,
		excludeMenteeID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
