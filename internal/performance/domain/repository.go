package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, metric *MonthlyMetric) error
	ListMonthly(ctx context.Context, db *gorm.DB, orgID, menteeID snowflake.ID, r Range) ([]MonthlyMetric, error)
	ListCohort(ctx context.Context, db *gorm.DB, orgID, cohortID snowflake.ID, period Period, excludeMenteeID snowflake.ID) ([]MonthlyMetric, error)
}
