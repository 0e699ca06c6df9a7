package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/internal/calendar/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.IntegrationRepository {
	return &repo{}
}

func (r *repo) FindByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*domain.Integration, error) {
	var integration domain.Integration
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, provider, calendar_id, access_token, refresh_token, token_type, expiry, created_at, updated_at
		 FROM calendar_integrations WHERE org_id = ?`,
		orgID,
	).Scan(&integration).Error
	if err != nil {
		return nil, err
	}
	if integration.ID == 0 {
		return nil, nil
	}
	return &integration, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, integration *domain.Integration) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "org_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"provider", "calendar_id", "access_token", "refresh_token", "token_type", "expiry", "updated_at",
			}),
		}).
		Create(integration).Error
}
