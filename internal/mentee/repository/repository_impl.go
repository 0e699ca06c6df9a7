package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/internal/mentee/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, mentee *domain.Mentee) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO mentees (id, org_id, name, email, cohort_id, active, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mentee.ID,
		mentee.OrgID,
		mentee.Name,
		mentee.Email,
		mentee.CohortID,
		mentee.Active,
		mentee.Metadata,
		mentee.CreatedAt,
		mentee.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Mentee, error) {
	var mentee domain.Mentee
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, name, email, cohort_id, active, metadata, created_at, updated_at
		 FROM mentees WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&mentee).Error
	if err != nil {
		return nil, err
	}
	if mentee.ID == 0 {
		return nil, nil
	}
	return &mentee, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]domain.Mentee, error) {
	var mentees []domain.Mentee
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, name, email, cohort_id, active, metadata, created_at, updated_at
		 FROM mentees WHERE org_id = ? AND active = ?
		 ORDER BY name ASC, id ASC`,
		orgID,
		true,
	).Scan(&mentees).Error
	if err != nil {
		return nil, err
	}
	return mentees, nil
}
