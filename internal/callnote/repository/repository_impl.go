package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/internal/callnote/domain"
	"github.com/smallbiznis/mentorhub/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, note *domain.CallNote) error {
	return db.WithContext(ctx).Create(note).Error
}

func (r *repo) FindLast(ctx context.Context, db *gorm.DB, orgID, menteeID snowflake.ID) (*domain.CallNote, error) {
	var note domain.CallNote
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, mentee_id, call_date, insights, agreed_actions, next_steps,
		        duration_minutes, metadata, created_at
		 FROM call_notes
		 WHERE org_id = ? AND mentee_id = ?
		 ORDER BY call_date DESC, id DESC
		 LIMIT 1`,
		orgID,
		menteeID,
	).Scan(&note).Error
	if err != nil {
		return nil, err
	}
	if note.ID == 0 {
		return nil, nil
	}
	return &note, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID, menteeID snowflake.ID, page pagination.Pagination) ([]*domain.CallNote, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.CallNote{}).
		Where("org_id = ? AND mentee_id = ?", orgID, menteeID)

	stmt, err := pagination.Apply(stmt, page, "call_date")
	if err != nil {
		return nil, err
	}

	var notes []*domain.CallNote
	if err := stmt.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}
