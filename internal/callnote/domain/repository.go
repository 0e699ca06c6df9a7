package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, note *CallNote) error
	FindLast(ctx context.Context, db *gorm.DB, orgID, menteeID snowflake.ID) (*CallNote, error)
	List(ctx context.Context, db *gorm.DB, orgID, menteeID snowflake.ID, page pagination.Pagination) ([]*CallNote, error)
}
