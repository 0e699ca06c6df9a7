package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, mentee *Mentee) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Mentee, error)
	ListActive(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]Mentee, error)
}
