package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type CallNote struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID           snowflake.ID      `gorm:"not null;index" json:"organization_id"`
	MenteeID        snowflake.ID      `gorm:"not null;index:idx_call_notes_mentee,priority:1" json:"mentorado_id"`
	CallDate        time.Time         `gorm:"not null;index:idx_call_notes_mentee,priority:2" json:"data_call"`
	Insights        string            `gorm:"type:text;not null" json:"principais_insights"`
	AgreedActions   string            `gorm:"type:text;not null" json:"acoes_acordadas"`
	NextSteps       string            `gorm:"type:text;not null" json:"proximos_passos"`
	DurationMinutes int               `gorm:"not null;default:0" json:"duracao_minutos"`
	Metadata        datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
}

func (CallNote) TableName() string { return "call_notes" }
