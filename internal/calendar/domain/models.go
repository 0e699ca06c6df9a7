package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Event is a raw calendar entry as returned by a Provider.
type Event struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.End.After(r.Start)
}

type Provider interface {
	Events(ctx context.Context, r Range) ([]Event, error)
}

// Integration stores the OAuth grant an organization gave for its calendar.
type Integration struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	OrgID        snowflake.ID `gorm:"not null;uniqueIndex:ux_calendar_integrations_org"`
	Provider     string       `gorm:"not null"`
	CalendarID   string       `gorm:"not null"`
	AccessToken  string       `gorm:"not null"`
	RefreshToken string       `gorm:"not null;default:''"`
	TokenType    string       `gorm:"not null;default:'Bearer'"`
	Expiry       *time.Time
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (Integration) TableName() string { return "calendar_integrations" }

type IntegrationRepository interface {
	FindByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*Integration, error)
	Upsert(ctx context.Context, db *gorm.DB, integration *Integration) error
}

type ConnectRequest struct {
	CalendarID   string
	AccessToken  string
	RefreshToken string
	Expiry       *time.Time
}

// Connector hands out the Provider bound to the organization in ctx.
type Connector interface {
	ProviderFor(ctx context.Context) (Provider, error)
	Connect(ctx context.Context, req ConnectRequest) error
}

const ProviderGoogle = "google"

var (
	ErrNotConnected        = errors.New("calendar_not_connected")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidRange        = errors.New("invalid_range")
	ErrInvalidToken        = errors.New("invalid_token")
)
