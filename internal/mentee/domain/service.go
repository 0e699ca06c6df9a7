package domain

import (
	"context"
	"errors"
)

type CreateMenteeRequest struct {
	Name     string
	Email    string
	CohortID string
}

type Service interface {
	Create(context.Context, CreateMenteeRequest) (Mentee, error)
	GetByID(ctx context.Context, id string) (Mentee, error)
	Roster(ctx context.Context) (*Roster, error)
	ResolveByName(ctx context.Context, candidate string) (*Mentee, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
