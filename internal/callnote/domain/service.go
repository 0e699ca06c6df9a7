package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/mentorhub/pkg/db/pagination"
)

// MinTextLength is the minimum rune count of each free-text field after
// trimming.
const MinTextLength = 10

type SaveRequest struct {
	MenteeID        string
	CallDate        *time.Time
	Insights        string
	AgreedActions   string
	NextSteps       string
	DurationMinutes int
	Metadata        map[string]any
}

type SaveResponse struct {
	Success bool   `json:"success"`
	NoteID  string `json:"noteId"`
}

type ListRequest struct {
	MenteeID  string
	PageToken string
	PageSize  int
}

type ListResponse struct {
	pagination.PageInfo
	Notes []CallNote `json:"notes"`
}

type Service interface {
	Save(ctx context.Context, req SaveRequest) (SaveResponse, error)
	GetLast(ctx context.Context, menteeID string) (*CallNote, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors carries every failing field of a request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for _, fe := range v {
		fields = append(fields, fe.Field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}
