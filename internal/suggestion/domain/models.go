package domain

import (
	"context"
	"errors"

	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
)

type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

type Suggestion struct {
	Topic     string                       `json:"topic"`
	Rationale string                       `json:"rationale"`
	Metric    performancedomain.MetricKind `json:"metric,omitempty"`
}

// Result always names where its suggestions came from.
type Result struct {
	Suggestions []Suggestion `json:"suggestions"`
	Source      Source       `json:"source"`
}

// Context is what a provider sees about the mentee.
type Context struct {
	OrgID      string
	MenteeID   string
	MenteeName string
	Period     performancedomain.Period
	NoRecord   bool
	Alerts     []alertdomain.Alert
	Current    *performancedomain.MetricAverages
	Cohort     *performancedomain.MetricAverages
}

type Provider interface {
	Generate(ctx context.Context, in Context) (Result, error)
}

// Composer never fails: any provider problem yields the fallback table.
type Composer interface {
	Compose(ctx context.Context, in Context) Result
}

var ErrEmptyResult = errors.New("empty_suggestions")
