package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
)

// Baseline is the peer average of a cohort for one month. Averages is nil
// when no peer submitted, which is distinct from peers averaging zero.
type Baseline struct {
	CohortID  snowflake.ID                      `json:"cohort_id"`
	Period    performancedomain.Period          `json:"period"`
	PeerCount int                               `json:"peer_count"`
	Averages  *performancedomain.MetricAverages `json:"averages"`
}

type AggregateRequest struct {
	CohortID        snowflake.ID
	Period          performancedomain.Period
	ExcludeMenteeID snowflake.ID
}

type Aggregator interface {
	Aggregate(context.Context, AggregateRequest) (Baseline, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCohort       = errors.New("invalid_cohort")
)
