package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	callnotedomain "github.com/smallbiznis/mentorhub/internal/callnote/domain"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	suggestiondomain "github.com/smallbiznis/mentorhub/internal/suggestion/domain"
)

// Bundle is the briefing a mentor reads before a call. It is assembled per
// request and never stored.
type Bundle struct {
	Mentee          menteedomain.Mentee              `json:"mentee"`
	Period          performancedomain.Period         `json:"period"`
	ReferencePeriod *performancedomain.Period        `json:"reference_period"`
	CurrentMetrics  *performancedomain.MonthlyMetric `json:"current_metrics"`
	Alerts          []alertdomain.Alert              `json:"alerts"`
	UsedFallback    bool                             `json:"used_fallback"`
	NoRecord        bool                             `json:"no_record"`
	Evolution       []EvolutionPoint                 `json:"evolution"`
	Cohort          CohortComparison                 `json:"cohort"`
	LastCallNote    *callnotedomain.CallNote         `json:"last_call_note"`
	Suggestions     suggestiondomain.Result          `json:"suggestions"`
	GeneratedAt     time.Time                        `json:"generated_at"`
}

// EvolutionPoint is one month of the trailing series. Submitted is false for
// gaps, whose values are left at zero.
type EvolutionPoint struct {
	Period     performancedomain.Period `json:"period"`
	Submitted  bool                     `json:"submitted"`
	Revenue    float64                  `json:"revenue"`
	Profit     float64                  `json:"profit"`
	Leads      int64                    `json:"leads"`
	Procedures int64                    `json:"procedures"`
	FeedPosts  int64                    `json:"feed_posts"`
	Stories    int64                    `json:"stories"`
}

// CohortComparison sets the mentee's month beside the peer average for the
// same month. Averages is nil when no peer submitted; Mentee is nil when the
// mentee did not.
type CohortComparison struct {
	CohortID  *snowflake.ID                     `json:"cohort_id"`
	Period    performancedomain.Period          `json:"period"`
	PeerCount int                               `json:"peer_count"`
	Averages  *performancedomain.MetricAverages `json:"averages"`
	Mentee    *performancedomain.MetricAverages `json:"mentee"`
}

// CallSummary is one upcoming call with the alerts of its mentee, when the
// title resolved to one.
type CallSummary struct {
	EventID       string               `json:"event_id"`
	Title         string               `json:"title"`
	Start         time.Time            `json:"start"`
	End           time.Time            `json:"end"`
	CandidateName string               `json:"candidate_name,omitempty"`
	MentoradoID   *snowflake.ID        `json:"mentorado_id"`
	MentoradoName string               `json:"mentorado_name,omitempty"`
	Alerts        []alertdomain.Alert  `json:"alerts"`
	Highest       alertdomain.Severity `json:"highest_severity"`
	RedCount      int                  `json:"red_count"`
	YellowCount   int                  `json:"yellow_count"`
	NoRecord      bool                 `json:"no_record"`
}

type UpcomingCallsRequest struct {
	Start *time.Time
	End   *time.Time
}

type CallPreparationRequest struct {
	MenteeID string
	Period   *performancedomain.Period
}

type Service interface {
	GetUpcomingCalls(ctx context.Context, req UpcomingCallsRequest) ([]CallSummary, error)
	GetCallPreparation(ctx context.Context, req CallPreparationRequest) (Bundle, error)
	SaveCallNotes(ctx context.Context, req callnotedomain.SaveRequest) (callnotedomain.SaveResponse, error)
}

// DefaultUpcomingWindow is used when the caller gives no end time.
const DefaultUpcomingWindow = 7 * 24 * time.Hour

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrInvalidRange        = errors.New("invalid_range")
	ErrNotFound            = errors.New("not_found")
)
