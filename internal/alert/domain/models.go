package domain

import (
	"context"
	"errors"

	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
)

// AlertType distinguishes metric anomalies from the missing-submission marker.
type AlertType string

const (
	AlertTypeMetric   AlertType = "metrica"
	AlertTypeNoRecord AlertType = "sem_registro"
)

type Alert struct {
	Type          AlertType                    `json:"tipo"`
	Metric        performancedomain.MetricKind `json:"metric,omitempty"`
	Severity      Severity                     `json:"severity"`
	Message       string                       `json:"message"`
	NoRecord      bool                         `json:"no_record"`
	CurrentValue  *float64                     `json:"current_value,omitempty"`
	Mean          *float64                     `json:"mean,omitempty"`
	ZScore        *float64                     `json:"z_score"`
	PercentChange *float64                     `json:"percent_change"`
}

// AlertSet is the outcome of anomaly detection for one mentee and month.
type AlertSet struct {
	Period          performancedomain.Period  `json:"period"`
	ReferencePeriod *performancedomain.Period `json:"reference_period"`
	Alerts          []Alert                   `json:"alerts"`
	UsedFallback    bool                      `json:"used_fallback"`
	NoRecord        bool                      `json:"no_record"`
}

// Count returns the number of alerts at severity s.
func (a AlertSet) Count(s Severity) int {
	n := 0
	for _, alert := range a.Alerts {
		if alert.Severity == s {
			n++
		}
	}
	return n
}

// Highest returns the worst severity in the set.
func (a AlertSet) Highest() Severity {
	worst := SeverityGreen
	for _, alert := range a.Alerts {
		worst = Worse(worst, alert.Severity)
	}
	return worst
}

type CalculateAlertsRequest struct {
	MenteeID string
	Period   *performancedomain.Period
}

type Service interface {
	CalculateAlerts(context.Context, CalculateAlertsRequest) (AlertSet, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrNotFound            = errors.New("not_found")
)
