package server

import (
	"strconv"
	"strings"
	"time"

	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalTime(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse(dateOnlyLayout, trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseOptionalPeriod reads a year/month pair. Both or neither must be set.
func parseOptionalPeriod(year, month string) (*performancedomain.Period, error) {
	year = strings.TrimSpace(year)
	month = strings.TrimSpace(month)
	if year == "" && month == "" {
		return nil, nil
	}
	if year == "" || month == "" {
		return nil, newValidationError("period", "invalid_period", "year and month must be given together")
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return nil, newValidationError("year", "invalid_year", "invalid year")
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return nil, newValidationError("month", "invalid_month", "invalid month")
	}

	p := performancedomain.Period{Year: y, Month: m}
	if !p.Valid() {
		return nil, newValidationError("period", "invalid_period", "invalid period")
	}
	return &p, nil
}
