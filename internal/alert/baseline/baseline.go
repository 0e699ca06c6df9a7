// Package baseline selects the historical months that feed the statistics
// for one target month, falling back to the latest submission when the
// target month is missing.
package baseline

import (
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
)

type Baseline struct {
	Target       performancedomain.Period
	Reference    *performancedomain.Period
	Current      *performancedomain.MonthlyMetric
	Sample       []performancedomain.MonthlyMetric
	Previous     *performancedomain.MonthlyMetric
	UsedFallback bool
	NoRecord     bool
}

// Series is one metric's view of a Baseline.
type Series struct {
	Current  float64
	Sample   []float64
	Previous *float64
}

// LoadRange is the span of history Resolve may look at.
func LoadRange(target performancedomain.Period, window, lookback int) performancedomain.Range {
	return performancedomain.Range{From: target.Add(-(lookback + window)), To: target}
}

// Resolve picks the reference month and its trailing sample. Missing months
// inside the window are skipped, never zero-filled.
func Resolve(h performancedomain.History, target performancedomain.Period, window, lookback int) Baseline {
	b := Baseline{Target: target}

	current, ok := h.Lookup(target)
	if !ok {
		b.NoRecord = true
		if lookback < 1 {
			return b
		}
		latest, found := h.LatestIn(performancedomain.Range{From: target.Add(-lookback), To: target.Add(-1)})
		if !found {
			return b
		}
		current = latest
		b.UsedFallback = true
	}

	ref := current.Period()
	b.Reference = &ref
	b.Current = &current

	if window > 0 {
		b.Sample = h.Between(performancedomain.Range{From: ref.Add(-window), To: ref.Add(-1)})
	}

	if prev, ok := h.Lookup(ref.Add(-1)); ok {
		b.Previous = &prev
	} else if n := len(b.Sample); n > 0 {
		prev := b.Sample[n-1]
		b.Previous = &prev
	}

	return b
}

// Series projects the baseline onto one metric. It reports false on cold start.
func (b Baseline) Series(kind performancedomain.MetricKind) (Series, bool) {
	if b.Current == nil {
		return Series{}, false
	}
	s := Series{
		Current: kind.Value(*b.Current),
		Sample:  make([]float64, 0, len(b.Sample)),
	}
	for _, row := range b.Sample {
		s.Sample = append(s.Sample, kind.Value(row))
	}
	if b.Previous != nil {
		v := kind.Value(*b.Previous)
		s.Previous = &v
	}
	return s, true
}
