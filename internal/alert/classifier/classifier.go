// Package classifier maps a (z-score, percent-change) pair to a severity.
package classifier

import (
	"github.com/smallbiznis/mentorhub/internal/alert/domain"
	"github.com/smallbiznis/mentorhub/internal/config"
)

type Classifier struct {
	thresholds config.Thresholds
}

func New(t config.Thresholds) Classifier {
	return Classifier{thresholds: t}
}

func Default() Classifier {
	return New(config.DefaultThresholds())
}

// Classify applies the default thresholds.
func Classify(z, pc *float64) domain.Severity {
	return Default().Classify(z, pc)
}

// Classify returns the worse of the two per-axis severities. A nil axis is green.
func (c Classifier) Classify(z, pc *float64) domain.Severity {
	return domain.Worse(c.ZScoreAxis(z), c.PercentAxis(pc))
}

func (c Classifier) ZScoreAxis(z *float64) domain.Severity {
	if z == nil {
		return domain.SeverityGreen
	}
	return axis(*z, c.thresholds.ZScoreRed, c.thresholds.ZScoreYellow)
}

func (c Classifier) PercentAxis(pc *float64) domain.Severity {
	if pc == nil {
		return domain.SeverityGreen
	}
	return axis(*pc, c.thresholds.PercentRed, c.thresholds.PercentYellow)
}

func axis(v, red, yellow float64) domain.Severity {
	switch {
	case v < red:
		return domain.SeverityRed
	case v < yellow:
		return domain.SeverityYellow
	default:
		return domain.SeverityGreen
	}
}
