package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/smallbiznis/mentorhub/internal/alert/baseline"
	"github.com/smallbiznis/mentorhub/internal/alert/classifier"
	"github.com/smallbiznis/mentorhub/internal/alert/domain"
	"github.com/smallbiznis/mentorhub/internal/config"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"github.com/smallbiznis/mentorhub/internal/stats"
)

// NoRecordSeverity is attached to the sem_registro marker.
const NoRecordSeverity = domain.SeverityYellow

// Detector turns a mentee history into alerts. It holds no state beyond its
// configuration, so identical inputs always give identical output.
type Detector struct {
	classifier classifier.Classifier
	window     int
	lookback   int
}

func NewDetector(cfg config.AlertingConfig) Detector {
	return Detector{
		classifier: classifier.New(cfg.Thresholds),
		window:     cfg.BaselineWindowMonths,
		lookback:   cfg.FallbackLookbackMonths,
	}
}

// LoadRange is the history Detect needs for target.
func (d Detector) LoadRange(target performancedomain.Period) performancedomain.Range {
	return baseline.LoadRange(target, d.window, d.lookback)
}

func (d Detector) Detect(h performancedomain.History, target performancedomain.Period) domain.AlertSet {
	b := baseline.Resolve(h, target, d.window, d.lookback)

	set := domain.AlertSet{
		Period:          target,
		ReferencePeriod: b.Reference,
		UsedFallback:    b.UsedFallback,
		NoRecord:        b.NoRecord,
		Alerts:          []domain.Alert{},
	}

	if b.NoRecord {
		set.Alerts = append(set.Alerts, noRecordAlert(target, b.Reference))
	}

	for _, kind := range performancedomain.AlertedMetrics {
		series, ok := b.Series(kind)
		if !ok {
			continue
		}

		mean := stats.Mean(series.Sample)
		sd := stats.StandardDeviation(series.Sample, mean)
		z := stats.ZScore(series.Current, mean, sd)

		var pc *float64
		if series.Previous != nil {
			pc = stats.PercentChange(series.Current, *series.Previous)
		}

		severity := d.classifier.Classify(z, pc)
		if severity == domain.SeverityGreen {
			continue
		}

		alert := domain.Alert{
			Type:          domain.AlertTypeMetric,
			Metric:        kind,
			Severity:      severity,
			NoRecord:      b.NoRecord,
			CurrentValue:  stats.Float(series.Current),
			ZScore:        z,
			PercentChange: pc,
			Message:       d.message(kind, severity, z, pc, len(series.Sample)),
		}
		if len(series.Sample) > 0 {
			alert.Mean = stats.Float(mean)
		}
		set.Alerts = append(set.Alerts, alert)
	}

	return set
}

// message describes the axis that drove the severity, preferring the
// month-over-month change when both axes agree.
func (d Detector) message(kind performancedomain.MetricKind, severity domain.Severity, z, pc *float64, samples int) string {
	if pc != nil && d.classifier.PercentAxis(pc) == severity {
		return fmt.Sprintf("%s caiu %s%% em relação ao mês anterior", kind.Label(), decimal(math.Abs(*pc)))
	}
	if z != nil {
		return fmt.Sprintf("%s está %s desvios-padrão abaixo da média dos últimos %d meses",
			kind.Label(), decimal(math.Abs(*z)), samples)
	}
	return fmt.Sprintf("%s abaixo do esperado", kind.Label())
}

func noRecordAlert(target performancedomain.Period, reference *performancedomain.Period) domain.Alert {
	msg := fmt.Sprintf("Sem registro de métricas em %s", monthLabel(target))
	if reference != nil {
		msg += fmt.Sprintf("; exibindo dados de %s", monthLabel(*reference))
	}
	return domain.Alert{
		Type:     domain.AlertTypeNoRecord,
		Severity: NoRecordSeverity,
		Message:  msg,
		NoRecord: true,
	}
}

func monthLabel(p performancedomain.Period) string {
	return fmt.Sprintf("%02d/%04d", p.Month, p.Year)
}

func decimal(v float64) string {
	return strings.Replace(fmt.Sprintf("%.1f", v), ".", ",", 1)
}
