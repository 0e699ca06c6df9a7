package service

import (
	"testing"

	"github.com/smallbiznis/mentorhub/internal/alert/domain"
	"github.com/smallbiznis/mentorhub/internal/config"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june = performancedomain.Period{Year: 2025, Month: 6}

func row(month int, revenue float64, leads int64) performancedomain.MonthlyMetric {
	return performancedomain.MonthlyMetric{Year: 2025, Month: month, Revenue: revenue, Leads: leads}
}

func detect(rows ...performancedomain.MonthlyMetric) domain.AlertSet {
	d := NewDetector(config.DefaultAlertingConfig())
	return d.Detect(performancedomain.NewHistory(rows), june)
}

func TestDetectPercentDrop(t *testing.T) {
	set := detect(row(1, 100, 10), row(2, 100, 10), row(3, 100, 10), row(4, 100, 10), row(5, 100, 10), row(6, 60, 10))

	require.Len(t, set.Alerts, 1)
	alert := set.Alerts[0]
	assert.Equal(t, domain.AlertTypeMetric, alert.Type)
	assert.Equal(t, performancedomain.MetricRevenue, alert.Metric)
	assert.Equal(t, domain.SeverityRed, alert.Severity)
	assert.Nil(t, alert.ZScore)
	require.NotNil(t, alert.PercentChange)
	assert.InDelta(t, -40.0, *alert.PercentChange, 1e-9)
	assert.Equal(t, "Faturamento caiu 40,0% em relação ao mês anterior", alert.Message)
	assert.False(t, set.NoRecord)
	assert.False(t, set.UsedFallback)
}

func TestDetectZScoreOnly(t *testing.T) {
	set := detect(row(1, 100, 0), row(2, 110, 0), row(3, 90, 0), row(4, 100, 0), row(5, 100, 0), row(6, 90, 0))

	require.Len(t, set.Alerts, 1)
	alert := set.Alerts[0]
	assert.Equal(t, domain.SeverityRed, alert.Severity)
	require.NotNil(t, alert.ZScore)
	assert.InDelta(t, -1.58, *alert.ZScore, 0.01)
	require.NotNil(t, alert.Mean)
	assert.InDelta(t, 100.0, *alert.Mean, 1e-9)
	assert.Equal(t, "Faturamento está 1,6 desvios-padrão abaixo da média dos últimos 5 meses", alert.Message)
}

func TestDetectYellowLeads(t *testing.T) {
	set := detect(row(5, 100, 100), row(6, 100, 80))

	require.Len(t, set.Alerts, 1)
	assert.Equal(t, performancedomain.MetricLeads, set.Alerts[0].Metric)
	assert.Equal(t, domain.SeverityYellow, set.Alerts[0].Severity)
}

func TestDetectFallbackEmitsNoRecordFirst(t *testing.T) {
	set := detect(row(3, 100, 5), row(4, 50, 5))

	assert.True(t, set.NoRecord)
	assert.True(t, set.UsedFallback)
	require.NotNil(t, set.ReferencePeriod)
	assert.Equal(t, performancedomain.Period{Year: 2025, Month: 4}, *set.ReferencePeriod)

	require.Len(t, set.Alerts, 2)
	assert.Equal(t, domain.AlertTypeNoRecord, set.Alerts[0].Type)
	assert.Equal(t, NoRecordSeverity, set.Alerts[0].Severity)
	assert.Equal(t, "Sem registro de métricas em 06/2025; exibindo dados de 04/2025", set.Alerts[0].Message)

	assert.Equal(t, performancedomain.MetricRevenue, set.Alerts[1].Metric)
	assert.Equal(t, domain.SeverityRed, set.Alerts[1].Severity)
	assert.True(t, set.Alerts[1].NoRecord)
}

func TestDetectColdStart(t *testing.T) {
	set := detect()

	assert.True(t, set.NoRecord)
	assert.False(t, set.UsedFallback)
	assert.Nil(t, set.ReferencePeriod)
	require.Len(t, set.Alerts, 1)
	assert.Equal(t, domain.AlertTypeNoRecord, set.Alerts[0].Type)
	assert.Equal(t, "Sem registro de métricas em 06/2025", set.Alerts[0].Message)
}

func TestDetectZeroRowIsASubmission(t *testing.T) {
	set := detect(row(5, 100, 0), row(6, 0, 0))

	assert.False(t, set.NoRecord)
	require.Len(t, set.Alerts, 1)
	assert.Equal(t, domain.SeverityRed, set.Alerts[0].Severity)
}

func TestDetectFirstSubmissionIsQuiet(t *testing.T) {
	set := detect(row(6, 10, 1))
	assert.Empty(t, set.Alerts)
	assert.False(t, set.NoRecord)
}

func TestDetectIsDeterministic(t *testing.T) {
	rows := []performancedomain.MonthlyMetric{row(1, 100, 3), row(2, 80, 9), row(4, 120, 1), row(6, 40, 0)}
	assert.Equal(t, detect(rows...), detect(rows...))
}

func TestDetectNeverEmitsGreen(t *testing.T) {
	set := detect(row(1, 10, 1), row(2, 50, 3), row(3, 20, 8), row(4, 70, 2), row(5, 30, 6), row(6, 25, 4))
	for _, alert := range set.Alerts {
		if alert.Type == domain.AlertTypeMetric {
			assert.NotEqual(t, domain.SeverityGreen, alert.Severity)
		}
	}
}
