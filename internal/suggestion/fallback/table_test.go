package fallback

import (
	"testing"

	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"github.com/smallbiznis/mentorhub/internal/suggestion/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricAlert(kind performancedomain.MetricKind, s alertdomain.Severity) alertdomain.Alert {
	return alertdomain.Alert{Type: alertdomain.AlertTypeMetric, Metric: kind, Severity: s}
}

func TestSuggestionsOrderRedFirstThenMetricOrder(t *testing.T) {
	out := Suggestions([]alertdomain.Alert{
		metricAlert(performancedomain.MetricStories, alertdomain.SeverityYellow),
		metricAlert(performancedomain.MetricLeads, alertdomain.SeverityRed),
		metricAlert(performancedomain.MetricRevenue, alertdomain.SeverityYellow),
		metricAlert(performancedomain.MetricProcedures, alertdomain.SeverityRed),
	})

	require.Len(t, out, 4)
	assert.Equal(t, performancedomain.MetricLeads, out[0].Metric)
	assert.Equal(t, performancedomain.MetricProcedures, out[1].Metric)
	assert.Equal(t, performancedomain.MetricRevenue, out[2].Metric)
	assert.Equal(t, performancedomain.MetricStories, out[3].Metric)
}

func TestSuggestionsNoRecordLeadsItsSeverityGroup(t *testing.T) {
	out := Suggestions([]alertdomain.Alert{
		metricAlert(performancedomain.MetricRevenue, alertdomain.SeverityYellow),
		{Type: alertdomain.AlertTypeNoRecord, Severity: alertdomain.SeverityYellow},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "Envio das métricas do mês", out[0].Topic)
	assert.Empty(t, out[0].Metric)
}

func TestSuggestionsWithoutAlertsKeepMomentum(t *testing.T) {
	out := Suggestions(nil)
	require.Len(t, out, 1)
	assert.Equal(t, momentum.Topic, out[0].Topic)
}

func TestSuggestionsCapped(t *testing.T) {
	var alerts []alertdomain.Alert
	for _, kind := range performancedomain.AlertedMetrics {
		alerts = append(alerts, metricAlert(kind, alertdomain.SeverityRed))
	}
	alerts = append(alerts, alertdomain.Alert{Type: alertdomain.AlertTypeNoRecord, Severity: alertdomain.SeverityYellow})
	assert.Len(t, Suggestions(alerts), MaxSuggestions)
}

func TestResultIsTaggedFallback(t *testing.T) {
	assert.Equal(t, domain.SourceFallback, Result(nil).Source)
}

func TestSuggestionsDeterministic(t *testing.T) {
	alerts := []alertdomain.Alert{
		metricAlert(performancedomain.MetricFeedPosts, alertdomain.SeverityRed),
		metricAlert(performancedomain.MetricRevenue, alertdomain.SeverityRed),
	}
	assert.Equal(t, Suggestions(alerts), Suggestions(alerts))
}
