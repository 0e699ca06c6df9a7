package metrics

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("severity", "red"),
		attribute.String("mentee_id", "456"),
		attribute.String("metric", "revenue"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "mentee_id" {
			t.Fatalf("expected mentee_id to be dropped")
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordAlert(context.Background(), "red", "revenue")
	m.RecordSuggestions(context.Background(), "fallback")
	m.RecordBundle(context.Background(), time.Second)
}

func TestNoopMetricsRecord(t *testing.T) {
	m := NewNoop()
	if m == nil {
		t.Fatal("expected noop metrics")
	}
	m.RecordAlert(context.Background(), "yellow", "leads")
	m.RecordRateLimitDenied(context.Background(), "1", "suggestions", "bucket_empty")
}
