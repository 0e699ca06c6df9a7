package correlation

import (
	"context"
	"testing"
)

func TestEnsureCorrelationIDKeepsExisting(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "abc")
	ctx, cid := EnsureCorrelationID(ctx)
	if cid != "abc" {
		t.Fatalf("expected existing id, got %q", cid)
	}
	if ExtractCorrelationID(ctx) != "abc" {
		t.Fatalf("expected id to stay on context")
	}
}

func TestEnsureCorrelationIDGenerates(t *testing.T) {
	ctx, cid := EnsureCorrelationID(context.Background())
	if len(cid) != 26 {
		t.Fatalf("expected ulid, got %q", cid)
	}
	if ExtractCorrelationID(ctx) != cid {
		t.Fatalf("expected generated id on context")
	}
}
