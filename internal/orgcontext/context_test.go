package orgcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrgIDRoundTrip(t *testing.T) {
	ctx := WithOrgID(context.Background(), 42)
	id, ok := OrgIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id.Int64())
}

func TestOrgIDMissing(t *testing.T) {
	_, ok := OrgIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = OrgIDFromContext(WithOrgID(context.Background(), 0))
	assert.False(t, ok)
}

func TestParseOrgID(t *testing.T) {
	id, ok := ParseOrgID(" 1001 ")
	assert.True(t, ok)
	assert.Equal(t, int64(1001), id.Int64())

	_, ok = ParseOrgID("abc")
	assert.False(t, ok)
	_, ok = ParseOrgID("-5")
	assert.False(t, ok)
}
