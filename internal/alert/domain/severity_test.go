package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityGreen < SeverityYellow)
	assert.True(t, SeverityYellow < SeverityRed)
	assert.Equal(t, SeverityRed, Worse(SeverityYellow, SeverityRed))
	assert.Equal(t, SeverityYellow, Worse(SeverityYellow, SeverityGreen))
	assert.Equal(t, SeverityGreen, Worse(SeverityGreen, SeverityGreen))
}

func TestSeverityJSON(t *testing.T) {
	b, err := json.Marshal([]Severity{SeverityGreen, SeverityYellow, SeverityRed})
	require.NoError(t, err)
	assert.JSONEq(t, `["green","yellow","red"]`, string(b))

	var s Severity
	require.NoError(t, json.Unmarshal([]byte(`"red"`), &s))
	assert.Equal(t, SeverityRed, s)

	assert.ErrorIs(t, json.Unmarshal([]byte(`"orange"`), &s), ErrUnknownSeverity)
	assert.ErrorIs(t, json.Unmarshal([]byte(`2`), &s), ErrUnknownSeverity)

	_, err = json.Marshal(Severity(9))
	assert.Error(t, err)
}

func TestAlertSetCounts(t *testing.T) {
	set := AlertSet{Alerts: []Alert{
		{Severity: SeverityRed},
		{Severity: SeverityYellow},
		{Severity: SeverityYellow},
	}}
	assert.Equal(t, 1, set.Count(SeverityRed))
	assert.Equal(t, 2, set.Count(SeverityYellow))
	assert.Equal(t, SeverityRed, set.Highest())
	assert.Equal(t, SeverityGreen, AlertSet{}.Highest())
}
