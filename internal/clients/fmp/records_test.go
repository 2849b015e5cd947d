package fmp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloat(t *testing.T) {
	tests := []struct {
		input string
		valid bool
		value float64
	}{
		{`12.5`, true, 12.5},
		{`"12.5"`, true, 12.5},
		{`" 7 "`, true, 7},
		{`null`, false, 0},
		{`""`, false, 0},
		{`"n/a"`, false, 0},
		{`0`, true, 0},
		{`-3e2`, true, -300},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f flexFloat
			require.NoError(t, json.Unmarshal([]byte(tt.input), &f))
			assert.Equal(t, tt.valid, f.Valid)
			assert.Equal(t, tt.value, f.Value)
		})
	}
}

func TestFlexFloat_InStructMissingField(t *testing.T) {
	var r earningsRecord
	require.NoError(t, json.Unmarshal([]byte(`{"symbol":"GE","date":"2025-04-22"}`), &r))

	report := r.toDomain()
	assert.Nil(t, report.RevenueActual)
	assert.Nil(t, report.RevenueEstimated)
	assert.Equal(t, 2025, report.Date.Year())
}

func TestTreasuryRecord_NullsDefaultToZero(t *testing.T) {
	var r treasuryRecord
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-08-14","month1":4.4,"month2":null,"year30":"4.9"}`), &r))

	p := r.toDomain()
	assert.Equal(t, 4.4, p.Month1)
	assert.Equal(t, 0.0, p.Month2)
	assert.Equal(t, 4.9, p.Year30)
}

func TestProfileRecord_ExchangeFallback(t *testing.T) {
	var r profileRecord
	require.NoError(t, json.Unmarshal([]byte(`{"symbol":"GE","exchange":"NYSE","fullTimeEmployees":"125000"}`), &r))

	p := r.toDomain()
	assert.Equal(t, "NYSE", p.Exchange)
	assert.Equal(t, int64(125000), p.FullTimeEmployees)

	r.ExchangeShortName = "NYQ"
	assert.Equal(t, "NYQ", r.toDomain().Exchange)
}

func TestNonZero(t *testing.T) {
	assert.Nil(t, nonZero(flexFloat{}))
	assert.Nil(t, nonZero(flexFloat{Value: 0, Valid: true}))

	v := nonZero(flexFloat{Value: 42, Valid: true})
	require.NotNil(t, v)
	assert.Equal(t, 42.0, *v)
}

func TestResource(t *testing.T) {
	assert.True(t, ResourceProfile.Valid())
	assert.False(t, Resource("quotes").Valid())
	assert.True(t, ResourceEarnings.PerSymbol())
	assert.False(t, ResourceTreasury.PerSymbol())
	assert.Equal(t, "Failed to fetch profile data", ResourceProfile.FailureMessage())
	assert.Equal(t, "Failed to fetch treasury rates", ResourceTreasury.FailureMessage())
	assert.Equal(t, "Failed to fetch data", Resource("quotes").FailureMessage())
}
