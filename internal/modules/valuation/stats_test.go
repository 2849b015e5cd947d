package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valuations(values ...float64) []TickerValuation {
	result := make([]TickerValuation, len(values))
	for i, v := range values {
		result[i] = TickerValuation{Ticker: string(rune('A' + i)), MyValue: v}
	}
	return result
}

func TestComputeStats_ReferenceExample(t *testing.T) {
	set := valuations(80, 100, 120)

	stats, err := ComputeStats(set, 10)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 100, stats.Average, 1e-9)
	assert.InDelta(t, 110, stats.UpperBound, 1e-9)
	assert.InDelta(t, 90, stats.LowerBound, 1e-9)

	positions := make([]Position, len(set))
	for i, v := range set {
		positions[i] = stats.Classify(v)
	}
	assert.Equal(t, []Position{BelowAverage, WithinRange, AboveAverage}, positions)
}

func TestComputeStats_Empty(t *testing.T) {
	_, err := ComputeStats(nil, 10)
	assert.ErrorIs(t, err, ErrNoValuations)
}

func TestComputeStats_ToleranceUnconstrained(t *testing.T) {
	stats, err := ComputeStats(valuations(100), 150)
	require.NoError(t, err)

	assert.InDelta(t, 250, stats.UpperBound, 1e-9)
	assert.InDelta(t, -50, stats.LowerBound, 1e-9)

	stats, err = ComputeStats(valuations(100), 0)
	require.NoError(t, err)
	assert.Equal(t, stats.Average, stats.UpperBound)
	assert.Equal(t, stats.Average, stats.LowerBound)
}

func TestClassify_BoundsAreInclusive(t *testing.T) {
	stats := GroupStats{Average: 100, UpperBound: 110, LowerBound: 90}

	assert.Equal(t, WithinRange, stats.Classify(TickerValuation{MyValue: 110}))
	assert.Equal(t, WithinRange, stats.Classify(TickerValuation{MyValue: 90}))
	assert.Equal(t, AboveAverage, stats.Classify(TickerValuation{MyValue: 110.0001}))
	assert.Equal(t, BelowAverage, stats.Classify(TickerValuation{MyValue: 89.9999}))
}

func TestPosition_Label(t *testing.T) {
	assert.Equal(t, "Above Average", AboveAverage.Label())
	assert.Equal(t, "Below Average", BelowAverage.Label())
	assert.Equal(t, "Within Range", WithinRange.Label())
}
