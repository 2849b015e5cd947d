package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/graham/internal/domain"
)

func curvePoint(date string, rates ...float64) domain.TreasuryCurvePoint {
	p := domain.TreasuryCurvePoint{Date: domain.ParseDate(date)}
	fields := []*float64{
		&p.Month1, &p.Month2, &p.Month3, &p.Month6,
		&p.Year1, &p.Year2, &p.Year3, &p.Year5,
		&p.Year7, &p.Year10, &p.Year20, &p.Year30,
	}
	for i, r := range rates {
		*fields[i] = r
	}
	return p
}

func TestAggregateRates_UsesMostRecentPoint(t *testing.T) {
	latest := curvePoint("2025-06-02", 4.33, 4.35, 4.36, 4.30, 4.10, 3.95, 3.90, 3.98, 4.15, 4.40, 4.90, 4.92)
	older := curvePoint("2025-05-30", 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9)

	summary := AggregateRates([]domain.TreasuryCurvePoint{latest, older})

	sum := 4.33 + 4.35 + 4.36 + 4.30 + 4.10 + 3.95 + 3.90 + 3.98 + 4.15 + 4.40 + 4.90 + 4.92
	assert.InDelta(t, sum/12/100, summary.AverageRate, 1e-12)
	assert.Len(t, summary.Points, 2)
}

func TestAggregateRates_FlatCurve(t *testing.T) {
	p := curvePoint("2025-06-02", 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5)

	summary := AggregateRates([]domain.TreasuryCurvePoint{p})

	assert.InDelta(t, 0.05, summary.AverageRate, 1e-12)
}

func TestAggregateRates_MissingMaturitiesCountAsZero(t *testing.T) {
	// Twelve divisor even when some maturities were null upstream
	p := curvePoint("2025-06-02", 12)

	summary := AggregateRates([]domain.TreasuryCurvePoint{p})

	assert.InDelta(t, 0.01, summary.AverageRate, 1e-12)
}

func TestAggregateRates_Empty(t *testing.T) {
	for _, input := range [][]domain.TreasuryCurvePoint{nil, {}} {
		summary := AggregateRates(input)
		assert.Equal(t, 0.0, summary.AverageRate)
		assert.NotNil(t, summary.Points)
		assert.Empty(t, summary.Points)
	}
}
