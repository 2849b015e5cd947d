package valuation

import (
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/graham/internal/domain"
)

// RateSummary is the aggregate interest rate of one load cycle.
type RateSummary struct {
	Points      []domain.TreasuryCurvePoint `json:"points"`
	AverageRate float64                     `json:"averageRate"` // fraction, 0.0433 for 4.33%
}

// AggregateRates averages the twelve maturities of the most recent curve point
// (the first one) and converts the percentage to a fraction.
// An empty input yields AverageRate 0.
func AggregateRates(points []domain.TreasuryCurvePoint) RateSummary {
	if len(points) == 0 {
		return RateSummary{Points: []domain.TreasuryCurvePoint{}, AverageRate: 0}
	}

	return RateSummary{
		Points:      points,
		AverageRate: stat.Mean(points[0].Maturities(), nil) / 100,
	}
}
