package valuation

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// DefaultTolerancePct is the bounds envelope used when the user has not set one.
const DefaultTolerancePct = 10.0

// ErrNoValuations is returned when group statistics are requested for an empty set.
var ErrNoValuations = errors.New("no valuations to aggregate")

// GroupStats is the average and bounds envelope of a set of valuations.
type GroupStats struct {
	Count        int     `json:"count"`
	TolerancePct float64 `json:"tolerancePct"`
	Average      float64 `json:"average"`
	UpperBound   float64 `json:"upperBound"`
	LowerBound   float64 `json:"lowerBound"`
}

// ComputeStats averages MyValue over valuations and widens the average by
// tolerancePct percent in both directions. The tolerance is not range-checked.
func ComputeStats(valuations []TickerValuation, tolerancePct float64) (GroupStats, error) {
	if len(valuations) == 0 {
		return GroupStats{}, ErrNoValuations
	}

	values := make([]float64, len(valuations))
	for i, v := range valuations {
		values[i] = v.MyValue
	}
	average := stat.Mean(values, nil)

	return GroupStats{
		Count:        len(valuations),
		TolerancePct: tolerancePct,
		Average:      average,
		UpperBound:   average * (1 + tolerancePct/100),
		LowerBound:   average * (1 - tolerancePct/100),
	}, nil
}

// Classify places one valuation relative to the bounds. Values exactly on a
// bound are within range.
func (s GroupStats) Classify(v TickerValuation) Position {
	switch {
	case v.MyValue > s.UpperBound:
		return AboveAverage
	case v.MyValue < s.LowerBound:
		return BelowAverage
	default:
		return WithinRange
	}
}
