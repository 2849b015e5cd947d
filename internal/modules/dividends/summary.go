// Package dividends summarizes a ticker's dividend history for the company info view.
package dividends

import (
	"time"

	"github.com/aristath/graham/internal/domain"
)

// Frequency is a coarse dividend cadence label.
type Frequency string

const (
	FrequencyMonthly    Frequency = "Monthly"
	FrequencyQuarterly  Frequency = "Quarterly"
	FrequencySemiAnnual Frequency = "Semi-Annual"
	FrequencyAnnual     Frequency = "Annual"
)

// trailingEvents is how many of the most recent events make up the trailing sum.
const trailingEvents = 4

// Summary is the dividend section of the company info view.
//
// TrailingDividends is the sum of the last four per-share dividend amounts, not a
// yield relative to price. It keeps the "annualYield" wire name the dashboard
// frontend reads.
type Summary struct {
	LatestDividend    *domain.DividendEvent `json:"latestDividend"`
	TrailingDividends *float64              `json:"annualYield"`
	Frequency         *Frequency            `json:"frequency"`
	EventsLastYear    int                   `json:"eventsLastYear"`
}

// Summarize reduces events (most recent first) to a Summary. now anchors the
// trailing one-year window used for the frequency label.
func Summarize(events []domain.DividendEvent, now time.Time) Summary {
	if len(events) == 0 {
		return Summary{}
	}

	latest := events[0]

	var trailing float64
	for _, e := range events[:min(trailingEvents, len(events))] {
		trailing += e.Dividend
	}

	count := CountSince(events, now.AddDate(-1, 0, 0))

	return Summary{
		LatestDividend:    &latest,
		TrailingDividends: &trailing,
		Frequency:         ClassifyFrequency(count),
		EventsLastYear:    count,
	}
}

// CountSince counts events dated on or after since.
func CountSince(events []domain.DividendEvent, since time.Time) int {
	count := 0
	for _, e := range events {
		if !e.Date.Before(since) {
			count++
		}
	}
	return count
}

// ClassifyFrequency maps a yearly event count to a cadence; zero events has none.
func ClassifyFrequency(eventsPerYear int) *Frequency {
	var f Frequency
	switch {
	case eventsPerYear >= 12:
		f = FrequencyMonthly
	case eventsPerYear >= 4:
		f = FrequencyQuarterly
	case eventsPerYear >= 2:
		f = FrequencySemiAnnual
	case eventsPerYear >= 1:
		f = FrequencyAnnual
	default:
		return nil
	}
	return &f
}
