// Package dashboard runs one load cycle for a group of tickers and builds the
// dashboard view (summary card, ticker cards, chart rows) from its result.
package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/aristath/graham/internal/modules/valuation"
)

// Exclusion records why a requested ticker has no valuation.
type Exclusion struct {
	Ticker string                    `json:"ticker"`
	Reason valuation.ExclusionReason `json:"reason"`
	Detail string                    `json:"detail,omitempty"`
}

// LoadResult is the outcome of one load cycle. Valuations and Exclusions follow
// the order of the requested tickers.
type LoadResult struct {
	LoadID       uuid.UUID                   `json:"loadId"`
	LoadedAt     time.Time                   `json:"loadedAt"`
	Tickers      []string                    `json:"tickers"`
	AverageRate  float64                     `json:"averageRate"`
	TreasuryDate *time.Time                  `json:"treasuryDate,omitempty"`
	Valuations   []valuation.TickerValuation `json:"valuations"`
	Exclusions   []Exclusion                 `json:"exclusions"`
}
