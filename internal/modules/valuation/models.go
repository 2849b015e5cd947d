// Package valuation turns per-ticker revenue reports, share counts and the
// treasury curve into a comparable "calculated value", and derives the group
// statistics, classification and ordering built on top of it.
package valuation

// TickerValuation is the per-ticker result of one load cycle.
//
// QuarterlyRevenue = YTDRevenue / quarters reported
// MyValue          = QuarterlyRevenue / OutstandingShares * InterestRate
type TickerValuation struct {
	Ticker            string  `json:"ticker"`
	YTDRevenue        float64 `json:"ytdRevenue"`
	QuarterlyRevenue  float64 `json:"quarterlyRevenue"`
	QuartersReported  int     `json:"quartersReported"`
	InterestRate      float64 `json:"interestRate"`
	OutstandingShares float64 `json:"outstandingShares"`
	MyValue           float64 `json:"myValue"`
}

// ExclusionReason explains why a ticker has no valuation. The empty reason means
// the ticker was valued.
type ExclusionReason string

const (
	ExcludedNoYTDRevenue        ExclusionReason = "no_ytd_revenue"
	ExcludedNoOutstandingShares ExclusionReason = "no_outstanding_shares"
	ExcludedEarningsUnavailable ExclusionReason = "earnings_unavailable"
	ExcludedSharesUnavailable   ExclusionReason = "shares_unavailable"
)

// Position classifies a valuation against the group bounds envelope.
type Position string

const (
	AboveAverage Position = "above_average"
	BelowAverage Position = "below_average"
	WithinRange  Position = "within_range"
)

// Label is the badge text shown on a ticker card.
func (p Position) Label() string {
	switch p {
	case AboveAverage:
		return "Above Average"
	case BelowAverage:
		return "Below Average"
	default:
		return "Within Range"
	}
}
