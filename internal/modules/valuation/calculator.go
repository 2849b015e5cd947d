package valuation

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/aristath/graham/internal/domain"
)

// YTDReports returns the reports with an actual revenue dated in now's calendar
// year. Report dates are UTC, so the year is taken from now in UTC too.
func YTDReports(reports []domain.EarningsReport, now time.Time) []domain.EarningsReport {
	year := now.UTC().Year()
	ytd := make([]domain.EarningsReport, 0, len(reports))
	for _, r := range reports {
		if r.RevenueActual != nil && r.Date.Year() == year {
			ytd = append(ytd, r)
		}
	}
	return ytd
}

// Calculate values one ticker. It returns nil and the reason when the ticker
// cannot be valued: no year-to-date revenue, or no usable share count.
func Calculate(
	ticker string,
	reports []domain.EarningsReport,
	interestRate float64,
	outstandingShares *float64,
	now time.Time,
) (*TickerValuation, ExclusionReason) {
	ytd := YTDReports(reports, now)
	if len(ytd) == 0 {
		return nil, ExcludedNoYTDRevenue
	}

	if outstandingShares == nil || *outstandingShares == 0 {
		return nil, ExcludedNoOutstandingShares
	}

	revenues := make([]float64, len(ytd))
	for i, r := range ytd {
		revenues[i] = *r.RevenueActual
	}

	ytdRevenue := floats.Sum(revenues)
	quarterlyRevenue := ytdRevenue / float64(len(ytd))
	shares := *outstandingShares

	return &TickerValuation{
		Ticker:            ticker,
		YTDRevenue:        ytdRevenue,
		QuarterlyRevenue:  quarterlyRevenue,
		QuartersReported:  len(ytd),
		InterestRate:      interestRate,
		OutstandingShares: shares,
		MyValue:           quarterlyRevenue / shares * interestRate,
	}, ""
}
