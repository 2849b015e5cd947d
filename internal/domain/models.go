// Package domain provides the provider records the valuation core consumes.
// Records are already validated and defaulted: numeric nulls from the upstream
// provider arrive here as nil pointers or zero values, dates as time.Time.
package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date layout used by the upstream provider.
const DateLayout = "2006-01-02"

// EarningsReport is one quarterly earnings record for a symbol.
type EarningsReport struct {
	Symbol           string    `json:"symbol"`
	Date             time.Time `json:"date"`
	RevenueActual    *float64  `json:"revenueActual"`
	RevenueEstimated *float64  `json:"revenueEstimated"`
}

// TreasuryCurvePoint is one observation of the treasury yield curve.
// Rates are percentages (4.33 means 4.33%).
type TreasuryCurvePoint struct {
	Date    time.Time `json:"date"`
	Month1  float64   `json:"month1"`
	Month2  float64   `json:"month2"`
	Month3  float64   `json:"month3"`
	Month6  float64   `json:"month6"`
	Year1   float64   `json:"year1"`
	Year2   float64   `json:"year2"`
	Year3   float64   `json:"year3"`
	Year5   float64   `json:"year5"`
	Year7   float64   `json:"year7"`
	Year10  float64   `json:"year10"`
	Year20  float64   `json:"year20"`
	Year30  float64   `json:"year30"`
}

// Maturities returns the twelve maturity rates from shortest to longest.
func (p TreasuryCurvePoint) Maturities() []float64 {
	return []float64{
		p.Month1, p.Month2, p.Month3, p.Month6,
		p.Year1, p.Year2, p.Year3, p.Year5,
		p.Year7, p.Year10, p.Year20, p.Year30,
	}
}

// SharesFloat is one record of the shares-float time series.
type SharesFloat struct {
	Symbol            string    `json:"symbol"`
	Date              time.Time `json:"date"`
	FreeFloat         float64   `json:"freeFloat"`
	FloatShares       float64   `json:"floatShares"`
	OutstandingShares float64   `json:"outstandingShares"`
	Source            string    `json:"source"`
}

// CompanyProfile is display-only company metadata.
type CompanyProfile struct {
	Symbol            string `json:"symbol"`
	CompanyName       string `json:"companyName"`
	Exchange          string `json:"exchange"`
	Sector            string `json:"sector"`
	Country           string `json:"country"`
	FullTimeEmployees int64  `json:"fullTimeEmployees"`
	Website           string `json:"website"`
	Description       string `json:"description"`
}

// MarketCap is one market-capitalization record.
type MarketCap struct {
	Symbol    string    `json:"symbol"`
	Date      time.Time `json:"date"`
	MarketCap float64   `json:"marketCap"`
}

// DividendEvent is one declared dividend. Providers return them most recent first.
type DividendEvent struct {
	Date            time.Time `json:"date"`
	Label           string    `json:"label,omitempty"`
	Dividend        float64   `json:"dividend"`
	AdjDividend     float64   `json:"adjDividend"`
	RecordDate      string    `json:"recordDate"`
	PaymentDate     string    `json:"paymentDate"`
	DeclarationDate string    `json:"declarationDate"`
}

// ParseDate parses a provider date. Both plain dates and timestamps are accepted;
// anything else yields the zero time, which never falls inside a reporting window.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{DateLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
