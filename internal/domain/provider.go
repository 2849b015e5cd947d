package domain

import "context"

// Provider is the remote financial-data source.
//
// Absent values are returned as nil with a nil error; a non-nil error means the
// fetch itself failed. Callers decide how to degrade.
type Provider interface {
	GetEarnings(ctx context.Context, symbol string) ([]EarningsReport, error)
	GetOutstandingShares(ctx context.Context, symbol string) (*float64, error)
	GetTreasuryRates(ctx context.Context) ([]TreasuryCurvePoint, error)
	GetCompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error)
	GetMarketCap(ctx context.Context, symbol string) (*float64, error)
	GetDividends(ctx context.Context, symbol string) ([]DividendEvent, error)
}
