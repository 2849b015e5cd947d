package clientdata

import "time"

// TTL constants per upstream resource.
// These are added to time.Now() when storing to calculate expires_at.
const (
	TTLProfile = 7 * 24 * time.Hour // company profile changes rarely

	// Quarterly data, refreshed often enough to pick up a new filing within a day
	TTLEarnings  = 24 * time.Hour
	TTLShares    = 24 * time.Hour
	TTLDividends = 24 * time.Hour

	TTLTreasuryRates = 6 * time.Hour // published once per business day
	TTLMarketCap     = time.Hour     // moves with price
)

// TTLFor returns the TTL used for a cache table.
func TTLFor(table string) time.Duration {
	switch table {
	case TableProfile:
		return TTLProfile
	case TableEarnings:
		return TTLEarnings
	case TableSharesFloat:
		return TTLShares
	case TableDividends:
		return TTLDividends
	case TableTreasuryRates:
		return TTLTreasuryRates
	default:
		return TTLMarketCap
	}
}
