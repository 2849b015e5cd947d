package fmp

import "github.com/aristath/graham/internal/clientdata"

// Resource names one upstream dataset the proxy and the provider read.
type Resource string

const (
	ResourceEarnings  Resource = "earnings"
	ResourceShares    Resource = "shares"
	ResourceTreasury  Resource = "treasury"
	ResourceProfile   Resource = "profile"
	ResourceMarketCap Resource = "market-cap"
	ResourceDividends Resource = "dividends"
)

type resourceDef struct {
	endpoint    string
	table       string
	perSymbol   bool
	failureText string
}

var resources = map[Resource]resourceDef{
	ResourceEarnings:  {"/earnings", clientdata.TableEarnings, true, "Failed to fetch earnings data"},
	ResourceShares:    {"/shares-float", clientdata.TableSharesFloat, true, "Failed to fetch shares data"},
	ResourceTreasury:  {"/treasury-rates", clientdata.TableTreasuryRates, false, "Failed to fetch treasury rates"},
	ResourceProfile:   {"/profile", clientdata.TableProfile, true, "Failed to fetch profile data"},
	ResourceMarketCap: {"/market-capitalization", clientdata.TableMarketCap, true, "Failed to fetch market cap data"},
	ResourceDividends: {"/dividends", clientdata.TableDividends, true, "Failed to fetch dividends data"},
}

// treasurySeries is the cache key for the (symbol-less) treasury curve.
const treasurySeries = "latest"

// PerSymbol reports whether the resource requires a symbol.
func (r Resource) PerSymbol() bool {
	return resources[r].perSymbol
}

// FailureMessage is the client-facing error text when the upstream fetch fails.
func (r Resource) FailureMessage() string {
	if def, ok := resources[r]; ok {
		return def.failureText
	}
	return "Failed to fetch data"
}

// Valid reports whether r is a known resource.
func (r Resource) Valid() bool {
	_, ok := resources[r]
	return ok
}
