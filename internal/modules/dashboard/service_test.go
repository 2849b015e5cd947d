package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/graham/internal/domain"
	"github.com/aristath/graham/internal/modules/valuation"
)

var testNow = time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

// fakeProvider serves canned data. delays lets tests finish tickers out of order.
type fakeProvider struct {
	mu          sync.Mutex
	treasury    []domain.TreasuryCurvePoint
	treasuryErr error
	earnings    map[string][]domain.EarningsReport
	earningsErr map[string]error
	shares      map[string]*float64
	sharesErr   map[string]error
	delays      map[string]time.Duration
	calls       map[string]int
}

func (f *fakeProvider) record(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[key]++
}

func (f *fakeProvider) GetEarnings(ctx context.Context, symbol string) ([]domain.EarningsReport, error) {
	f.record("earnings:" + symbol)
	time.Sleep(f.delays[symbol])
	return f.earnings[symbol], f.earningsErr[symbol]
}

func (f *fakeProvider) GetOutstandingShares(ctx context.Context, symbol string) (*float64, error) {
	f.record("shares:" + symbol)
	return f.shares[symbol], f.sharesErr[symbol]
}

func (f *fakeProvider) GetTreasuryRates(ctx context.Context) ([]domain.TreasuryCurvePoint, error) {
	f.record("treasury")
	return f.treasury, f.treasuryErr
}

func (f *fakeProvider) GetCompanyProfile(ctx context.Context, symbol string) (*domain.CompanyProfile, error) {
	return nil, nil
}

func (f *fakeProvider) GetMarketCap(ctx context.Context, symbol string) (*float64, error) {
	return nil, nil
}

func (f *fakeProvider) GetDividends(ctx context.Context, symbol string) ([]domain.DividendEvent, error) {
	return nil, nil
}

func ptr(v float64) *float64 { return &v }

func flatCurve(rate float64) []domain.TreasuryCurvePoint {
	return []domain.TreasuryCurvePoint{{
		Date:   time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC),
		Month1: rate, Month2: rate, Month3: rate, Month6: rate,
		Year1: rate, Year2: rate, Year3: rate, Year5: rate,
		Year7: rate, Year10: rate, Year20: rate, Year30: rate,
	}}
}

func quarter(month time.Month, revenue float64) domain.EarningsReport {
	return domain.EarningsReport{
		Date:          time.Date(2025, month, 20, 0, 0, 0, 0, time.UTC),
		RevenueActual: ptr(revenue),
	}
}

func TestLoad_ValuesTickersInRequestOrder(t *testing.T) {
	provider := &fakeProvider{
		treasury: flatCurve(4),
		earnings: map[string][]domain.EarningsReport{
			"AAA": {quarter(1, 100), quarter(4, 100)},
			"BBB": {quarter(4, 300)},
			"CCC": {quarter(7, 50)},
		},
		shares: map[string]*float64{"AAA": ptr(10), "BBB": ptr(10), "CCC": ptr(5)},
		delays: map[string]time.Duration{"AAA": 30 * time.Millisecond, "BBB": 10 * time.Millisecond},
	}
	svc := NewService(provider, 4, zerolog.Nop())

	result := svc.Load(context.Background(), []string{"AAA", "BBB", "CCC"}, testNow)

	require.Len(t, result.Valuations, 3)
	assert.Equal(t, "AAA", result.Valuations[0].Ticker)
	assert.Equal(t, "BBB", result.Valuations[1].Ticker)
	assert.Equal(t, "CCC", result.Valuations[2].Ticker)
	assert.InDelta(t, 0.04, result.AverageRate, 1e-12)
	assert.InDelta(t, 100.0/10*0.04, result.Valuations[0].MyValue, 1e-12)
	assert.InDelta(t, 300.0/10*0.04, result.Valuations[1].MyValue, 1e-12)
	assert.Empty(t, result.Exclusions)
	require.NotNil(t, result.TreasuryDate)
	assert.Equal(t, 14, result.TreasuryDate.Day())
	assert.NotEmpty(t, result.LoadID.String())
	assert.Equal(t, testNow, result.LoadedAt)
}

func TestLoad_TreasuryFailureMeansZeroRate(t *testing.T) {
	provider := &fakeProvider{
		treasuryErr: errors.New("upstream down"),
		earnings:    map[string][]domain.EarningsReport{"AAA": {quarter(2, 100)}},
		shares:      map[string]*float64{"AAA": ptr(10)},
	}
	svc := NewService(provider, 0, zerolog.Nop())

	result := svc.Load(context.Background(), []string{"AAA"}, testNow)

	assert.Equal(t, 0.0, result.AverageRate)
	assert.Nil(t, result.TreasuryDate)
	require.Len(t, result.Valuations, 1)
	assert.Equal(t, 0.0, result.Valuations[0].MyValue)
	assert.Equal(t, 1, provider.calls["treasury"])
}

func TestLoad_Exclusions(t *testing.T) {
	provider := &fakeProvider{
		treasury: flatCurve(4),
		earnings: map[string][]domain.EarningsReport{
			"OLD":    {{Date: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), RevenueActual: ptr(1)}},
			"NOSH":   {quarter(3, 10)},
			"SHFAIL": {quarter(3, 10)},
			"OK":     {quarter(3, 10)},
		},
		earningsErr: map[string]error{"EFAIL": errors.New("timeout")},
		shares: map[string]*float64{
			"OLD":   ptr(10),
			"NOSH":  ptr(0),
			"EFAIL": ptr(10),
			"OK":    ptr(10),
		},
		sharesErr: map[string]error{"SHFAIL": errors.New("503")},
	}
	svc := NewService(provider, 2, zerolog.Nop())

	result := svc.Load(context.Background(), []string{"OLD", "NOSH", "EFAIL", "SHFAIL", "OK"}, testNow)

	require.Len(t, result.Valuations, 1)
	assert.Equal(t, "OK", result.Valuations[0].Ticker)

	require.Len(t, result.Exclusions, 4)
	assert.Equal(t, Exclusion{Ticker: "OLD", Reason: valuation.ExcludedNoYTDRevenue}, result.Exclusions[0])
	assert.Equal(t, Exclusion{Ticker: "NOSH", Reason: valuation.ExcludedNoOutstandingShares}, result.Exclusions[1])
	assert.Equal(t, "EFAIL", result.Exclusions[2].Ticker)
	assert.Equal(t, valuation.ExcludedEarningsUnavailable, result.Exclusions[2].Reason)
	assert.Equal(t, "timeout", result.Exclusions[2].Detail)
	assert.Equal(t, valuation.ExcludedSharesUnavailable, result.Exclusions[3].Reason)
}

func TestLoad_EmptyTickerList(t *testing.T) {
	provider := &fakeProvider{treasury: flatCurve(4)}
	svc := NewService(provider, 0, zerolog.Nop())

	result := svc.Load(context.Background(), nil, testNow)

	assert.NotNil(t, result.Valuations)
	assert.Empty(t, result.Valuations)
	assert.NotNil(t, result.Exclusions)
	assert.Empty(t, result.Tickers)
}

func TestLoad_FetchesBothResourcesPerTicker(t *testing.T) {
	provider := &fakeProvider{treasury: flatCurve(4)}
	svc := NewService(provider, 0, zerolog.Nop())

	svc.Load(context.Background(), []string{"AAA", "BBB"}, testNow)

	assert.Equal(t, 1, provider.calls["earnings:AAA"])
	assert.Equal(t, 1, provider.calls["shares:AAA"])
	assert.Equal(t, 1, provider.calls["earnings:BBB"])
	assert.Equal(t, 1, provider.calls["shares:BBB"])
}

func TestLoad_EachLoadHasItsOwnID(t *testing.T) {
	svc := NewService(&fakeProvider{}, 0, zerolog.Nop())

	a := svc.Load(context.Background(), nil, testNow)
	b := svc.Load(context.Background(), nil, testNow)

	assert.NotEqual(t, a.LoadID, b.LoadID)
}
