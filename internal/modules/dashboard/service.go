package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/graham/internal/domain"
	"github.com/aristath/graham/internal/modules/valuation"
	"github.com/aristath/graham/internal/utils"
)

// DefaultConcurrency bounds how many tickers are fetched at once.
const DefaultConcurrency = 8

// Service runs load cycles against a provider.
type Service struct {
	provider    domain.Provider
	concurrency int
	log         zerolog.Logger
}

// NewService creates a dashboard service. concurrency <= 0 uses DefaultConcurrency.
func NewService(provider domain.Provider, concurrency int, log zerolog.Logger) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		provider:    provider,
		concurrency: concurrency,
		log:         log.With().Str("service", "dashboard").Logger(),
	}
}

// tickerOutcome is the result slot for one ticker.
type tickerOutcome struct {
	valuation *valuation.TickerValuation
	exclusion *Exclusion
}

// Load fetches the treasury curve, then every ticker's earnings and share count
// concurrently, and values each ticker. Fetch failures never fail the load: a
// failed treasury fetch means a rate of 0, a failed ticker fetch excludes that
// ticker with a reason.
func (s *Service) Load(ctx context.Context, tickers []string, now time.Time) *LoadResult {
	defer utils.OperationTimer("dashboard_load", 30*time.Second, s.log)()

	result := &LoadResult{
		LoadID:     uuid.New(),
		LoadedAt:   now,
		Tickers:    append([]string{}, tickers...),
		Valuations: []valuation.TickerValuation{},
		Exclusions: []Exclusion{},
	}

	points, err := s.provider.GetTreasuryRates(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Treasury rates unavailable, using rate 0")
		points = nil
	}
	rates := valuation.AggregateRates(points)
	result.AverageRate = rates.AverageRate
	if len(rates.Points) > 0 && !rates.Points[0].Date.IsZero() {
		date := rates.Points[0].Date
		result.TreasuryDate = &date
	}

	outcomes := make([]tickerOutcome, len(tickers))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			outcomes[i] = s.loadTicker(ctx, ticker, rates.AverageRate, now)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if o.valuation != nil {
			result.Valuations = append(result.Valuations, *o.valuation)
		}
		if o.exclusion != nil {
			result.Exclusions = append(result.Exclusions, *o.exclusion)
		}
	}

	s.log.Info().
		Str("load_id", result.LoadID.String()).
		Int("tickers", len(tickers)).
		Int("valued", len(result.Valuations)).
		Int("excluded", len(result.Exclusions)).
		Float64("average_rate", result.AverageRate).
		Msg("Dashboard load completed")

	return result
}

func (s *Service) loadTicker(ctx context.Context, ticker string, rate float64, now time.Time) tickerOutcome {
	var (
		reports                []domain.EarningsReport
		shares                 *float64
		earningsErr, sharesErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		reports, earningsErr = s.provider.GetEarnings(ctx, ticker)
		return nil
	})
	g.Go(func() error {
		shares, sharesErr = s.provider.GetOutstandingShares(ctx, ticker)
		return nil
	})
	_ = g.Wait()

	if earningsErr != nil {
		s.log.Warn().Err(earningsErr).Str("ticker", ticker).Msg("Earnings unavailable")
		reports = nil
	}
	if sharesErr != nil {
		s.log.Warn().Err(sharesErr).Str("ticker", ticker).Msg("Outstanding shares unavailable")
		shares = nil
	}

	v, reason := valuation.Calculate(ticker, reports, rate, shares, now)
	if v != nil {
		return tickerOutcome{valuation: v}
	}

	exclusion := &Exclusion{Ticker: ticker, Reason: reason}
	switch {
	case reason == valuation.ExcludedNoYTDRevenue && earningsErr != nil:
		exclusion.Reason = valuation.ExcludedEarningsUnavailable
		exclusion.Detail = earningsErr.Error()
	case reason == valuation.ExcludedNoOutstandingShares && sharesErr != nil:
		exclusion.Reason = valuation.ExcludedSharesUnavailable
		exclusion.Detail = sharesErr.Error()
	}

	s.log.Debug().Str("ticker", ticker).Str("reason", string(exclusion.Reason)).Msg("Ticker excluded")
	return tickerOutcome{exclusion: exclusion}
}
