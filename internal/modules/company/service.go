// Package company assembles the company information shown for a single ticker:
// profile, market capitalization and a dividend summary.
package company

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/graham/internal/domain"
	"github.com/aristath/graham/internal/modules/dividends"
	"github.com/aristath/graham/internal/utils"
)

// Info is the company information for one symbol. Every part is optional.
type Info struct {
	Symbol           string                 `json:"symbol"`
	Profile          *domain.CompanyProfile `json:"profile"`
	MarketCap        *float64               `json:"marketCap"`
	MarketCapDisplay string                 `json:"marketCapDisplay,omitempty"`
	Dividends        dividends.Summary      `json:"dividends"`
}

// Service fetches company information from a provider.
type Service struct {
	provider domain.Provider
	log      zerolog.Logger
}

// NewService creates a company info service.
func NewService(provider domain.Provider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With().Str("service", "company").Logger(),
	}
}

// Info fetches profile, market cap and dividends concurrently. A failed fetch
// leaves its part absent and never fails the whole call.
func (s *Service) Info(ctx context.Context, symbol string, now time.Time) Info {
	symbol = utils.NormalizeSymbol(symbol)
	info := Info{Symbol: symbol}

	var events []domain.DividendEvent

	var g errgroup.Group
	g.Go(func() error {
		profile, err := s.provider.GetCompanyProfile(ctx, symbol)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Profile unavailable")
			return nil
		}
		info.Profile = profile
		return nil
	})
	g.Go(func() error {
		marketCap, err := s.provider.GetMarketCap(ctx, symbol)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Market cap unavailable")
			return nil
		}
		info.MarketCap = marketCap
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = s.provider.GetDividends(ctx, symbol)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Dividends unavailable")
			events = nil
		}
		return nil
	})
	_ = g.Wait()

	if info.MarketCap != nil {
		info.MarketCapDisplay = utils.FormatBillions(*info.MarketCap)
	}
	info.Dividends = dividends.Summarize(events, now)
	return info
}
