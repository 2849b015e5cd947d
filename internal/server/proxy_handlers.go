package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/graham/internal/clients/fmp"
)

// Fetcher returns an upstream response body for a resource
type Fetcher interface {
	Fetch(ctx context.Context, resource fmp.Resource, symbol string) (json.RawMessage, error)
}

// ProxyHandlers pass financial data requests through to the upstream provider
// so the browser never sees the API key
type ProxyHandlers struct {
	fetcher Fetcher
	log     zerolog.Logger
}

// NewProxyHandlers creates new proxy handlers
func NewProxyHandlers(fetcher Fetcher, log zerolog.Logger) *ProxyHandlers {
	return &ProxyHandlers{
		fetcher: fetcher,
		log:     log.With().Str("handler", "proxy").Logger(),
	}
}

// RegisterRoutes registers one GET route per upstream resource
func (h *ProxyHandlers) RegisterRoutes(r chi.Router) {
	for _, resource := range []fmp.Resource{
		fmp.ResourceEarnings,
		fmp.ResourceShares,
		fmp.ResourceTreasury,
		fmp.ResourceProfile,
		fmp.ResourceMarketCap,
		fmp.ResourceDividends,
	} {
		r.Get("/"+string(resource), h.handle(resource))
	}
}

func (h *ProxyHandlers) handle(resource fmp.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
		if resource.PerSymbol() && symbol == "" {
			writeError(w, http.StatusBadRequest, "Symbol is required", h.log)
			return
		}

		body, err := h.fetcher.Fetch(r.Context(), resource, symbol)
		if err != nil {
			if errors.Is(err, fmp.ErrMissingAPIKey) {
				writeError(w, http.StatusInternalServerError, "API key not configured", h.log)
				return
			}

			h.log.Warn().
				Err(err).
				Str("resource", string(resource)).
				Str("symbol", symbol).
				Msg("Upstream fetch failed")
			writeError(w, http.StatusInternalServerError, resource.FailureMessage(), h.log)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			h.log.Error().Err(err).Msg("Failed to write proxy response")
		}
	}
}
