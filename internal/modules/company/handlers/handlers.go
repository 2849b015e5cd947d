// Package handlers provides HTTP handlers for company information.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/graham/internal/modules/company"
	"github.com/aristath/graham/internal/utils"
)

// InfoSource fetches company information.
type InfoSource interface {
	Info(ctx context.Context, symbol string, now time.Time) company.Info
}

// Handler handles company info HTTP requests
type Handler struct {
	service InfoSource
	now     func() time.Time
	log     zerolog.Logger
}

// NewHandler creates a new company handler
func NewHandler(service InfoSource, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
		log:     log.With().Str("handler", "company").Logger(),
	}
}

// RegisterRoutes registers the company routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/company/{symbol}", h.HandleGetInfo)
}

// HandleGetInfo handles GET /api/company/{symbol}
func (h *Handler) HandleGetInfo(w http.ResponseWriter, r *http.Request) {
	symbol := utils.NormalizeSymbol(chi.URLParam(r, "symbol"))
	if symbol == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Symbol is required"})
		return
	}

	h.writeJSON(w, http.StatusOK, h.service.Info(r.Context(), symbol, h.now()))
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
