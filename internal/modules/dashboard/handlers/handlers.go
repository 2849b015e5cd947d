// Package handlers provides HTTP handlers for the valuation dashboard.
package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/graham/internal/modules/dashboard"
	"github.com/aristath/graham/internal/modules/groups"
	"github.com/aristath/graham/internal/modules/valuation"
	"github.com/aristath/graham/internal/utils"
)

// Loader runs a load cycle.
type Loader interface {
	Load(ctx context.Context, tickers []string, now time.Time) *dashboard.LoadResult
}

// GroupSource exposes the current ticker groups.
type GroupSource interface {
	Groups() groups.GroupSet
}

// ToleranceSource provides the tolerance used when the request does not set one.
type ToleranceSource interface {
	TolerancePct() float64
}

// Response is the body of GET /api/dashboard.
type Response struct {
	Group      string                `json:"group"`
	GroupIndex int                   `json:"groupIndex"`
	Result     *dashboard.LoadResult `json:"result"`
	View       dashboard.View        `json:"view"`
}

// Handler handles dashboard HTTP requests
type Handler struct {
	loader    Loader
	groups    GroupSource
	tolerance ToleranceSource
	now       func() time.Time
	log       zerolog.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(loader Loader, groups GroupSource, tolerance ToleranceSource, log zerolog.Logger) *Handler {
	return &Handler{
		loader:    loader,
		groups:    groups,
		tolerance: tolerance,
		now:       time.Now,
		log:       log.With().Str("handler", "dashboard").Logger(),
	}
}

// HandleGetDashboard handles GET /api/dashboard
//
// Query parameters:
//   - group: group index, defaults to the default group
//   - tickers: comma-separated symbols, overrides group
//   - tolerance: bounds envelope in percent
//   - sort: none, desc or asc
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	mode, err := valuation.ParseSortMode(query.Get("sort"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tolerance := valuation.DefaultTolerancePct
	if h.tolerance != nil {
		tolerance = h.tolerance.TolerancePct()
	}
	if raw := strings.TrimSpace(query.Get("tolerance")); raw != "" {
		tolerance, err = strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
			h.writeError(w, http.StatusBadRequest, "Invalid tolerance")
			return
		}
	}

	resp := Response{GroupIndex: -1}
	var tickers []string
	if raw := query.Get("tickers"); raw != "" {
		for _, sym := range utils.ParseCSV(raw) {
			tickers = append(tickers, utils.NormalizeSymbol(sym))
		}
		tickers = utils.UniqueStrings(tickers)
	} else {
		set := h.groups.Groups()
		index := set.DefaultIndex()
		if raw := query.Get("group"); raw != "" {
			index, err = strconv.Atoi(raw)
			if err != nil {
				h.writeError(w, http.StatusBadRequest, "Invalid group index")
				return
			}
		}
		if index < 0 || index >= len(set) {
			h.writeError(w, http.StatusNotFound, groups.ErrGroupNotFound.Error())
			return
		}
		resp.Group = set[index].Name
		resp.GroupIndex = index
		tickers = set[index].Tickers
	}

	resp.Result = h.loader.Load(r.Context(), tickers, h.now())
	resp.View = dashboard.BuildView(resp.Result, tolerance, mode)

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
