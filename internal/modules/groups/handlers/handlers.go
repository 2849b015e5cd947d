// Package handlers provides HTTP handlers for ticker group management.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/aristath/graham/internal/modules/groups"
)

// CreateGroupRequest is the body of POST /api/groups.
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// AddTickerRequest is the body of POST /api/groups/{index}/tickers.
type AddTickerRequest struct {
	Symbol string `json:"symbol" validate:"required,max=20"`
}

// Handler handles ticker group HTTP requests
type Handler struct {
	service  *groups.Service
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler creates a new groups handler
func NewHandler(service *groups.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		log:      log.With().Str("handler", "groups").Logger(),
	}
}

// HandleList handles GET /api/groups
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"groups": h.service.Groups(),
	})
}

// HandleCreate handles POST /api/groups
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if !h.decode(w, r, &req) {
		return
	}

	index, err := h.service.CreateGroup(r.Context(), req.Name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	group, err := h.service.Group(index)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"index": index,
		"group": group,
	})
}

// HandleDelete handles DELETE /api/groups/{index}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteGroup(r.Context(), index); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"groups": h.service.Groups(),
	})
}

// HandleAddTicker handles POST /api/groups/{index}/tickers
func (h *Handler) HandleAddTicker(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}

	var req AddTickerRequest
	if !h.decode(w, r, &req) {
		return
	}

	group, err := h.service.AddTicker(r.Context(), index, req.Symbol)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, group)
}

// HandleRemoveTicker handles DELETE /api/groups/{index}/tickers/{symbol}
func (h *Handler) HandleRemoveTicker(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}

	group, err := h.service.RemoveTicker(r.Context(), index, chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, group)
}

// HandleClearTickers handles DELETE /api/groups/{index}/tickers
func (h *Handler) HandleClearTickers(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}

	group, err := h.service.ClearTickers(r.Context(), index)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, group)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid group index")
		return 0, false
	}
	return index, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, groups.ErrGroupNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, groups.ErrDefaultGroup), errors.Is(err, groups.ErrLastGroup):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, groups.ErrInvalidName), errors.Is(err, groups.ErrInvalidSymbol):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Group operation failed")
		h.writeError(w, http.StatusInternalServerError, "Failed to update groups")
	}
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
