// Package handlers provides HTTP handlers for settings management.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/graham/internal/modules/settings"
)

// CredentialRefresher receives the new API key after it is changed
type CredentialRefresher interface {
	SetAPIKey(apiKey string)
}

// Handler provides HTTP handlers for settings endpoints
type Handler struct {
	service             *settings.Service
	credentialRefresher CredentialRefresher
	log                 zerolog.Logger
}

// NewHandler creates a new settings handler
func NewHandler(service *settings.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "settings").Logger(),
	}
}

// SetCredentialRefresher sets the credential refresher (for dependency injection)
func (h *Handler) SetCredentialRefresher(refresher CredentialRefresher) {
	h.credentialRefresher = refresher
}

// RegisterRoutes registers the settings routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.HandleGetAll)
		r.Put("/{key}", h.HandleUpdate)
	})
}

// HandleGetAll handles GET /api/settings
func (h *Handler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get all settings")
		h.writeError(w, http.StatusInternalServerError, "Failed to get settings")
		return
	}

	h.writeJSON(w, http.StatusOK, all)
}

// HandleUpdate handles PUT /api/settings/{key}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var update settings.SettingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if update.Value == nil {
		h.writeError(w, http.StatusBadRequest, "Value is required")
		return
	}

	if err := h.service.Set(key, update.Value); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, settings.ErrUnknownSetting) {
			status = http.StatusNotFound
		}
		h.log.Warn().Err(err).Str("key", key).Msg("Failed to update setting")
		h.writeError(w, status, err.Error())
		return
	}

	if key == settings.KeyFMPAPIKey && h.credentialRefresher != nil {
		apiKey, err := h.service.GetString(settings.KeyFMPAPIKey)
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to read API key after update")
		} else {
			h.credentialRefresher.SetAPIKey(apiKey)
			h.log.Info().Msg("FMP client credentials refreshed after settings update")
		}
	}

	value := update.Value
	if settings.SecretSettings[key] {
		value = "********"
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{key: value})
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
