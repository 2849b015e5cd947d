package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the dashboard routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.HandleGetDashboard)
}
