package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all ticker group routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Route("/{index}", func(r chi.Router) {
			r.Delete("/", h.HandleDelete)
			r.Post("/tickers", h.HandleAddTicker)
			r.Delete("/tickers", h.HandleClearTickers)
			r.Delete("/tickers/{symbol}", h.HandleRemoveTicker)
		})
	})
}
