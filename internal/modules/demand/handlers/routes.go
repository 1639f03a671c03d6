package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all demand routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/demand", func(r chi.Router) {
		r.Get("/{hotelID}", h.HandleGetDemand)
	})
}
