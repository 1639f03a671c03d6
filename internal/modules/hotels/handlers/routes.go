package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers hotel catalog routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/hotels", h.HandleListHotels)
}
