package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers recommendation and dashboard routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/recommendations", h.HandleGetRecommendations)
	r.Get("/dashboard/{hotel}", h.HandleGetDashboard)
}
