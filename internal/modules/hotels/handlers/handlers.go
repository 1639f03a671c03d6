// Package handlers provides the hotel catalog endpoint used by hotel pickers.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/domain"
	"github.com/aristath/hoteldo/internal/store"
)

// SnapshotProvider returns the snapshot in effect
type SnapshotProvider interface {
	Current() *store.Snapshot
}

// Handler handles hotel catalog requests
type Handler struct {
	snapshots SnapshotProvider
	log       zerolog.Logger
}

// NewHandler creates a new hotels handler
func NewHandler(snapshots SnapshotProvider, log zerolog.Logger) *Handler {
	return &Handler{
		snapshots: snapshots,
		log:       log.With().Str("handler", "hotels").Logger(),
	}
}

// HandleListHotels handles GET /api/hotels
// Optional ?q= filters by a case-insensitive name substring.
func (h *Handler) HandleListHotels(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshots.Current()
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	hotels := make([]domain.HotelRef, 0)
	for _, ref := range snap.Hotels() {
		if query == "" || strings.Contains(strings.ToLower(ref.HotelName), query) {
			hotels = append(hotels, ref)
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"hotels": hotels,
			"count":  len(hotels),
		},
		"metadata": map[string]interface{}{
			"timestamp":   time.Now().Format(time.RFC3339),
			"snapshot_id": snap.Version(),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
