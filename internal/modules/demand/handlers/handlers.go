// Package handlers provides HTTP handlers for demand analysis.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/domain"
	"github.com/aristath/hoteldo/internal/ingest"
	"github.com/aristath/hoteldo/internal/modules/demand"
	"github.com/aristath/hoteldo/internal/store"
)

// Computer computes demand summaries
type Computer interface {
	ComputeDemand(src demand.DemandSource, hotelID string) (*demand.DemandSummary, error)
}

// SnapshotProvider returns the snapshot in effect
type SnapshotProvider interface {
	Current() *store.Snapshot
}

// Handler handles demand HTTP requests
type Handler struct {
	computer  Computer
	snapshots SnapshotProvider
	log       zerolog.Logger
}

// NewHandler creates a new demand handler
func NewHandler(computer Computer, snapshots SnapshotProvider, log zerolog.Logger) *Handler {
	return &Handler{
		computer:  computer,
		snapshots: snapshots,
		log:       log.With().Str("handler", "demand").Logger(),
	}
}

// HandleGetDemand handles GET /api/demand/{hotelID}
// Optional ?limit=N keeps only the leading N lost-demand segments.
func (h *Handler) HandleGetDemand(w http.ResponseWriter, r *http.Request) {
	hotelID := ingest.NormalizeHotelID(chi.URLParam(r, "hotelID"))

	limit := demand.MaxSegments
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	snap := h.snapshots.Current()
	summary, err := h.computer.ComputeDemand(snap, hotelID)
	if errors.Is(err, domain.ErrNoDataForHotel) {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("hotel_id", hotelID).Msg("Failed to compute demand")
		h.writeError(w, http.StatusInternalServerError, "failed to compute demand")
		return
	}

	if len(summary.TopLostSegments) > limit {
		summary.TopLostSegments = summary.TopLostSegments[:limit]
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": summary,
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

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
