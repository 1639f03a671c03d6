// Package handlers provides HTTP handlers for pricing competitiveness.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/domain"
	"github.com/aristath/hoteldo/internal/modules/pricing"
	"github.com/aristath/hoteldo/internal/store"
)

// Computer computes competitiveness summaries
type Computer interface {
	ComputeCompetitiveness(src pricing.RateSource, hotelName string, channel domain.Channel) (*pricing.CompetitivenessSummary, error)
}

// SnapshotProvider returns the snapshot in effect
type SnapshotProvider interface {
	Current() *store.Snapshot
}

// Handler handles pricing HTTP requests
type Handler struct {
	computer  Computer
	snapshots SnapshotProvider
	log       zerolog.Logger
}

// NewHandler creates a new pricing handler
func NewHandler(computer Computer, snapshots SnapshotProvider, log zerolog.Logger) *Handler {
	return &Handler{
		computer:  computer,
		snapshots: snapshots,
		log:       log.With().Str("handler", "pricing").Logger(),
	}
}

// HandleGetCompetitiveness handles GET /api/pricing/{hotel}/{channel}
func (h *Handler) HandleGetCompetitiveness(w http.ResponseWriter, r *http.Request) {
	hotel := pathParam(r, "hotel")
	channel, err := domain.ParseChannel(chi.URLParam(r, "channel"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap := h.snapshots.Current()
	summary, err := h.computer.ComputeCompetitiveness(snap, hotel, channel)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, envelope(summary, snap))
}

// ChannelsResponse holds the summaries of every channel of a hotel.
// Channels without data are reported in Errors.
type ChannelsResponse struct {
	Hotel    string                                             `json:"hotel"`
	Channels map[domain.Channel]*pricing.CompetitivenessSummary `json:"channels"`
	Errors   map[domain.Channel]string                          `json:"errors,omitempty"`
}

// HandleGetAllChannels handles GET /api/pricing/{hotel}
func (h *Handler) HandleGetAllChannels(w http.ResponseWriter, r *http.Request) {
	hotel := pathParam(r, "hotel")
	snap := h.snapshots.Current()

	resp := ChannelsResponse{
		Hotel:    hotel,
		Channels: make(map[domain.Channel]*pricing.CompetitivenessSummary, len(domain.Channels)),
	}
	for _, ch := range domain.Channels {
		summary, err := h.computer.ComputeCompetitiveness(snap, hotel, ch)
		if errors.Is(err, domain.ErrHotelNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil && !domain.IsNoData(err) {
			h.log.Error().Err(err).Str("hotel", hotel).Str("channel", string(ch)).Msg("Failed to compute competitiveness")
			h.writeError(w, http.StatusInternalServerError, "failed to compute competitiveness")
			return
		}
		if err != nil {
			if resp.Errors == nil {
				resp.Errors = make(map[domain.Channel]string)
			}
			resp.Errors[ch] = err.Error()
			continue
		}
		resp.Channels[ch] = summary
	}

	h.writeJSON(w, http.StatusOK, envelope(resp, snap))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidChannel):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrHotelNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoDataForChannel):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// pathParam returns the decoded URL parameter; hotel names may contain escaped characters
func pathParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value
	}
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}

func envelope(data interface{}, snap *store.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp":   time.Now().Format(time.RFC3339),
			"snapshot_id": snap.Version(),
		},
	}
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
