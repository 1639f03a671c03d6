// Package handlers provides HTTP handlers for recommendations and the hotel dashboard.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/domain"
	"github.com/aristath/hoteldo/internal/ingest"
	"github.com/aristath/hoteldo/internal/modules/demand"
	"github.com/aristath/hoteldo/internal/modules/pricing"
	"github.com/aristath/hoteldo/internal/modules/recommendations"
	"github.com/aristath/hoteldo/internal/store"
)

// DefaultDashboardRecommendations is how many recommendations the dashboard shows
const DefaultDashboardRecommendations = 3

// Generator produces recommendations for a hotel
type Generator interface {
	Generate(src recommendations.Source, hotelName, hotelID string) []recommendations.Recommendation
}

// SnapshotProvider returns the snapshot in effect
type SnapshotProvider interface {
	Current() *store.Snapshot
}

// Handler handles recommendation and dashboard HTTP requests
type Handler struct {
	generator Generator
	pricing   recommendations.PricingComputer
	demand    recommendations.DemandComputer
	snapshots SnapshotProvider
	log       zerolog.Logger
}

// NewHandler creates a new recommendations handler
func NewHandler(
	generator Generator,
	pricingComputer recommendations.PricingComputer,
	demandComputer recommendations.DemandComputer,
	snapshots SnapshotProvider,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		generator: generator,
		pricing:   pricingComputer,
		demand:    demandComputer,
		snapshots: snapshots,
		log:       log.With().Str("handler", "recommendations").Logger(),
	}
}

// RecommendationsResponse is the payload of GET /api/recommendations
type RecommendationsResponse struct {
	HotelName       string                           `json:"hotel_name"`
	HotelID         string                           `json:"hotel_id"`
	Total           int                              `json:"total"`
	Recommendations []recommendations.Recommendation `json:"recommendations"`
}

// HandleGetRecommendations handles GET /api/recommendations?hotel_name=..&hotel_id=..&limit=N
// A missing hotel_id is resolved from the rate table by name.
func (h *Handler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hotelName := q.Get("hotel_name")
	hotelID := ingest.NormalizeHotelID(q.Get("hotel_id"))
	if hotelName == "" && hotelID == "" {
		h.writeError(w, http.StatusBadRequest, "hotel_name or hotel_id is required")
		return
	}

	limit, ok := parseLimit(q.Get("limit"), 0)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	snap := h.snapshots.Current()
	if hotelID == "" {
		if ref, found := snap.HotelByName(hotelName); found {
			hotelID = ref.HotelID
		}
	}

	recs := h.generator.Generate(snap, hotelName, hotelID)
	resp := RecommendationsResponse{
		HotelName:       hotelName,
		HotelID:         hotelID,
		Total:           len(recs),
		Recommendations: leading(recs, limit),
	}

	h.writeJSON(w, http.StatusOK, envelope(resp, snap))
}

// DashboardResponse bundles the views of a single hotel.
// Sections without data are nil and explained in Notices.
type DashboardResponse struct {
	Hotel                domain.HotelRef                  `json:"hotel"`
	Demand               *demand.DemandSummary            `json:"demand"`
	Pricing              *pricing.CompetitivenessSummary  `json:"pricing"`
	Recommendations      []recommendations.Recommendation `json:"recommendations"`
	TotalRecommendations int                              `json:"total_recommendations"`
	Notices              map[string]string                `json:"notices,omitempty"`
}

// HandleGetDashboard handles GET /api/dashboard/{hotel}
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	hotelName := pathParam(r, "hotel")

	limit, ok := parseLimit(r.URL.Query().Get("limit"), DefaultDashboardRecommendations)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	snap := h.snapshots.Current()
	ref, found := snap.HotelByName(hotelName)
	if !found {
		h.writeError(w, http.StatusNotFound, "hotel not found: "+hotelName)
		return
	}

	resp := DashboardResponse{Hotel: ref}
	notice := func(section string, err error) {
		if resp.Notices == nil {
			resp.Notices = make(map[string]string)
		}
		resp.Notices[section] = err.Error()
	}

	if d, err := h.demand.ComputeDemand(snap, ref.HotelID); err == nil {
		resp.Demand = d
	} else {
		notice("demand", err)
	}
	if p, err := h.pricing.ComputeCompetitiveness(snap, ref.HotelName, domain.ChannelB2B); err == nil {
		resp.Pricing = p
	} else {
		notice("pricing", err)
	}

	recs := h.generator.Generate(snap, ref.HotelName, ref.HotelID)
	resp.TotalRecommendations = len(recs)
	resp.Recommendations = leading(recs, limit)

	h.writeJSON(w, http.StatusOK, envelope(resp, snap))
}

// parseLimit returns fallback for an empty value; 0 means no limit
func parseLimit(raw string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func leading(recs []recommendations.Recommendation, limit int) []recommendations.Recommendation {
	if limit > 0 && len(recs) > limit {
		return recs[:limit]
	}
	return recs
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
