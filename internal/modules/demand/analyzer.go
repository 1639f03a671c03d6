// Package demand computes request, availability and lost-demand statistics for
// a hotel, with a per-nationality breakdown of unmet demand.
package demand

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/aristath/hoteldo/internal/domain"
)

// MaxSegments caps the number of segments reported in TopLostSegments
const MaxSegments = 10

// DemandSource provides demand records filtered by exact hotel id
type DemandSource interface {
	DemandByHotelID(hotelID string) []domain.DemandRecord
}

// Segment aggregates demand for one nationality
type Segment struct {
	Nationality       string  `json:"nationality"`
	TotalRequests     float64 `json:"total_requests"`
	TotalAvailability float64 `json:"total_availability"`
	LostRequests      float64 `json:"lost_requests"`
	Orders            float64 `json:"orders"`
	GB                float64 `json:"gb"`
}

// DemandSummary aggregates all demand records of a hotel
type DemandSummary struct {
	HotelID           string    `json:"hotel_id"`
	TotalRequests     float64   `json:"total_requests"`
	TotalAvailability float64   `json:"total_availability"`
	LostRequests      float64   `json:"lost_requests"`
	AvailabilityRate  float64   `json:"availability_rate"`
	LostRate          float64   `json:"lost_rate"`
	TotalOrders       float64   `json:"total_orders"`
	ConversionRate    float64   `json:"conversion_rate"`
	TotalGB           float64   `json:"total_gb"`
	TopLostSegments   []Segment `json:"top_lost_segments"`
}

// Analyzer computes demand summaries
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates a new demand analyzer
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{
		log: log.With().Str("component", "demand_analyzer").Logger(),
	}
}

// ComputeDemand summarizes the demand of hotelID.
// The id is matched exactly; callers pass the normalized join key.
// Returns domain.ErrNoDataForHotel when no record matches.
func (a *Analyzer) ComputeDemand(src DemandSource, hotelID string) (*DemandSummary, error) {
	records := src.DemandByHotelID(hotelID)
	if len(records) == 0 {
		return nil, fmt.Errorf("hotel id %q: %w", hotelID, domain.ErrNoDataForHotel)
	}

	requests := make([]float64, len(records))
	availability := make([]float64, len(records))
	orders := make([]float64, len(records))
	gb := make([]float64, len(records))
	for i, rec := range records {
		requests[i] = rec.TotalRequests
		availability[i] = rec.TotalAvailability
		orders[i] = rec.Orders
		gb[i] = rec.GB
	}

	totalRequests := floats.Sum(requests)
	totalAvailability := floats.Sum(availability)
	totalOrders := floats.Sum(orders)
	lost := totalRequests - totalAvailability

	summary := &DemandSummary{
		HotelID:           hotelID,
		TotalRequests:     totalRequests,
		TotalAvailability: totalAvailability,
		LostRequests:      lost,
		AvailabilityRate:  safeRate(totalAvailability, totalRequests),
		LostRate:          safeRate(lost, totalRequests),
		TotalOrders:       totalOrders,
		ConversionRate:    safeRate(totalOrders, totalRequests),
		TotalGB:           floats.Sum(gb),
		TopLostSegments:   topLostSegments(records, MaxSegments),
	}

	a.log.Debug().
		Str("hotel_id", hotelID).
		Int("records", len(records)).
		Float64("lost_rate", summary.LostRate).
		Msg("Computed demand")

	return summary, nil
}

// topLostSegments groups records by nationality and returns the n groups with
// the most lost requests. Lost requests are derived per record before grouping.
// Groups start in nationality order and are stable-sorted, so ties keep that order.
func topLostSegments(records []domain.DemandRecord, n int) []Segment {
	byNationality := make(map[string]*Segment)
	for _, rec := range records {
		seg, ok := byNationality[rec.Nationality]
		if !ok {
			seg = &Segment{Nationality: rec.Nationality}
			byNationality[rec.Nationality] = seg
		}
		seg.TotalRequests += rec.TotalRequests
		seg.TotalAvailability += rec.TotalAvailability
		seg.LostRequests += rec.LostRequests()
		seg.Orders += rec.Orders
		seg.GB += rec.GB
	}

	segments := make([]Segment, 0, len(byNationality))
	for _, seg := range byNationality {
		segments = append(segments, *seg)
	}
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Nationality < segments[j].Nationality
	})
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].LostRequests > segments[j].LostRequests
	})

	if len(segments) > n {
		segments = segments[:n]
	}
	return segments
}

// safeRate divides by total, returning 0 when total is 0
func safeRate(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total
}
