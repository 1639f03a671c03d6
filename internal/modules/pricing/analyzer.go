// Package pricing computes rate competitiveness of a hotel against the market
// reference rate, per distribution channel.
package pricing

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/hoteldo/internal/domain"
)

// RateSource provides rate-comparison records filtered by exact hotel name
type RateSource interface {
	RatesByHotelName(name string) []domain.RateComparisonRecord
}

// CompetitivenessSummary describes how a hotel's rates compare with the
// market on one channel. Derived on every call, never persisted.
type CompetitivenessSummary struct {
	Hotel              string         `json:"hotel"`
	Channel            domain.Channel `json:"channel"`
	MeanVariance       float64        `json:"mean_variance"`
	MeanReferencePrice float64        `json:"mean_reference_price"`
	SampleCount        int            `json:"sample_count"`
	OverpricedCount    int            `json:"overpriced_count"`
	CompetitiveCount   int            `json:"competitive_count"`
	CompetitiveRatio   float64        `json:"competitive_ratio"`
}

// Analyzer computes competitiveness summaries
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates a new pricing analyzer
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{
		log: log.With().Str("component", "pricing_analyzer").Logger(),
	}
}

// ComputeCompetitiveness summarizes the hotel's variance versus market on the channel.
//
// Returns domain.ErrHotelNotFound when no record carries the hotel name, and
// domain.ErrNoDataForChannel when records exist but none has a variance for the channel.
// A variance of exactly 0 counts as competitive.
func (a *Analyzer) ComputeCompetitiveness(src RateSource, hotelName string, channel domain.Channel) (*CompetitivenessSummary, error) {
	if channel != domain.ChannelB2B && channel != domain.ChannelB2C {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidChannel, channel)
	}

	records := src.RatesByHotelName(hotelName)
	if len(records) == 0 {
		return nil, fmt.Errorf("hotel %q: %w", hotelName, domain.ErrHotelNotFound)
	}

	variances := make([]float64, 0, len(records))
	references := make([]float64, 0, len(records))
	overpriced := 0
	for _, rec := range records {
		v, ok := rec.Variance(channel)
		if !ok {
			continue
		}
		variances = append(variances, v)
		references = append(references, rec.ReferenceRate(channel))
		if v > 0 {
			overpriced++
		}
	}

	if len(variances) == 0 {
		return nil, fmt.Errorf("hotel %q channel %s: %w", hotelName, channel, domain.ErrNoDataForChannel)
	}

	samples := len(variances)
	competitive := samples - overpriced

	summary := &CompetitivenessSummary{
		Hotel:              hotelName,
		Channel:            channel,
		MeanVariance:       stat.Mean(variances, nil),
		MeanReferencePrice: stat.Mean(references, nil),
		SampleCount:        samples,
		OverpricedCount:    overpriced,
		CompetitiveCount:   competitive,
		CompetitiveRatio:   float64(competitive) / float64(samples),
	}

	a.log.Debug().
		Str("hotel", hotelName).
		Str("channel", string(channel)).
		Int("samples", samples).
		Float64("mean_variance", summary.MeanVariance).
		Msg("Computed competitiveness")

	return summary, nil
}
