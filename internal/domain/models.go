// Package domain provides the core record types shared by the analyzers.
package domain

import (
	"fmt"
	"strings"
)

// Channel represents a distribution channel with its own pricing fields
type Channel string

const (
	// ChannelB2B is the business (wholesale/agency) channel
	ChannelB2B Channel = "B2B"
	// ChannelB2C is the consumer channel
	ChannelB2C Channel = "B2C"
)

// Channels lists the supported channels in evaluation order
var Channels = []Channel{ChannelB2B, ChannelB2C}

// ParseChannel converts a user-supplied channel name (case-insensitive) into a Channel
func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToUpper(strings.TrimSpace(s))) {
	case ChannelB2B:
		return ChannelB2B, nil
	case ChannelB2C:
		return ChannelB2C, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChannel, s)
}

// RateComparisonRecord is one rate-shopping observation for a hotel.
// Variance fields are signed fractions versus the market reference rate
// (positive = more expensive than market); nil means the observation has no value.
type RateComparisonRecord struct {
	HotelID            string   `json:"hotel_id"`
	HotelName          string   `json:"hotel_name"`
	ChannelVarianceB2B *float64 `json:"channel_variance_b2b"`
	ChannelVarianceB2C *float64 `json:"channel_variance_b2c"`
	ReferenceRateB2B   float64  `json:"reference_rate_b2b"`
	ReferenceRateB2C   float64  `json:"reference_rate_b2c"`
}

// Variance returns the channel's variance and whether it is present
func (r RateComparisonRecord) Variance(ch Channel) (float64, bool) {
	var v *float64
	switch ch {
	case ChannelB2B:
		v = r.ChannelVarianceB2B
	case ChannelB2C:
		v = r.ChannelVarianceB2C
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// ReferenceRate returns the channel's market reference rate
func (r RateComparisonRecord) ReferenceRate(ch Channel) float64 {
	if ch == ChannelB2C {
		return r.ReferenceRateB2C
	}
	return r.ReferenceRateB2B
}

// DemandRecord is one (nationality, period) bucket of search demand for a hotel
type DemandRecord struct {
	HotelID           string  `json:"hotel_id"`
	Nationality       string  `json:"nationality"`
	TotalRequests     float64 `json:"total_requests"`
	TotalAvailability float64 `json:"total_availability"`
	Orders            float64 `json:"orders"`
	GB                float64 `json:"gb"`
}

// LostRequests is the unmet demand of the bucket. It is negative when
// availability exceeds requests.
func (r DemandRecord) LostRequests() float64 {
	return r.TotalRequests - r.TotalAvailability
}

// HotelRef identifies a hotel across both datasets
type HotelRef struct {
	HotelID   string `json:"hotel_id"`
	HotelName string `json:"hotel_name"`
}

// Float returns a pointer to v, used for optional variance values
func Float(v float64) *float64 {
	return &v
}
