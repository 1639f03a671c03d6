package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	ch, err := ParseChannel("b2b")
	require.NoError(t, err)
	assert.Equal(t, ChannelB2B, ch)

	ch, err = ParseChannel(" B2C ")
	require.NoError(t, err)
	assert.Equal(t, ChannelB2C, ch)

	_, err = ParseChannel("B2E")
	assert.ErrorIs(t, err, ErrInvalidChannel)
}

func TestRateComparisonRecord_ChannelFields(t *testing.T) {
	rec := RateComparisonRecord{
		HotelName:          "H1",
		ChannelVarianceB2B: Float(0.1),
		ReferenceRateB2B:   100,
		ReferenceRateB2C:   120,
	}

	v, ok := rec.Variance(ChannelB2B)
	assert.True(t, ok)
	assert.Equal(t, 0.1, v)

	_, ok = rec.Variance(ChannelB2C)
	assert.False(t, ok, "missing B2C variance should not be present")

	assert.Equal(t, 100.0, rec.ReferenceRate(ChannelB2B))
	assert.Equal(t, 120.0, rec.ReferenceRate(ChannelB2C))
}

func TestDemandRecord_LostRequests(t *testing.T) {
	assert.Equal(t, 400.0, DemandRecord{TotalRequests: 1000, TotalAvailability: 600}.LostRequests())
	assert.Equal(t, -50.0, DemandRecord{TotalRequests: 100, TotalAvailability: 150}.LostRequests(),
		"availability above requests yields negative lost requests")
}

func TestIsNoData(t *testing.T) {
	assert.True(t, IsNoData(fmt.Errorf("hotel %q: %w", "H1", ErrHotelNotFound)))
	assert.True(t, IsNoData(ErrNoDataForChannel))
	assert.True(t, IsNoData(ErrNoDataForHotel))
	assert.False(t, IsNoData(ErrInvalidChannel))
	assert.False(t, IsNoData(errors.New("disk full")))
}
