package demand

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hoteldo/internal/domain"
)

// sliceSource is a DemandSource over a plain slice
type sliceSource []domain.DemandRecord

func (s sliceSource) DemandByHotelID(hotelID string) []domain.DemandRecord {
	var out []domain.DemandRecord
	for _, r := range s {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	return out
}

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(zerolog.New(nil).Level(zerolog.Disabled))
}

func TestComputeDemand_TotalsRatesAndSegments(t *testing.T) {
	src := sliceSource{
		{HotelID: "5", Nationality: "US", TotalRequests: 1000, TotalAvailability: 600, Orders: 50, GB: 1},
		{HotelID: "5", Nationality: "UK", TotalRequests: 500, TotalAvailability: 500, Orders: 20, GB: 0.5},
	}

	summary, err := newTestAnalyzer().ComputeDemand(src, "5")
	require.NoError(t, err)

	assert.Equal(t, "5", summary.HotelID)
	assert.Equal(t, 1500.0, summary.TotalRequests)
	assert.Equal(t, 1100.0, summary.TotalAvailability)
	assert.Equal(t, 400.0, summary.LostRequests)
	assert.InDelta(t, 0.2667, summary.LostRate, 1e-4)
	assert.InDelta(t, 1100.0/1500.0, summary.AvailabilityRate, 1e-12)
	assert.Equal(t, 70.0, summary.TotalOrders)
	assert.InDelta(t, 70.0/1500.0, summary.ConversionRate, 1e-12)
	assert.InDelta(t, 1.5, summary.TotalGB, 1e-12)

	require.Len(t, summary.TopLostSegments, 2)
	assert.Equal(t, "US", summary.TopLostSegments[0].Nationality)
	assert.Equal(t, 400.0, summary.TopLostSegments[0].LostRequests)
	assert.Equal(t, "UK", summary.TopLostSegments[1].Nationality)
	assert.Equal(t, 0.0, summary.TopLostSegments[1].LostRequests)
}

func TestComputeDemand_NoDataForHotel(t *testing.T) {
	src := sliceSource{{HotelID: "5", Nationality: "US", TotalRequests: 10}}

	_, err := newTestAnalyzer().ComputeDemand(src, "6")
	assert.ErrorIs(t, err, domain.ErrNoDataForHotel)

	// Unnormalized keys are not coerced
	_, err = newTestAnalyzer().ComputeDemand(src, "5.0")
	assert.ErrorIs(t, err, domain.ErrNoDataForHotel)
}

func TestComputeDemand_ZeroRequestsYieldZeroRates(t *testing.T) {
	src := sliceSource{
		{HotelID: "5", Nationality: "US"},
		{HotelID: "5", Nationality: "UK", Orders: 3},
	}

	summary, err := newTestAnalyzer().ComputeDemand(src, "5")
	require.NoError(t, err)

	assert.Equal(t, 0.0, summary.AvailabilityRate)
	assert.Equal(t, 0.0, summary.LostRate)
	assert.Equal(t, 0.0, summary.ConversionRate)
	assert.False(t, math.IsNaN(summary.ConversionRate))
	assert.False(t, math.IsInf(summary.ConversionRate, 0))
}

func TestComputeDemand_NegativeLostRequests(t *testing.T) {
	src := sliceSource{{HotelID: "5", Nationality: "US", TotalRequests: 100, TotalAvailability: 150}}

	summary, err := newTestAnalyzer().ComputeDemand(src, "5")
	require.NoError(t, err)

	assert.Equal(t, -50.0, summary.LostRequests)
	assert.Equal(t, -0.5, summary.LostRate)
}

func TestComputeDemand_GroupsByNationality(t *testing.T) {
	src := sliceSource{
		{HotelID: "5", Nationality: "US", TotalRequests: 100, TotalAvailability: 40, Orders: 1, GB: 2},
		{HotelID: "5", Nationality: "MX", TotalRequests: 50, TotalAvailability: 50},
		{HotelID: "5", Nationality: "US", TotalRequests: 300, TotalAvailability: 100, Orders: 4, GB: 3},
		{HotelID: "6", Nationality: "US", TotalRequests: 9999},
	}

	summary, err := newTestAnalyzer().ComputeDemand(src, "5")
	require.NoError(t, err)

	require.Len(t, summary.TopLostSegments, 2)
	assert.Equal(t, Segment{
		Nationality:       "US",
		TotalRequests:     400,
		TotalAvailability: 140,
		LostRequests:      260,
		Orders:            5,
		GB:                5,
	}, summary.TopLostSegments[0])
}

func TestComputeDemand_TopSegmentsCappedAndSorted(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var src sliceSource
	for i := 0; i < 300; i++ {
		requests := float64(rng.Intn(5000))
		src = append(src, domain.DemandRecord{
			HotelID:           "5",
			Nationality:       fmt.Sprintf("N%02d", rng.Intn(25)),
			TotalRequests:     requests,
			TotalAvailability: float64(rng.Intn(5000)),
		})
	}

	summary, err := newTestAnalyzer().ComputeDemand(src, "5")
	require.NoError(t, err)

	segments := summary.TopLostSegments
	assert.Len(t, segments, MaxSegments)
	for i := 1; i < len(segments); i++ {
		assert.GreaterOrEqual(t, segments[i-1].LostRequests, segments[i].LostRequests)
	}
}

func TestComputeDemand_FewerNationalitiesThanCap(t *testing.T) {
	src := sliceSource{
		{HotelID: "5", Nationality: "US", TotalRequests: 10},
		{HotelID: "5", Nationality: "UK", TotalRequests: 20},
		{HotelID: "5", Nationality: "DE", TotalRequests: 30},
	}

	summary, err := newTestAnalyzer().ComputeDemand(src, "5")
	require.NoError(t, err)
	assert.Len(t, summary.TopLostSegments, 3)
}

func TestComputeDemand_TiesAreStable(t *testing.T) {
	src := sliceSource{
		{HotelID: "5", Nationality: "US", TotalRequests: 100},
		{HotelID: "5", Nationality: "AR", TotalRequests: 100},
		{HotelID: "5", Nationality: "MX", TotalRequests: 100},
		{HotelID: "5", Nationality: "BR", TotalRequests: 300},
	}
	reordered := sliceSource{src[2], src[3], src[0], src[1]}

	first, err := newTestAnalyzer().ComputeDemand(src, "5")
	require.NoError(t, err)
	second, err := newTestAnalyzer().ComputeDemand(reordered, "5")
	require.NoError(t, err)

	names := func(segments []Segment) []string {
		out := make([]string, len(segments))
		for i, s := range segments {
			out[i] = s.Nationality
		}
		return out
	}
	assert.Equal(t, []string{"BR", "AR", "MX", "US"}, names(first.TopLostSegments))
	assert.Equal(t, names(first.TopLostSegments), names(second.TopLostSegments))
}

// Summary-level lost requests (difference of sums) and the per-record
// derivation used for segments must agree on large inputs.
func TestComputeDemand_LostRequestsNumericStability(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	var src sliceSource
	for i := 0; i < 100000; i++ {
		requests := rng.Float64() * 1e6
		src = append(src, domain.DemandRecord{
			HotelID:           "5",
			Nationality:       "ALL",
			TotalRequests:     requests,
			TotalAvailability: requests * rng.Float64(),
		})
	}

	summary, err := newTestAnalyzer().ComputeDemand(src, "5")
	require.NoError(t, err)
	require.Len(t, summary.TopLostSegments, 1)

	perRecord := summary.TopLostSegments[0].LostRequests
	assert.InEpsilon(t, summary.LostRequests, perRecord, 1e-9)
}
