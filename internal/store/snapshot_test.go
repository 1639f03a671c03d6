package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hoteldo/internal/domain"
)

func sampleRates() []domain.RateComparisonRecord {
	return []domain.RateComparisonRecord{
		{HotelID: "7", HotelName: "Playa Azul", ChannelVarianceB2B: domain.Float(0.1), ReferenceRateB2B: 100},
		{HotelID: "5", HotelName: "Hotel Centro", ChannelVarianceB2B: domain.Float(-0.2), ReferenceRateB2B: 80},
		{HotelID: "7", HotelName: "Playa Azul", ChannelVarianceB2C: domain.Float(0.03), ReferenceRateB2C: 120},
	}
}

func sampleDemand() []domain.DemandRecord {
	return []domain.DemandRecord{
		{HotelID: "5", Nationality: "US", TotalRequests: 1000, TotalAvailability: 600},
		{HotelID: "7", Nationality: "MX", TotalRequests: 10, TotalAvailability: 10},
		{HotelID: "5", Nationality: "UK", TotalRequests: 500, TotalAvailability: 500},
	}
}

func TestNewSnapshot_IndexesByJoinKeys(t *testing.T) {
	snap := NewSnapshot(sampleRates(), sampleDemand())

	assert.Len(t, snap.RatesByHotelName("Playa Azul"), 2)
	assert.Len(t, snap.RatesByHotelName("Hotel Centro"), 1)
	assert.Empty(t, snap.RatesByHotelName("playa azul"), "name match is exact")

	assert.Len(t, snap.DemandByHotelID("5"), 2)
	assert.Empty(t, snap.DemandByHotelID("5.0"), "hotel id match is exact")

	rates, demand := snap.Counts()
	assert.Equal(t, 3, rates)
	assert.Equal(t, 3, demand)
	assert.NotEmpty(t, snap.Version())
}

func TestNewSnapshot_CopiesInput(t *testing.T) {
	rates := sampleRates()
	snap := NewSnapshot(rates, nil)

	rates[0].HotelName = "mutated"

	assert.Equal(t, "Playa Azul", snap.AllRates()[0].HotelName)
}

func TestSnapshot_Hotels(t *testing.T) {
	snap := NewSnapshot(sampleRates(), sampleDemand())

	assert.Equal(t, []domain.HotelRef{
		{HotelID: "5", HotelName: "Hotel Centro"},
		{HotelID: "7", HotelName: "Playa Azul"},
	}, snap.Hotels())

	ref, ok := snap.HotelByName("Playa Azul")
	require.True(t, ok)
	assert.Equal(t, "7", ref.HotelID)

	_, ok = snap.HotelByName("Missing")
	assert.False(t, ok)
}

func TestSnapshot_VersionsAreUnique(t *testing.T) {
	a := NewSnapshot(sampleRates(), sampleDemand())
	b := NewSnapshot(sampleRates(), sampleDemand())

	assert.NotEqual(t, a.Version(), b.Version())
}

func TestHolder_Swap(t *testing.T) {
	h := NewHolder()
	initial := h.Current()
	require.NotNil(t, initial)
	rates, _ := initial.Counts()
	assert.Zero(t, rates)

	next := NewSnapshot(sampleRates(), sampleDemand())
	prev := h.Swap(next)

	assert.Same(t, initial, prev)
	assert.Same(t, next, h.Current())

	h.Swap(nil)
	assert.NotNil(t, h.Current(), "nil swap installs an empty snapshot")
}

func TestHolder_ConcurrentReaders(t *testing.T) {
	h := NewHolder()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := h.Current()
				_ = snap.RatesByHotelName("Playa Azul")
			}
		}()
	}
	for i := 0; i < 10; i++ {
		h.Swap(NewSnapshot(sampleRates(), sampleDemand()))
	}

	wg.Wait()
}
