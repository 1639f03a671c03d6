// Package store holds immutable in-memory snapshots of the rate-comparison and
// demand tables, and persists the cleaned tables in SQLite between restarts.
package store

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/hoteldo/internal/domain"
)

// Snapshot is an immutable view of both record tables.
// Records are indexed by the join keys the analyzers filter on. Accessors
// return slices owned by the snapshot; callers must not modify them.
type Snapshot struct {
	id       string
	loadedAt time.Time

	rates  []domain.RateComparisonRecord
	demand []domain.DemandRecord

	ratesByName   map[string][]domain.RateComparisonRecord
	demandByHotel map[string][]domain.DemandRecord
	hotels        []domain.HotelRef
}

// NewSnapshot copies the given records into a new snapshot with a fresh id
func NewSnapshot(rates []domain.RateComparisonRecord, demand []domain.DemandRecord) *Snapshot {
	s := &Snapshot{
		id:            uuid.New().String(),
		loadedAt:      time.Now(),
		rates:         append([]domain.RateComparisonRecord(nil), rates...),
		demand:        append([]domain.DemandRecord(nil), demand...),
		ratesByName:   make(map[string][]domain.RateComparisonRecord),
		demandByHotel: make(map[string][]domain.DemandRecord),
	}

	seen := make(map[domain.HotelRef]bool)
	for _, r := range s.rates {
		s.ratesByName[r.HotelName] = append(s.ratesByName[r.HotelName], r)
		ref := domain.HotelRef{HotelID: r.HotelID, HotelName: r.HotelName}
		if !seen[ref] {
			seen[ref] = true
			s.hotels = append(s.hotels, ref)
		}
	}
	for _, d := range s.demand {
		s.demandByHotel[d.HotelID] = append(s.demandByHotel[d.HotelID], d)
	}

	sort.SliceStable(s.hotels, func(i, j int) bool {
		if s.hotels[i].HotelName != s.hotels[j].HotelName {
			return s.hotels[i].HotelName < s.hotels[j].HotelName
		}
		return s.hotels[i].HotelID < s.hotels[j].HotelID
	})

	return s
}

// Empty returns a snapshot with no records
func Empty() *Snapshot {
	return NewSnapshot(nil, nil)
}

// Version identifies the snapshot. Memoized results are keyed by it.
func (s *Snapshot) Version() string {
	return s.id
}

// LoadedAt returns when the snapshot was built
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// RatesByHotelName returns every rate record whose hotel name matches exactly
func (s *Snapshot) RatesByHotelName(name string) []domain.RateComparisonRecord {
	return s.ratesByName[name]
}

// DemandByHotelID returns every demand record whose hotel id matches exactly
func (s *Snapshot) DemandByHotelID(hotelID string) []domain.DemandRecord {
	return s.demandByHotel[hotelID]
}

// Hotels returns the distinct (id, name) pairs of the rate table, ordered by name
func (s *Snapshot) Hotels() []domain.HotelRef {
	return s.hotels
}

// HotelByName resolves the demand join key for a hotel name.
// The first id in name order wins when a name maps to several ids.
func (s *Snapshot) HotelByName(name string) (domain.HotelRef, bool) {
	for _, h := range s.hotels {
		if h.HotelName == name {
			return h, true
		}
	}
	return domain.HotelRef{}, false
}

// Counts returns the number of rate and demand records
func (s *Snapshot) Counts() (rates int, demand int) {
	return len(s.rates), len(s.demand)
}

// AllRates returns every rate record in ingestion order
func (s *Snapshot) AllRates() []domain.RateComparisonRecord {
	return s.rates
}

// AllDemand returns every demand record in ingestion order
func (s *Snapshot) AllDemand() []domain.DemandRecord {
	return s.demand
}

// Holder publishes the current snapshot to concurrent readers.
// Swapping never mutates a snapshot that readers may still hold.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a holder serving an empty snapshot
func NewHolder() *Holder {
	h := &Holder{}
	h.current.Store(Empty())
	return h
}

// Current returns the snapshot in effect
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Swap installs next and returns the previous snapshot
func (h *Holder) Swap(next *Snapshot) *Snapshot {
	if next == nil {
		next = Empty()
	}
	return h.current.Swap(next)
}
