// Package cache memoizes analyzer results per record-store snapshot.
//
// Analyzer outputs are a pure function of (snapshot, hotel, channel) or
// (snapshot, hotel id), so entries never go stale while their snapshot is
// current. Purge drops entries of replaced snapshots.
package cache

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/domain"
	"github.com/aristath/hoteldo/internal/modules/demand"
	"github.com/aristath/hoteldo/internal/modules/pricing"
	"github.com/aristath/hoteldo/internal/modules/recommendations"
)

// Versioned is implemented by record stores that can identify their contents.
// Sources without a version are never cached.
type Versioned interface {
	Version() string
}

type pricingKey struct {
	version string
	hotel   string
	channel domain.Channel
}

type demandKey struct {
	version string
	hotelID string
}

type pricingEntry struct {
	summary *pricing.CompetitivenessSummary
	err     error
}

type demandEntry struct {
	summary *demand.DemandSummary
	err     error
}

// Stats reports cache effectiveness
type Stats struct {
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
	Entries int `json:"entries"`
}

// AnalysisCache wraps the pricing and demand analyzers with memoization.
// It satisfies recommendations.PricingComputer and recommendations.DemandComputer.
type AnalysisCache struct {
	pricing recommendations.PricingComputer
	demand  recommendations.DemandComputer
	log     zerolog.Logger

	mu          sync.Mutex
	pricingMemo map[pricingKey]pricingEntry
	demandMemo  map[demandKey]demandEntry
	hits        int
	misses      int
}

// NewAnalysisCache creates a cache in front of the given analyzers
func NewAnalysisCache(pricingComputer recommendations.PricingComputer, demandComputer recommendations.DemandComputer, log zerolog.Logger) *AnalysisCache {
	return &AnalysisCache{
		pricing:     pricingComputer,
		demand:      demandComputer,
		log:         log.With().Str("component", "analysis_cache").Logger(),
		pricingMemo: make(map[pricingKey]pricingEntry),
		demandMemo:  make(map[demandKey]demandEntry),
	}
}

// ComputeCompetitiveness returns the memoized summary for (snapshot, hotel, channel).
// A known hotel without data for the channel is memoized too.
func (c *AnalysisCache) ComputeCompetitiveness(src pricing.RateSource, hotelName string, channel domain.Channel) (*pricing.CompetitivenessSummary, error) {
	v, ok := src.(Versioned)
	if !ok {
		return c.pricing.ComputeCompetitiveness(src, hotelName, channel)
	}
	key := pricingKey{version: v.Version(), hotel: hotelName, channel: channel}

	c.mu.Lock()
	entry, found := c.pricingMemo[key]
	c.record(found)
	c.mu.Unlock()
	if found {
		return copyPricing(entry.summary), entry.err
	}

	summary, err := c.pricing.ComputeCompetitiveness(src, hotelName, channel)
	if !memoizable(err) {
		return copyPricing(summary), err
	}

	c.mu.Lock()
	c.pricingMemo[key] = pricingEntry{summary: summary, err: err}
	c.mu.Unlock()

	return copyPricing(summary), err
}

// ComputeDemand returns the memoized summary for (snapshot, hotel id)
func (c *AnalysisCache) ComputeDemand(src demand.DemandSource, hotelID string) (*demand.DemandSummary, error) {
	v, ok := src.(Versioned)
	if !ok {
		return c.demand.ComputeDemand(src, hotelID)
	}
	key := demandKey{version: v.Version(), hotelID: hotelID}

	c.mu.Lock()
	entry, found := c.demandMemo[key]
	c.record(found)
	c.mu.Unlock()
	if found {
		return copyDemand(entry.summary), entry.err
	}

	summary, err := c.demand.ComputeDemand(src, hotelID)
	if !memoizable(err) {
		return copyDemand(summary), err
	}

	c.mu.Lock()
	c.demandMemo[key] = demandEntry{summary: summary, err: err}
	c.mu.Unlock()

	return copyDemand(summary), err
}

// memoizable reports whether an outcome may be stored. Unknown hotels and ids
// come from callers, so storing them would let the maps grow without bound.
// Entries stay bounded by the hotels and ids in the snapshot.
func memoizable(err error) bool {
	return err == nil || errors.Is(err, domain.ErrNoDataForChannel)
}

// Purge drops every entry that does not belong to keepVersion.
// An empty keepVersion clears the cache.
func (c *AnalysisCache) Purge(keepVersion string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.pricingMemo {
		if k.version != keepVersion {
			delete(c.pricingMemo, k)
			removed++
		}
	}
	for k := range c.demandMemo {
		if k.version != keepVersion {
			delete(c.demandMemo, k)
			removed++
		}
	}

	if removed > 0 {
		c.log.Debug().Int("removed", removed).Str("kept_version", keepVersion).Msg("Purged cache entries")
	}
	return removed
}

// Stats returns hit/miss counters and the current entry count
func (c *AnalysisCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Entries: len(c.pricingMemo) + len(c.demandMemo),
	}
}

// record must be called with mu held
func (c *AnalysisCache) record(hit bool) {
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

func copyPricing(s *pricing.CompetitivenessSummary) *pricing.CompetitivenessSummary {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

func copyDemand(s *demand.DemandSummary) *demand.DemandSummary {
	if s == nil {
		return nil
	}
	out := *s
	out.TopLostSegments = append([]demand.Segment(nil), s.TopLostSegments...)
	return &out
}
