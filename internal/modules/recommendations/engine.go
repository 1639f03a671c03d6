package recommendations

import (
	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/domain"
	"github.com/aristath/hoteldo/internal/modules/demand"
	"github.com/aristath/hoteldo/internal/modules/pricing"
)

// PricingComputer computes competitiveness summaries
type PricingComputer interface {
	ComputeCompetitiveness(src pricing.RateSource, hotelName string, channel domain.Channel) (*pricing.CompetitivenessSummary, error)
}

// DemandComputer computes demand summaries
type DemandComputer interface {
	ComputeDemand(src demand.DemandSource, hotelID string) (*demand.DemandSummary, error)
}

// Source is the record store the engine reads: both tables of one snapshot
type Source interface {
	pricing.RateSource
	demand.DemandSource
}

// Engine evaluates the rule table against a hotel's summaries
type Engine struct {
	pricing    PricingComputer
	demand     DemandComputer
	thresholds Thresholds
	log        zerolog.Logger
}

// NewEngine creates a new recommendation engine
func NewEngine(pricingComputer PricingComputer, demandComputer DemandComputer, thresholds Thresholds, log zerolog.Logger) *Engine {
	return &Engine{
		pricing:    pricingComputer,
		demand:     demandComputer,
		thresholds: thresholds,
		log:        log.With().Str("component", "recommendation_engine").Logger(),
	}
}

// Thresholds returns the cut-offs the engine evaluates with
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Generate returns the recommendations for a hotel in rule order.
// A sub-computation that fails skips its rule family; Generate itself never
// fails, so partial data yields partial recommendations.
func (e *Engine) Generate(src Source, hotelName, hotelID string) []Recommendation {
	var in inputs

	if s, err := e.pricing.ComputeCompetitiveness(src, hotelName, domain.ChannelB2B); err == nil {
		in.b2b = s
	} else {
		e.skip(familyPricingB2B, err)
	}
	if s, err := e.pricing.ComputeCompetitiveness(src, hotelName, domain.ChannelB2C); err == nil {
		in.b2c = s
	} else {
		e.skip(familyPricingB2C, err)
	}
	if d, err := e.demand.ComputeDemand(src, hotelID); err == nil {
		in.demand = d
	} else {
		e.skip(familyDemand, err)
	}

	recs := make([]Recommendation, 0, len(rules))
	for _, r := range rules {
		if !in.has(r.family) || !r.applies(in, e.thresholds) {
			continue
		}
		recs = append(recs, r.generate(in, e.thresholds))
	}

	e.log.Debug().
		Str("hotel", hotelName).
		Str("hotel_id", hotelID).
		Int("count", len(recs)).
		Msg("Generated recommendations")

	return recs
}

func (e *Engine) skip(f family, err error) {
	ev := e.log.Debug()
	if !domain.IsNoData(err) {
		ev = e.log.Warn()
	}
	ev.Err(err).Str("family", string(f)).Msg("Skipping rule family")
}
