package recommendations

import (
	"fmt"
	"math"

	"github.com/aristath/hoteldo/internal/domain"
	"github.com/aristath/hoteldo/internal/modules/demand"
	"github.com/aristath/hoteldo/internal/modules/pricing"
)

// family groups rules that depend on the same sub-computation. When that
// computation reports no data, every rule in the family is skipped.
type family string

const (
	familyPricingB2B family = "pricing_b2b"
	familyPricingB2C family = "pricing_b2c"
	familyDemand     family = "demand"
)

// inputs carries the sub-computation results into the rules.
// A nil field means the family had no data.
type inputs struct {
	b2b    *pricing.CompetitivenessSummary
	b2c    *pricing.CompetitivenessSummary
	demand *demand.DemandSummary
}

func (in inputs) has(f family) bool {
	switch f {
	case familyPricingB2B:
		return in.b2b != nil
	case familyPricingB2C:
		return in.b2c != nil
	case familyDemand:
		return in.demand != nil
	}
	return false
}

type rule struct {
	name     string
	family   family
	applies  func(in inputs, t Thresholds) bool
	generate func(in inputs, t Thresholds) Recommendation
}

// rules is evaluated top to bottom; output order is table order.
// The B2B overpriced and underpriced predicates are disjoint, so at most one fires.
// There is no B2C underpriced rule.
var rules = []rule{
	{
		name:   "b2b_overpriced",
		family: familyPricingB2B,
		applies: func(in inputs, t Thresholds) bool {
			return in.b2b.MeanVariance > t.Overpriced
		},
		generate: func(in inputs, t Thresholds) Recommendation {
			return rateReduction(in.b2b, t, "Increase conversion on B2B searches")
		},
	},
	{
		name:   "b2b_underpriced",
		family: familyPricingB2B,
		applies: func(in inputs, t Thresholds) bool {
			return in.b2b.MeanVariance < t.Underpriced
		},
		generate: func(in inputs, t Thresholds) Recommendation {
			gap := math.Abs(in.b2b.MeanVariance)
			headroom := gap / 2
			return Recommendation{
				Category:       CategoryRevenueOpportunity,
				Priority:       PriorityMedium,
				Channel:        string(domain.ChannelB2B),
				Insight:        fmt.Sprintf("Your rate is %.1f%% below the market", gap*100),
				Action:         fmt.Sprintf("You can raise rates by up to %.1f%% without losing competitiveness", headroom*100),
				ExpectedImpact: "Revenue increase without losing market position",
				Figures: map[string]float64{
					"mean_variance":     in.b2b.MeanVariance,
					"rate_increase_max": headroom,
				},
			}
		},
	},
	{
		name:   "b2c_overpriced",
		family: familyPricingB2C,
		applies: func(in inputs, t Thresholds) bool {
			return in.b2c.MeanVariance > t.Overpriced
		},
		generate: func(in inputs, t Thresholds) Recommendation {
			return rateReduction(in.b2c, t, "Greater visibility and conversion on B2C")
		},
	},
	{
		name:   "critical_availability_gap",
		family: familyDemand,
		applies: func(in inputs, t Thresholds) bool {
			return in.demand.LostRate > t.CriticalLostRate
		},
		generate: func(in inputs, t Thresholds) Recommendation {
			d := in.demand
			recoverable := d.LostRequests * t.RecoveryConversion
			return Recommendation{
				Category: CategoryAvailabilityGap,
				Priority: PriorityCritical,
				Channel:  ChannelAll,
				Insight: fmt.Sprintf("Losing %.1f%% of searches to missing availability (%.0f requests)",
					d.LostRate*100, d.LostRequests),
				Action:         "Increase available inventory in the system",
				ExpectedImpact: fmt.Sprintf("Potential recovery of up to %.0f orders", recoverable),
				Figures: map[string]float64{
					"lost_rate":          d.LostRate,
					"lost_requests":      d.LostRequests,
					"recoverable_orders": recoverable,
				},
			}
		},
	},
	{
		name:   "top_lost_segment",
		family: familyDemand,
		applies: func(in inputs, t Thresholds) bool {
			segments := in.demand.TopLostSegments
			return len(segments) > 0 && segments[0].LostRequests > t.SegmentLostRequest
		},
		generate: func(in inputs, t Thresholds) Recommendation {
			top := in.demand.TopLostSegments[0]
			return Recommendation{
				Category:       CategoryAvailabilitySegment,
				Priority:       PriorityHigh,
				Channel:        top.Nationality,
				Insight:        fmt.Sprintf("Lost %.0f requests from the %s market", top.LostRequests, top.Nationality),
				Action:         fmt.Sprintf("Prioritize availability for the %s market", top.Nationality),
				ExpectedImpact: "Market with high unmet demand",
				Figures: map[string]float64{
					"lost_requests":  top.LostRequests,
					"total_requests": top.TotalRequests,
				},
			}
		},
	},
}

func rateReduction(s *pricing.CompetitivenessSummary, t Thresholds, impact string) Recommendation {
	cut := math.Min(s.MeanVariance, t.MaxRateCut)
	return Recommendation{
		Category:       CategoryRateReduction,
		Priority:       PriorityHigh,
		Channel:        string(s.Channel),
		Insight:        fmt.Sprintf("Your average rate is %.1f%% above the market", s.MeanVariance*100),
		Action:         fmt.Sprintf("Consider reducing rates by %.1f%%", cut*100),
		ExpectedImpact: impact,
		Figures: map[string]float64{
			"mean_variance":  s.MeanVariance,
			"rate_reduction": cut,
		},
	}
}
