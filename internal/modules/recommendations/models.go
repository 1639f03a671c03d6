// Package recommendations turns pricing and demand summaries into an ordered
// list of prioritized, human-readable recommendations.
package recommendations

// Priority ranks how urgently a recommendation should be acted on
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Category identifies the rule that produced a recommendation
type Category string

const (
	CategoryRateReduction       Category = "pricing_rate_reduction"
	CategoryRevenueOpportunity  Category = "pricing_revenue_opportunity"
	CategoryAvailabilityGap     Category = "availability_critical"
	CategoryAvailabilitySegment Category = "availability_segment"
)

// ChannelAll marks recommendations that apply to every channel
const ChannelAll = "ALL"

// Recommendation is a single actionable insight.
// Figures holds the raw values behind the text, keyed by name, so that a
// presentation layer can apply its own number formatting.
type Recommendation struct {
	Category       Category           `json:"category"`
	Priority       Priority           `json:"priority"`
	Channel        string             `json:"channel"`
	Insight        string             `json:"insight"`
	Action         string             `json:"action"`
	ExpectedImpact string             `json:"expected_impact"`
	Figures        map[string]float64 `json:"figures"`
}

// Thresholds are the fixed cut-offs of the rule table
type Thresholds struct {
	Overpriced         float64 // mean variance above this is overpriced
	Underpriced        float64 // mean variance below this leaves revenue on the table (B2B only)
	MaxRateCut         float64 // cap on the suggested rate reduction
	CriticalLostRate   float64 // lost-rate above this is a critical availability gap
	SegmentLostRequest float64 // top segment lost requests above this gets its own recommendation
	RecoveryConversion float64 // assumed orders per recovered request (empirical, not derived)
}

// DefaultThresholds returns the standard rule cut-offs
func DefaultThresholds() Thresholds {
	return Thresholds{
		Overpriced:         0.05,
		Underpriced:        -0.05,
		MaxRateCut:         0.15,
		CriticalLostRate:   0.30,
		SegmentLostRequest: 1000,
		RecoveryConversion: 0.005,
	}
}
