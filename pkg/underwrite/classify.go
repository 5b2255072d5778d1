package underwrite

import "github.com/iwvelando/dev-underwriter/pkg/constants"

// Recommendation is the go/no-go call for a deal.
type Recommendation string

// Recommendations, best first.
const (
	Proceed            Recommendation = "PROCEED"
	ProceedWithCaution Recommendation = "PROCEED WITH CAUTION"
	Decline            Recommendation = "DECLINE"
)

// Margin quality labels.
const (
	MarginStrong   = "STRONG"
	MarginGood     = "GOOD"
	MarginMarginal = "MARGINAL"
	MarginNoGo     = "NO GO"
)

// Land-cost ratio labels.
const (
	LandStrong     = "STRONG"
	LandAcceptable = "ACCEPTABLE"
	LandCaution    = "CAUTION"
	LandOverpaying = "OVERPAYING"
)

// Recommend classifies a net profit margin. Thresholds are inclusive at
// their lower bound. A NaN margin is declined.
func Recommend(npm float64) Recommendation {
	switch {
	case npm >= constants.ProceedMargin:
		return Proceed
	case npm >= constants.CautionMargin:
		return ProceedWithCaution
	default:
		return Decline
	}
}

// MarginLabel grades a net profit margin.
func MarginLabel(npm float64) string {
	switch {
	case npm > constants.StrongMargin:
		return MarginStrong
	case npm >= constants.ProceedMargin:
		return MarginGood
	case npm >= constants.CautionMargin:
		return MarginMarginal
	default:
		return MarginNoGo
	}
}

// LandLabel grades the share of the asking price spent on the lot.
func LandLabel(ratio float64) string {
	switch {
	case ratio < constants.StrongLandRatio:
		return LandStrong
	case ratio <= constants.AcceptableLandRatio:
		return LandAcceptable
	case ratio <= constants.CautionLandRatio:
		return LandCaution
	default:
		return LandOverpaying
	}
}
