package underwrite

import (
	"github.com/iwvelando/dev-underwriter/pkg/constants"
	"github.com/iwvelando/dev-underwriter/pkg/loans"
)

// ScenarioBase carries the unadjusted figures a scenario starts from.
type ScenarioBase struct {
	TotalProjectCost   float64
	ASP                float64
	SellingCostPct     float64
	SellingConcessions float64
	InterestRate       float64
	CostOfCapitalRate  float64
	DurationDays       float64
}

// BaseFor builds the scenario base for a deal and its unadjusted project cost.
func BaseFor(in DealInputs, totalProjectCost float64) ScenarioBase {
	return ScenarioBase{
		TotalProjectCost:   totalProjectCost,
		ASP:                in.ASP,
		SellingCostPct:     in.SellingCostPct,
		SellingConcessions: in.SellingConcessions,
		InterestRate:       in.InterestRate,
		CostOfCapitalRate:  in.CostOfCapitalRate,
		DurationDays:       in.DurationDays,
	}
}

// Scenario adjusts project cost, asking price and holding period.
type Scenario struct {
	Name      string  `json:"name"`
	CostMult  float64 `json:"cost_mult"`
	ASPMult   float64 `json:"asp_mult"`
	ExtraDays float64 `json:"extra_days"`
}

// ScenarioResult is the profit and margin of one scenario.
type ScenarioResult struct {
	Name   string  `json:"name"`
	Profit float64 `json:"profit"`
	NPM    float64 `json:"npm"`
}

// Sensitivity scenarios. Each is applied to the base figures on its own.
var (
	BestCase    = Scenario{Name: "Best Case", CostMult: 0.95, ASPMult: 1.05}
	WorstCase   = Scenario{Name: "Worst Case", CostMult: 1.10, ASPMult: 0.90, ExtraDays: constants.DelayDays}
	StressCost  = Scenario{Name: "Stress: Cost +10%", CostMult: 1.10, ASPMult: 1.00}
	StressASP   = Scenario{Name: "Stress: ASP -10%", CostMult: 1.00, ASPMult: 0.90}
	StressDelay = Scenario{Name: "Stress: +30 Days", CostMult: 1.00, ASPMult: 1.00, ExtraDays: constants.DelayDays}
)

// Scenarios lists the sensitivity scenarios in reporting order.
var Scenarios = []Scenario{BestCase, WorstCase, StressCost, StressASP, StressDelay}

// RunScenario recomputes financing, carry, profit and margin from the base
// project cost with the scenario's adjustments. Selling concessions are not
// scaled.
func RunScenario(base ScenarioBase, s Scenario) ScenarioResult {
	adjProjectCost := base.TotalProjectCost * s.CostMult
	split := loans.SplitLoanToCost(adjProjectCost, constants.LoanToCost)
	adjDays := base.DurationDays + s.ExtraDays
	adjInterest := loans.CarryInterest(split.Loan, base.InterestRate, adjDays)
	adjCoC := loans.CarryInterest(split.Equity, base.CostOfCapitalRate, adjDays)
	adjAllIn := adjProjectCost + adjInterest + adjCoC

	adjASP := base.ASP * s.ASPMult
	adjSellingCosts := adjASP * base.SellingCostPct
	profit := adjASP - adjSellingCosts - base.SellingConcessions - adjAllIn

	return ScenarioResult{Name: s.Name, Profit: profit, NPM: profit / adjASP}
}
