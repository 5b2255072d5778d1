// Package underwrite models a single-lot buy, build and sell deal.
//
// Underwrite turns one set of acquisition, construction, financing and sale
// assumptions into cost subtotals, carry, profit, margin, sensitivity
// scenarios and a recommendation. The calculation performs no validation: an
// asking price or duration of zero yields non-finite ratios, so callers are
// expected to check inputs (see pkg/validation) before calling.
package underwrite

import (
	"github.com/iwvelando/dev-underwriter/pkg/constants"
	"github.com/iwvelando/dev-underwriter/pkg/loans"
	"github.com/iwvelando/dev-underwriter/pkg/mathutil"
)

// DealInputs holds every assumption for one deal. Rates are decimal
// fractions (0.085 for 8.5%).
type DealInputs struct {
	// Lot basis
	LotPurchasePrice float64 `json:"lot_purchase_price"`
	ClosingCosts     float64 `json:"closing_costs"`
	AcquisitionComm  float64 `json:"acquisition_comm"`
	DueDiligence     float64 `json:"due_diligence"`
	OtherAcqCosts    float64 `json:"other_acq_costs"`

	// Timing and rates
	DurationDays      float64 `json:"duration_days"`
	InterestRate      float64 `json:"interest_rate"`
	CostOfCapitalRate float64 `json:"cost_of_capital_rate"`

	// Floor plan
	PlanName string  `json:"plan_name"`
	PlanSF   float64 `json:"plan_sf"`
	SAndB    float64 `json:"s_and_b"`

	// Contract
	SiteSpecific float64 `json:"site_specific"`
	SoftCosts    float64 `json:"soft_costs"`
	Contingency  float64 `json:"contingency"`
	BuilderFee   float64 `json:"rch_builder_fee"`

	// Upgrades
	HardieColorPlus  float64 `json:"hardie_color_plus"`
	ElevationUpgrade float64 `json:"elevation_upgrade"`
	InteriorPackage  float64 `json:"interior_package"`
	MiscUpgrades     float64 `json:"misc_upgrades"`

	// Municipality soft costs
	WaterTap       float64 `json:"water_tap"`
	SewerSSSD      float64 `json:"sewer_sssd"`
	SewerTap       float64 `json:"sewer_tap"`
	BuildingPermit float64 `json:"building_permit"`
	PlanReview     float64 `json:"plan_review"`
	TradePermits   float64 `json:"trade_permits"`
	OtherMuniCosts float64 `json:"other_muni_costs"`

	AdditionalSiteWork float64 `json:"additional_site_work"`

	// Fixed house costs
	BuilderWarranty float64 `json:"builder_warranty"`
	BuildersRisk    float64 `json:"builders_risk"`
	POFee           float64 `json:"po_fee"`
	PMFee           float64 `json:"pm_fee"`
	AMFee           float64 `json:"rch_am_fee"`
	MiscFixed       float64 `json:"misc_fixed"`

	// Sales
	ASP                float64 `json:"asp"`
	SellingCostPct     float64 `json:"selling_cost_pct"`
	SellingConcessions float64 `json:"selling_concessions"`
}

// DealResults is the fully derived analysis of a deal.
type DealResults struct {
	TotalLotBasis      float64 `json:"total_lot_basis"`
	TotalContractCost  float64 `json:"total_contract_cost"`
	TotalUpgrades      float64 `json:"total_upgrades"`
	TotalMuniSoftCosts float64 `json:"total_muni_soft_costs"`
	TotalFixedHouse    float64 `json:"total_rch_fixed_house"`
	UtilityCharges     float64 `json:"utility_charges"`
	TotalProjectCost   float64 `json:"total_project_cost"`

	LoanAmount         float64 `json:"loan_amount"`
	EquityRequired     float64 `json:"equity_required"`
	InterestCarry      float64 `json:"interest_carry"`
	CostOfCapitalCarry float64 `json:"cost_of_capital_carry"`
	TotalCarry         float64 `json:"total_carry"`
	TotalAllInCost     float64 `json:"total_all_in_cost"`

	SellingCosts     float64 `json:"selling_costs"`
	NetSalesProceeds float64 `json:"net_sales_proceeds"`
	NetProfit        float64 `json:"net_profit"`
	NPM              float64 `json:"npm"`
	LandCostRatio    float64 `json:"land_cost_ratio"`
	BreakevenASP     float64 `json:"breakeven_asp"`
	MinASP5Pct       float64 `json:"min_asp_5pct"`

	BestCaseProfit    float64 `json:"best_case_profit"`
	BestCaseNPM       float64 `json:"best_case_npm"`
	WorstCaseProfit   float64 `json:"worst_case_profit"`
	WorstCaseNPM      float64 `json:"worst_case_npm"`
	StressCostProfit  float64 `json:"stress_cost_profit"`
	StressCostNPM     float64 `json:"stress_cost_npm"`
	StressASPProfit   float64 `json:"stress_asp_profit"`
	StressASPNPM      float64 `json:"stress_asp_npm"`
	StressDelayProfit float64 `json:"stress_delay_profit"`
	StressDelayNPM    float64 `json:"stress_delay_npm"`

	Recommendation Recommendation `json:"recommendation"`
	NPMLabel       string         `json:"npm_label"`
	LandLabel      string         `json:"land_label"`
}

// Sensitivities returns the base case followed by every scenario as
// profit/margin pairs, in the order of Scenarios.
func (r DealResults) Sensitivities() []ScenarioResult {
	return []ScenarioResult{
		{Name: "Base", Profit: r.NetProfit, NPM: r.NPM},
		{Name: BestCase.Name, Profit: r.BestCaseProfit, NPM: r.BestCaseNPM},
		{Name: WorstCase.Name, Profit: r.WorstCaseProfit, NPM: r.WorstCaseNPM},
		{Name: StressCost.Name, Profit: r.StressCostProfit, NPM: r.StressCostNPM},
		{Name: StressASP.Name, Profit: r.StressASPProfit, NPM: r.StressASPNPM},
		{Name: StressDelay.Name, Profit: r.StressDelayProfit, NPM: r.StressDelayNPM},
	}
}

// UtilityCharges returns the flat monthly utility carry for a holding period,
// rounding any partial month up.
func UtilityCharges(durationDays float64) float64 {
	return mathutil.CeilPeriods(durationDays, constants.DaysPerUtilityMonth) * constants.MonthlyUtilityCharge
}

// Underwrite computes the full analysis for one deal.
func Underwrite(in DealInputs) DealResults {
	var r DealResults

	r.TotalLotBasis = mathutil.Sum(in.LotPurchasePrice, in.ClosingCosts, in.AcquisitionComm,
		in.DueDiligence, in.OtherAcqCosts)
	r.TotalContractCost = mathutil.Sum(in.SAndB, in.SiteSpecific, in.SoftCosts, in.Contingency, in.BuilderFee)
	r.TotalUpgrades = mathutil.Sum(in.HardieColorPlus, in.ElevationUpgrade, in.InteriorPackage, in.MiscUpgrades)
	r.TotalMuniSoftCosts = mathutil.Sum(in.WaterTap, in.SewerSSSD, in.SewerTap, in.BuildingPermit,
		in.PlanReview, in.TradePermits, in.OtherMuniCosts)
	r.UtilityCharges = UtilityCharges(in.DurationDays)
	r.TotalFixedHouse = mathutil.Sum(in.BuilderWarranty, in.BuildersRisk, in.POFee, in.PMFee, in.AMFee,
		r.UtilityCharges, in.MiscFixed)
	r.TotalProjectCost = mathutil.Sum(r.TotalLotBasis, r.TotalContractCost, r.TotalUpgrades,
		r.TotalMuniSoftCosts, in.AdditionalSiteWork, r.TotalFixedHouse)

	split := loans.SplitLoanToCost(r.TotalProjectCost, constants.LoanToCost)
	r.LoanAmount = split.Loan
	r.EquityRequired = split.Equity
	r.InterestCarry = loans.CarryInterest(split.Loan, in.InterestRate, in.DurationDays)
	r.CostOfCapitalCarry = loans.CarryInterest(split.Equity, in.CostOfCapitalRate, in.DurationDays)
	r.TotalCarry = r.InterestCarry + r.CostOfCapitalCarry
	r.TotalAllInCost = r.TotalProjectCost + r.TotalCarry

	r.SellingCosts = in.ASP * in.SellingCostPct
	r.NetSalesProceeds = in.ASP - r.SellingCosts - in.SellingConcessions
	r.NetProfit = r.NetSalesProceeds - r.TotalAllInCost
	r.NPM = r.NetProfit / in.ASP
	r.LandCostRatio = r.TotalLotBasis / in.ASP

	r.BreakevenASP = r.TotalAllInCost / (1 - in.SellingCostPct)
	r.MinASP5Pct = r.TotalAllInCost / (1 - in.SellingCostPct - constants.MinMarginFloor)

	base := BaseFor(in, r.TotalProjectCost)
	best := RunScenario(base, BestCase)
	worst := RunScenario(base, WorstCase)
	stressCost := RunScenario(base, StressCost)
	stressASP := RunScenario(base, StressASP)
	stressDelay := RunScenario(base, StressDelay)

	r.BestCaseProfit, r.BestCaseNPM = best.Profit, best.NPM
	r.WorstCaseProfit, r.WorstCaseNPM = worst.Profit, worst.NPM
	r.StressCostProfit, r.StressCostNPM = stressCost.Profit, stressCost.NPM
	r.StressASPProfit, r.StressASPNPM = stressASP.Profit, stressASP.NPM
	r.StressDelayProfit, r.StressDelayNPM = stressDelay.Profit, stressDelay.NPM

	r.Recommendation = Recommend(r.NPM)
	r.NPMLabel = MarginLabel(r.NPM)
	r.LandLabel = LandLabel(r.LandCostRatio)

	return r
}
