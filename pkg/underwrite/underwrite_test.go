package underwrite

import (
	"math"
	"testing"
)

const moneyTolerance = 1e-6

// willowDeal is a WILLOW plan on an $85,000 lot with the standard assumptions.
func willowDeal() DealInputs {
	in := DefaultInputs()
	in.LotPurchasePrice = 85000
	in.PlanName = "WILLOW"
	in.PlanSF = 1916
	in.SAndB = 143200
	in.ASP = 400000
	return in
}

func TestUnderwriteSubtotals(t *testing.T) {
	r := Underwrite(willowDeal())

	tests := []struct {
		name     string
		actual   float64
		expected float64
	}{
		{"Lot basis", r.TotalLotBasis, 89500},
		{"Contract cost", r.TotalContractCost, 185225},
		{"Upgrades", r.TotalUpgrades, 7000},
		{"Municipal soft costs", r.TotalMuniSoftCosts, 11650},
		{"Utility charges", r.UtilityCharges, 1750},
		{"Fixed house costs", r.TotalFixedHouse, 30750},
		{"Project cost", r.TotalProjectCost, 329125},
		{"Loan at 85% LTC", r.LoanAmount, 279756.25},
		{"Equity", r.EquityRequired, 49368.75},
		{"Interest carry", r.InterestCarry, 11365.097656249998},
		{"Cost of capital carry", r.CostOfCapitalCarry, 3291.25},
		{"Total carry", r.TotalCarry, 11365.097656249998 + 3291.25},
		{"All-in cost", r.TotalAllInCost, 343781.34765625},
		{"Selling costs", r.SellingCosts, 34000},
		{"Net sales proceeds", r.NetSalesProceeds, 361000},
		{"Net profit", r.NetProfit, 17218.65234375},
		{"Net profit margin", r.NPM, 0.043046630859375},
		{"Land cost ratio", r.LandCostRatio, 0.22375},
		{"Breakeven ASP", r.BreakevenASP, 375717.31984289613},
		{"Minimum ASP for 5%", r.MinASP5Pct, 397435.0839956647},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.actual-tt.expected) > moneyTolerance {
				t.Errorf("got %v, expected %v", tt.actual, tt.expected)
			}
		})
	}

	if r.Recommendation != Decline {
		t.Errorf("Recommendation = %s, expected %s", r.Recommendation, Decline)
	}
	if r.NPMLabel != MarginNoGo {
		t.Errorf("NPMLabel = %s, expected %s", r.NPMLabel, MarginNoGo)
	}
	if r.LandLabel != LandAcceptable {
		t.Errorf("LandLabel = %s, expected %s", r.LandLabel, LandAcceptable)
	}
}

func TestUnderwriteSensitivity(t *testing.T) {
	r := Underwrite(willowDeal())

	tests := []struct {
		name           string
		profit, npm    float64
		expectedProfit float64
		expectedNPM    float64
	}{
		{"Best case", r.BestCaseProfit, r.BestCaseNPM, 52707.7197265625, 0.12549457077752976},
		{"Worst case", r.WorstCaseProfit, r.WorstCaseNPM, -56983.87890625006, -0.15828855251736126},
		{"Stress cost", r.StressCostProfit, r.StressCostNPM, -17159.48242187506, -0.042898706054687645},
		{"Stress ASP", r.StressASPProfit, r.StressASPNPM, -19381.34765625, -0.05383707682291667},
		{"Stress delay", r.StressDelayProfit, r.StressDelayNPM, 14287.3828125, 0.03571845703125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.profit-tt.expectedProfit) > moneyTolerance {
				t.Errorf("profit = %v, expected %v", tt.profit, tt.expectedProfit)
			}
			if math.Abs(tt.npm-tt.expectedNPM) > 1e-12 {
				t.Errorf("npm = %v, expected %v", tt.npm, tt.expectedNPM)
			}
		})
	}
}

func TestStressCostUsesOriginalProjectCost(t *testing.T) {
	in := willowDeal()
	r := Underwrite(in)

	adjCost := r.TotalProjectCost * 1.10
	loan := adjCost * 0.85
	equity := adjCost - loan
	allIn := adjCost + loan*(in.InterestRate/360)*in.DurationDays + equity*(in.CostOfCapitalRate/360)*in.DurationDays
	expected := in.ASP - in.ASP*in.SellingCostPct - in.SellingConcessions - allIn

	if math.Abs(r.StressCostProfit-expected) > moneyTolerance {
		t.Errorf("StressCostProfit = %v, expected %v", r.StressCostProfit, expected)
	}

	// Chaining from the best case cost would be a different number.
	chained := RunScenario(BaseFor(in, r.TotalProjectCost*BestCase.CostMult), StressCost)
	if math.Abs(chained.Profit-r.StressCostProfit) < 1 {
		t.Errorf("stress cost appears to be derived from an adjusted cost")
	}
}

func TestRunScenarioIdentity(t *testing.T) {
	in := willowDeal()
	r := Underwrite(in)
	identity := RunScenario(BaseFor(in, r.TotalProjectCost), Scenario{Name: "Identity", CostMult: 1, ASPMult: 1})
	if math.Abs(identity.Profit-r.NetProfit) > moneyTolerance {
		t.Errorf("identity profit = %v, expected %v", identity.Profit, r.NetProfit)
	}
	if math.Abs(identity.NPM-r.NPM) > 1e-12 {
		t.Errorf("identity npm = %v, expected %v", identity.NPM, r.NPM)
	}
}

func TestSensitivities(t *testing.T) {
	r := Underwrite(willowDeal())
	rows := r.Sensitivities()
	if len(rows) != 6 {
		t.Fatalf("expected 6 sensitivity rows, got %d", len(rows))
	}
	if rows[0].Profit != r.NetProfit || rows[3].Profit != r.StressCostProfit || rows[5].NPM != r.StressDelayNPM {
		t.Errorf("sensitivity rows out of order: %+v", rows)
	}
}

func TestUtilityCharges(t *testing.T) {
	tests := []struct {
		days     float64
		expected float64
	}{
		{150, 1750},
		{151, 2100},
		{30, 350},
		{1, 350},
		{0, 0},
	}

	for _, tt := range tests {
		if got := UtilityCharges(tt.days); got != tt.expected {
			t.Errorf("UtilityCharges(%v) = %v, expected %v", tt.days, got, tt.expected)
		}
	}
}

func TestUnderwriteZeroASPIsNonFinite(t *testing.T) {
	in := willowDeal()
	in.ASP = 0
	r := Underwrite(in)
	if !math.IsInf(r.NPM, -1) {
		t.Errorf("NPM = %v, expected -Inf", r.NPM)
	}
	if !math.IsInf(r.LandCostRatio, 1) {
		t.Errorf("LandCostRatio = %v, expected +Inf", r.LandCostRatio)
	}
	if r.Recommendation != Decline {
		t.Errorf("Recommendation = %s, expected %s", r.Recommendation, Decline)
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name     string
		npm      float64
		expected Recommendation
	}{
		{"Exactly 7%", 0.07, Proceed},
		{"Well above", 0.15, Proceed},
		{"Just below 7%", 0.0699999, ProceedWithCaution},
		{"Exactly 5%", 0.05, ProceedWithCaution},
		{"Just below 5%", 0.0499999, Decline},
		{"Negative", -0.2, Decline},
		{"NaN", math.NaN(), Decline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recommend(tt.npm); got != tt.expected {
				t.Errorf("Recommend(%v) = %s, expected %s", tt.npm, got, tt.expected)
			}
		})
	}
}

func TestMarginLabel(t *testing.T) {
	tests := []struct {
		npm      float64
		expected string
	}{
		{0.1001, MarginStrong},
		{0.10, MarginGood},
		{0.07, MarginGood},
		{0.0699, MarginMarginal},
		{0.05, MarginMarginal},
		{0.0499, MarginNoGo},
	}

	for _, tt := range tests {
		if got := MarginLabel(tt.npm); got != tt.expected {
			t.Errorf("MarginLabel(%v) = %s, expected %s", tt.npm, got, tt.expected)
		}
	}
}

func TestLandLabel(t *testing.T) {
	tests := []struct {
		ratio    float64
		expected string
	}{
		{0.1999, LandStrong},
		{0.20, LandAcceptable},
		{0.25, LandAcceptable},
		{0.2501, LandCaution},
		{0.30, LandCaution},
		{0.3001, LandOverpaying},
	}

	for _, tt := range tests {
		if got := LandLabel(tt.ratio); got != tt.expected {
			t.Errorf("LandLabel(%v) = %s, expected %s", tt.ratio, got, tt.expected)
		}
	}
}
