package btr

import (
	"math"
	"strings"

	"github.com/iwvelando/dev-underwriter/pkg/constants"
	"github.com/iwvelando/dev-underwriter/pkg/loans"
)

// LayerType identifies a source in the capital stack.
type LayerType string

// Capital stack layer types.
const (
	ConstructionLoan LayerType = "construction_loan"
	PermanentLoan    LayerType = "permanent_loan"
	LandLoan         LayerType = "land_loan"
	Mezzanine        LayerType = "mezzanine"
	EquityLP         LayerType = "equity_lp"
	EquityGP         LayerType = "equity_gp"
)

// IsEquity reports whether the layer is an equity source rather than debt.
func (t LayerType) IsEquity() bool {
	return strings.HasPrefix(string(t), "equity")
}

// Known reports whether t is a recognized layer type.
func (t LayerType) Known() bool {
	switch t {
	case ConstructionLoan, PermanentLoan, LandLoan, Mezzanine, EquityLP, EquityGP:
		return true
	}
	return false
}

// FinancingLayer is one debt or equity source.
type FinancingLayer struct {
	Type               LayerType `json:"layer_type" mapstructure:"type"`
	Lender             string    `json:"lender_name,omitempty" mapstructure:"lender"`
	Amount             float64   `json:"amount" mapstructure:"amount"`
	LTCOrLTV           float64   `json:"ltc_or_ltv_pct,omitempty" mapstructure:"ltc_or_ltv_pct"`
	InterestRate       float64   `json:"interest_rate" mapstructure:"interest_rate"`
	TermMonths         int       `json:"term_months" mapstructure:"term_months"`
	AmortizationMonths int       `json:"amortization_months,omitempty" mapstructure:"amortization_months"`
	OriginationFeePct  float64   `json:"origination_fee_pct" mapstructure:"origination_fee_pct"`
	DayCountBasis      float64   `json:"day_count_basis,omitempty" mapstructure:"day_count_basis"`
	Notes              string    `json:"notes,omitempty" mapstructure:"notes"`
}

// FinancingSummary is the sources side of the capital stack.
type FinancingSummary struct {
	TotalDebt            float64 `json:"total_debt"`
	TotalEquity          float64 `json:"total_equity"`
	TotalSources         float64 `json:"total_sources"`
	DebtToCost           float64 `json:"debt_to_cost"`
	SourcesGap           float64 `json:"sources_gap"`
	ConstructionInterest float64 `json:"construction_interest"`
	OriginationFees      float64 `json:"origination_fees"`
	PermMonthlyPayment   float64 `json:"perm_monthly_payment"`
	AnnualDebtService    float64 `json:"annual_debt_service"`
	DSCR                 float64 `json:"dscr"`
}

func findLayer(layers []FinancingLayer, t LayerType) (FinancingLayer, bool) {
	for _, l := range layers {
		if l.Type == t {
			return l, true
		}
	}
	return FinancingLayer{}, false
}

// AnalyzeFinancing totals the capital stack against the cost basis and sizes
// construction interest and permanent debt service. Only the first
// construction and permanent loans are sized.
func AnalyzeFinancing(layers []FinancingLayer, costBasis, stabilizedNOI float64) FinancingSummary {
	var s FinancingSummary
	for _, l := range layers {
		if l.Type.IsEquity() {
			s.TotalEquity += l.Amount
			continue
		}
		s.TotalDebt += l.Amount
		s.OriginationFees += l.Amount * l.OriginationFeePct
	}
	s.TotalSources = s.TotalDebt + s.TotalEquity
	s.SourcesGap = costBasis - s.TotalSources
	if costBasis > 0 {
		s.DebtToCost = s.TotalDebt / costBasis
	}

	if cl, ok := findLayer(layers, ConstructionLoan); ok && cl.Amount > 0 {
		s.ConstructionInterest = ConstructionInterest(cl)
	}

	if pl, ok := findLayer(layers, PermanentLoan); ok && pl.Amount > 0 && pl.AmortizationMonths > 0 && pl.InterestRate > 0 {
		s.PermMonthlyPayment = loans.CalculateMonthlyPayment(pl.Amount, 0, pl.InterestRate, pl.AmortizationMonths)
	}
	s.AnnualDebtService = s.PermMonthlyPayment * constants.MonthsPerYear
	if s.AnnualDebtService > 0 {
		s.DSCR = stabilizedNOI / s.AnnualDebtService
	}
	return s
}

// ConstructionInterest estimates interest on a construction loan drawn along
// an S-curve, using an average outstanding balance of 55% of the commitment.
// A loan with no positive commitment carries no interest.
func ConstructionInterest(l FinancingLayer) float64 {
	if !(l.Amount > 0) {
		return 0
	}
	term := l.TermMonths
	if term <= 0 {
		term = constants.DefaultLoanTermMonths
	}
	basis := l.DayCountBasis
	if basis <= 0 {
		basis = constants.DayCountBasis
	}
	days := float64(term * constants.DaysPerLoanMonth)
	return loans.SimpleInterest(l.Amount*constants.ConstructionAvgOutstanding, l.InterestRate, basis, days)
}

// DefaultFinancingLayers is the starting capital stack: a 70% LTC
// construction loan, an unsized permanent take-out and LP equity for the rest.
func DefaultFinancingLayers(costBasis float64) []FinancingLayer {
	construction := costBasis * 0.70
	return []FinancingLayer{
		{
			Type:              ConstructionLoan,
			Amount:            math.Round(construction),
			LTCOrLTV:          0.70,
			InterestRate:      0.11,
			TermMonths:        36,
			OriginationFeePct: 0.02,
			DayCountBasis:     constants.DayCountBasis,
		},
		{
			Type:               PermanentLoan,
			LTCOrLTV:           0.65,
			InterestRate:       0.065,
			TermMonths:         120,
			AmortizationMonths: 360,
			OriginationFeePct:  0.01,
			DayCountBasis:      constants.DayCountBasis,
			Notes:              "Refi after stabilization",
		},
		{
			Type:          EquityLP,
			Amount:        math.Round(costBasis - construction),
			DayCountBasis: constants.DayCountBasis,
		},
	}
}
