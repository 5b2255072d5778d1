package btr

import (
	"github.com/iwvelando/dev-underwriter/pkg/constants"
	"github.com/iwvelando/dev-underwriter/pkg/mathutil"
)

// IncomeCategory groups stabilized operating assumptions.
type IncomeCategory string

// Income and expense categories.
const (
	UnitRent         IncomeCategory = "unit_rent"
	Vacancy          IncomeCategory = "vacancy"
	OtherIncome      IncomeCategory = "other_income"
	OperatingExpense IncomeCategory = "operating_expense"
	PMFee            IncomeCategory = "pm_fee"
	Reserve          IncomeCategory = "reserve"
)

// Known reports whether c is a recognized income category.
func (c IncomeCategory) Known() bool {
	switch c {
	case UnitRent, Vacancy, OtherIncome, OperatingExpense, PMFee, Reserve:
		return true
	}
	return false
}

// IncomeItem is one stabilized income or expense assumption. Which amount
// field applies depends on the category.
type IncomeItem struct {
	Category      IncomeCategory `json:"assumption_category" mapstructure:"category"`
	Name          string         `json:"name" mapstructure:"name"`
	UnitCount     int            `json:"unit_count,omitempty" mapstructure:"unit_count"`
	MonthlyAmount float64        `json:"monthly_amount,omitempty" mapstructure:"monthly_amount"`
	AnnualAmount  float64        `json:"annual_amount,omitempty" mapstructure:"annual_amount"`
	PerUnitAmount float64        `json:"per_unit_amount,omitempty" mapstructure:"per_unit_amount"`
	PctOfRevenue  float64        `json:"pct_of_revenue,omitempty" mapstructure:"pct_of_revenue"`
}

// RentRow returns a rent line for unitCount units at a monthly rent.
func RentRow(name string, unitCount int, monthlyRent float64) IncomeItem {
	return IncomeItem{
		Category:      UnitRent,
		Name:          name,
		UnitCount:     unitCount,
		MonthlyAmount: monthlyRent,
		AnnualAmount:  float64(unitCount) * monthlyRent * constants.MonthsPerYear,
		PerUnitAmount: monthlyRent * constants.MonthsPerYear,
	}
}

// IncomeSummary is the stabilized NOI build-up.
type IncomeSummary struct {
	GrossPotentialRent float64 `json:"gross_potential_rent"`
	VacancyPct         float64 `json:"vacancy_pct"`
	VacancyLoss        float64 `json:"vacancy_loss"`
	OtherIncome        float64 `json:"other_income"`
	EGI                float64 `json:"egi"`
	OperatingExpenses  float64 `json:"operating_expenses"`
	PMFee              float64 `json:"pm_fee"`
	Reserves           float64 `json:"reserves"`
	TotalExpenses      float64 `json:"total_expenses"`
	NOI                float64 `json:"noi"`
	NOIPerUnit         float64 `json:"noi_per_unit"`
	YieldOnCost        float64 `json:"yield_on_cost"`
}

// annualOrPerUnit prefers an explicit annual amount over a per-unit one.
func annualOrPerUnit(item IncomeItem, units float64) float64 {
	if item.AnnualAmount != 0 {
		return item.AnnualAmount
	}
	return item.PerUnitAmount * units
}

// AnalyzeIncome builds NOI from rent, vacancy, other income and expenses.
// Rent rows use their annual amount, or units times monthly rent when no
// annual amount is set. Yield on cost is zero without a cost basis.
func AnalyzeIncome(items []IncomeItem, totalUnits int, costBasis float64) IncomeSummary {
	units := float64(totalUnits)
	if totalUnits <= 0 {
		units = 1
	}

	var s IncomeSummary
	for _, item := range items {
		switch item.Category {
		case UnitRent:
			if item.AnnualAmount != 0 {
				s.GrossPotentialRent += item.AnnualAmount
			} else {
				s.GrossPotentialRent += float64(item.UnitCount) * item.MonthlyAmount * constants.MonthsPerYear
			}
		case Vacancy:
			s.VacancyPct += item.PctOfRevenue
		case OtherIncome:
			if item.MonthlyAmount != 0 {
				s.OtherIncome += item.MonthlyAmount * units * constants.MonthsPerYear
			} else {
				s.OtherIncome += item.AnnualAmount
			}
		case OperatingExpense:
			s.OperatingExpenses += annualOrPerUnit(item, units)
		case Reserve:
			s.Reserves += annualOrPerUnit(item, units)
		}
	}

	s.VacancyLoss = s.GrossPotentialRent * s.VacancyPct
	s.EGI = s.GrossPotentialRent - s.VacancyLoss + s.OtherIncome

	// Percentage management fees are taken on EGI, so they run last.
	for _, item := range items {
		if item.Category != PMFee {
			continue
		}
		if item.PctOfRevenue != 0 {
			s.PMFee += s.EGI * item.PctOfRevenue
		} else {
			s.PMFee += item.AnnualAmount
		}
	}

	s.TotalExpenses = s.OperatingExpenses + s.PMFee + s.Reserves
	s.NOI = s.EGI - s.TotalExpenses
	s.NOIPerUnit = s.NOI / units
	s.YieldOnCost = mathutil.SafeDivide(s.NOI, costBasis)
	return s
}

// DefaultIncomeItems are the standard vacancy, other income, expense,
// management and reserve assumptions. Rent rows come from the product mix.
func DefaultIncomeItems() []IncomeItem {
	pct := func(c IncomeCategory, name string, p float64) IncomeItem {
		return IncomeItem{Category: c, Name: name, PctOfRevenue: p}
	}
	monthly := func(name string, amount float64) IncomeItem {
		return IncomeItem{Category: OtherIncome, Name: name, MonthlyAmount: amount}
	}
	perUnit := func(c IncomeCategory, name string, amount float64) IncomeItem {
		return IncomeItem{Category: c, Name: name, PerUnitAmount: amount}
	}

	return []IncomeItem{
		pct(Vacancy, "Physical Vacancy", 0.05),
		pct(Vacancy, "Concessions", 0.01),
		pct(Vacancy, "Credit Loss", 0.005),

		monthly("Pet Rent", 50),
		monthly("Admin/Application Fees", 15),
		monthly("Parking", 0),
		monthly("Valet Trash", 35),
		monthly("Other", 0),

		perUnit(OperatingExpense, "Contract Services", 900),
		perUnit(OperatingExpense, "Repairs & Maintenance", 750),
		perUnit(OperatingExpense, "Turnover/Make-Ready", 400),
		perUnit(OperatingExpense, "Marketing", 250),
		perUnit(OperatingExpense, "General & Admin", 450),
		perUnit(OperatingExpense, "Insurance", 600),
		perUnit(OperatingExpense, "Real Estate Taxes", 1800),
		perUnit(OperatingExpense, "Utilities", 500),

		pct(PMFee, "Property Management Fee", 0.07),

		perUnit(Reserve, "Capital Reserves", 300),
	}
}
