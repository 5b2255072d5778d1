// Package loans provides common loan and carry calculation utilities.
//
// All rates are decimal fractions (0.085 for 8.5%).
package loans

import (
	"math"

	"github.com/iwvelando/dev-underwriter/pkg/constants"
)

// Split holds the debt and equity portions of a funded cost.
type Split struct {
	Loan   float64
	Equity float64
}

// SplitLoanToCost divides a total cost into loan and equity at the given
// loan-to-cost ratio. Equity is always the remainder of cost after the loan.
func SplitLoanToCost(cost, ltc float64) Split {
	loan := cost * ltc
	return Split{Loan: loan, Equity: cost - loan}
}

// SimpleInterest returns non-amortized interest on a balance held for the
// given number of days using the supplied day-count basis (e.g. 360).
func SimpleInterest(balance, annualRate, dayCountBasis, days float64) float64 {
	return balance * (annualRate / dayCountBasis) * days
}

// CarryInterest is SimpleInterest on the deal model's 360-day convention.
func CarryInterest(balance, annualRate, days float64) float64 {
	return SimpleInterest(balance, annualRate, constants.DayCountBasis, days)
}

// CalculateMonthlyPayment calculates the level monthly payment for a fully
// amortizing loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, downPayment, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return (principal - downPayment) / float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / constants.MonthsPerYear
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return (principal - downPayment) * periodicInterestRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a monthly payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / constants.MonthsPerYear
}
