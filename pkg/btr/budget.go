// Package btr rolls build-to-rent project inputs up into budget, financing,
// income, delivery, bid and fee summaries.
package btr

import (
	"strings"

	"github.com/iwvelando/dev-underwriter/pkg/constants"
	"github.com/iwvelando/dev-underwriter/pkg/mathutil"
	"github.com/iwvelando/dev-underwriter/pkg/scurve"
)

// Scope is the share of site work the project carries.
type Scope string

// Project scopes.
const (
	ScopeVerticalOnly          Scope = "vertical_only"
	ScopeHorizontalAndVertical Scope = "horizontal_and_vertical"
)

// Project describes the size and duration of a BTR community.
type Project struct {
	Name               string  `json:"name"`
	Scope              Scope   `json:"scope,omitempty"`
	TotalUnits         int     `json:"total_units"`
	AvgSFPerUnit       float64 `json:"avg_sf_per_unit,omitempty"`
	TotalResidentialSF float64 `json:"total_residential_sf,omitempty"`
	ConstructionMonths int     `json:"construction_months,omitempty"`
}

// Months is the construction horizon, defaulting to 24 months.
func (p Project) Months() int {
	if p.ConstructionMonths > 0 {
		return p.ConstructionMonths
	}
	return constants.DefaultConstructionMonths
}

// Units is the unit count used for per-unit math; never less than one.
func (p Project) Units() int {
	if p.TotalUnits > 0 {
		return p.TotalUnits
	}
	return 1
}

// SquareFeet is the residential square footage, estimated from the unit
// count when not given.
func (p Project) SquareFeet() float64 {
	if p.TotalResidentialSF > 0 {
		return p.TotalResidentialSF
	}
	avg := p.AvgSFPerUnit
	if avg <= 0 {
		avg = constants.DefaultAvgSFPerUnit
	}
	return float64(p.Units()) * avg
}

// SeedBudget builds the default budget template for a project. Horizontal
// items are dropped for vertical-only projects and durations are clamped to
// the horizon. perUnit supplies per-unit amounts by line item name,
// matched without regard to case.
func SeedBudget(p Project, perUnit map[string]float64) []scurve.BudgetItem {
	months := p.Months()
	units := float64(p.Units())

	amounts := make(map[string]float64, len(perUnit))
	for name, amount := range perUnit {
		amounts[strings.ToLower(strings.TrimSpace(name))] = amount
	}

	var items []scurve.BudgetItem
	for _, item := range scurve.DefaultBudgetItems() {
		if item.Category == scurve.CategoryHorizontal && p.Scope != ScopeHorizontalAndVertical {
			continue
		}
		if item.DurationMonths > months {
			item.DurationMonths = months
		}
		if amount, ok := amounts[strings.ToLower(item.Name)]; ok {
			item.PerUnitAmount = amount
			item.TotalAmount = amount * units
		}
		items = append(items, item)
	}
	return items
}

// BudgetLine is one budget item with its derived figures.
type BudgetLine struct {
	scurve.BudgetItem
	EndMonth    int       `json:"end_month"`
	PerSFAmount float64   `json:"per_sf_amount"`
	Monthly     []float64 `json:"monthly_distribution"`
}

// CategoryTotal is the included spend of one budget category.
type CategoryTotal struct {
	Category scurve.Category `json:"category"`
	Label    string          `json:"label"`
	Total    float64         `json:"total"`
	Monthly  []float64       `json:"monthly"`
}

// BudgetSummary is the rolled-up development budget.
type BudgetSummary struct {
	Months        int             `json:"months"`
	SquareFeet    float64         `json:"square_feet"`
	Categories    []CategoryTotal `json:"categories"`
	GrandTotal    float64         `json:"grand_total"`
	PerUnit       float64         `json:"per_unit"`
	PerSF         float64         `json:"per_sf"`
	Monthly       []float64       `json:"monthly"`
	Cumulative    []float64       `json:"cumulative"`
	Lines         []BudgetLine    `json:"lines"`
	ExcludedLines int             `json:"excluded_lines"`
}

// SummarizeBudget totals included items per category and spreads each one
// across the project horizon.
func SummarizeBudget(p Project, items []scurve.BudgetItem) BudgetSummary {
	months := p.Months()
	sf := p.SquareFeet()

	summary := BudgetSummary{
		Months:     months,
		SquareFeet: sf,
		Lines:      make([]BudgetLine, 0, len(items)),
	}

	byCategory := make(map[scurve.Category][][]float64)
	totals := make(map[scurve.Category]float64)
	for _, item := range items {
		monthly := scurve.DistributeBudgetItem(item, months)
		summary.Lines = append(summary.Lines, BudgetLine{
			BudgetItem:  item,
			EndMonth:    item.EndMonth(),
			PerSFAmount: mathutil.SafeDivide(item.TotalAmount, sf),
			Monthly:     monthly,
		})
		if !item.Included {
			summary.ExcludedLines++
			continue
		}
		totals[item.Category] += item.TotalAmount
		if item.TotalAmount > 0 {
			byCategory[item.Category] = append(byCategory[item.Category], monthly)
		}
	}

	timelines := make([][]float64, 0, len(scurve.Categories))
	for _, category := range scurve.Categories {
		// Seed with an empty horizon so every series spans the full project.
		monthly := scurve.AggregateTimelines(append([][]float64{mathutil.Zeros(months)}, byCategory[category]...))
		summary.Categories = append(summary.Categories, CategoryTotal{
			Category: category,
			Label:    scurve.CategoryLabels[category],
			Total:    totals[category],
			Monthly:  monthly,
		})
		summary.GrandTotal += totals[category]
		timelines = append(timelines, monthly)
	}

	summary.Monthly = scurve.AggregateTimelines(timelines)
	summary.Cumulative = scurve.CumulativeSum(summary.Monthly)
	summary.PerUnit = summary.GrandTotal / float64(p.Units())
	summary.PerSF = mathutil.SafeDivide(summary.GrandTotal, sf)
	return summary
}
