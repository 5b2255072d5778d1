// Package validation checks inputs at the edges of the underwriting engines.
// The engines themselves never validate; callers run these checks first and
// report every violation at once.
package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/dev-underwriter/pkg/btr"
	"github.com/iwvelando/dev-underwriter/pkg/constants"
	"github.com/iwvelando/dev-underwriter/pkg/scurve"
	"github.com/iwvelando/dev-underwriter/pkg/underwrite"
	"go.uber.org/multierr"
)

type field struct {
	name  string
	value float64
}

func nonNegative(fields []field) error {
	var err error
	for _, f := range fields {
		switch {
		case math.IsNaN(f.value) || math.IsInf(f.value, 0):
			err = multierr.Append(err, fmt.Errorf("%s must be a finite number", f.name))
		case f.value < 0:
			err = multierr.Append(err, fmt.Errorf("%s must not be negative, got %v", f.name, f.value))
		}
	}
	return err
}

// ValidateDeal checks deal inputs before they are underwritten and returns
// every problem found as a single combined error.
func ValidateDeal(in underwrite.DealInputs) error {
	var err error

	if !(in.ASP > 0) {
		err = multierr.Append(err, fmt.Errorf("asp must be greater than zero, got %v", in.ASP))
	}
	if !(in.DurationDays > 0) {
		err = multierr.Append(err, fmt.Errorf("duration_days must be greater than zero, got %v", in.DurationDays))
	}
	if in.SellingCostPct+constants.MinMarginFloor >= 1 {
		err = multierr.Append(err, fmt.Errorf("selling_cost_pct of %v leaves no room for a %v margin",
			in.SellingCostPct, constants.MinMarginFloor))
	}

	err = multierr.Append(err, nonNegative([]field{
		{"lot_purchase_price", in.LotPurchasePrice},
		{"closing_costs", in.ClosingCosts},
		{"acquisition_comm", in.AcquisitionComm},
		{"due_diligence", in.DueDiligence},
		{"other_acq_costs", in.OtherAcqCosts},
		{"interest_rate", in.InterestRate},
		{"cost_of_capital_rate", in.CostOfCapitalRate},
		{"plan_sf", in.PlanSF},
		{"s_and_b", in.SAndB},
		{"site_specific", in.SiteSpecific},
		{"soft_costs", in.SoftCosts},
		{"contingency", in.Contingency},
		{"rch_builder_fee", in.BuilderFee},
		{"hardie_color_plus", in.HardieColorPlus},
		{"elevation_upgrade", in.ElevationUpgrade},
		{"interior_package", in.InteriorPackage},
		{"misc_upgrades", in.MiscUpgrades},
		{"water_tap", in.WaterTap},
		{"sewer_sssd", in.SewerSSSD},
		{"sewer_tap", in.SewerTap},
		{"building_permit", in.BuildingPermit},
		{"plan_review", in.PlanReview},
		{"trade_permits", in.TradePermits},
		{"other_muni_costs", in.OtherMuniCosts},
		{"additional_site_work", in.AdditionalSiteWork},
		{"builder_warranty", in.BuilderWarranty},
		{"builders_risk", in.BuildersRisk},
		{"po_fee", in.POFee},
		{"pm_fee", in.PMFee},
		{"rch_am_fee", in.AMFee},
		{"misc_fixed", in.MiscFixed},
		{"selling_cost_pct", in.SellingCostPct},
		{"selling_concessions", in.SellingConcessions},
	}))

	return err
}

// CheckResults reports any headline result that is not a finite number.
func CheckResults(r underwrite.DealResults) error {
	var err error
	for _, f := range []field{
		{"total_project_cost", r.TotalProjectCost},
		{"total_all_in_cost", r.TotalAllInCost},
		{"net_profit", r.NetProfit},
		{"npm", r.NPM},
		{"land_cost_ratio", r.LandCostRatio},
		{"breakeven_asp", r.BreakevenASP},
		{"min_asp_5pct", r.MinASP5Pct},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			err = multierr.Append(err, fmt.Errorf("%s is not finite (%v)", f.name, f.value))
		}
	}
	for _, s := range r.Sensitivities() {
		if math.IsNaN(s.NPM) || math.IsInf(s.NPM, 0) {
			err = multierr.Append(err, fmt.Errorf("%s margin is not finite (%v)", s.Name, s.NPM))
		}
	}
	return err
}

// ValidateBudgetItem checks one budget line item. Excluded items are still
// checked so that toggling them back on cannot surprise the caller.
func ValidateBudgetItem(item scurve.BudgetItem) error {
	var err error
	label := item.Name
	if label == "" {
		label = "unnamed item"
	}

	if !item.Category.Known() {
		err = multierr.Append(err, fmt.Errorf("%s: unknown category %q", label, item.Category))
	}
	if !item.Method.Known() {
		err = multierr.Append(err, fmt.Errorf("%s: unknown forecast method %q", label, item.Method))
	}
	if item.Method == scurve.MethodSCurve && item.Rate != "" && !item.Rate.Known() {
		err = multierr.Append(err, fmt.Errorf("%s: unknown s-curve rate %q", label, item.Rate))
	}
	if item.StartMonth < 0 {
		err = multierr.Append(err, fmt.Errorf("%s: start_month must not be negative, got %d", label, item.StartMonth))
	} else if item.StartMonth > constants.MaxProjectMonths {
		err = multierr.Append(err, fmt.Errorf("%s: start_month must be at most %d, got %d", label, constants.MaxProjectMonths, item.StartMonth))
	}
	if item.Method != scurve.MethodManualInput && item.DurationMonths < 1 {
		err = multierr.Append(err, fmt.Errorf("%s: duration_months must be at least 1, got %d", label, item.DurationMonths))
	} else if item.DurationMonths > constants.MaxProjectMonths {
		err = multierr.Append(err, fmt.Errorf("%s: duration_months must be at most %d, got %d", label, constants.MaxProjectMonths, item.DurationMonths))
	}
	if item.TotalAmount < 0 || item.PerUnitAmount < 0 {
		err = multierr.Append(err, fmt.Errorf("%s: amounts must not be negative", label))
	}
	return err
}

// ValidateProject checks a project and each of its budget items.
func ValidateProject(p btr.Project, items []scurve.BudgetItem) error {
	var err error

	if p.TotalUnits < 0 {
		err = multierr.Append(err, fmt.Errorf("total_units must not be negative, got %d", p.TotalUnits))
	}
	if p.ConstructionMonths < 0 {
		err = multierr.Append(err, fmt.Errorf("construction_months must not be negative, got %d", p.ConstructionMonths))
	} else if p.ConstructionMonths > constants.MaxProjectMonths {
		err = multierr.Append(err, fmt.Errorf("construction_months must be at most %d, got %d", constants.MaxProjectMonths, p.ConstructionMonths))
	}
	if p.Scope != "" && p.Scope != btr.ScopeVerticalOnly && p.Scope != btr.ScopeHorizontalAndVertical {
		err = multierr.Append(err, fmt.Errorf("unknown scope %q", p.Scope))
	}
	err = multierr.Append(err, nonNegative([]field{
		{"avg_sf_per_unit", p.AvgSFPerUnit},
		{"total_residential_sf", p.TotalResidentialSF},
	}))

	for _, item := range items {
		err = multierr.Append(err, ValidateBudgetItem(item))
	}
	return err
}

// ValidateFinancing checks the capital stack layers.
func ValidateFinancing(layers []btr.FinancingLayer) error {
	var err error
	for i, l := range layers {
		if !l.Type.Known() {
			err = multierr.Append(err, fmt.Errorf("financing layer %d: unknown type %q", i+1, l.Type))
		}
		if l.Amount < 0 || l.InterestRate < 0 || l.OriginationFeePct < 0 {
			err = multierr.Append(err, fmt.Errorf("financing layer %d (%s): amounts and rates must not be negative", i+1, l.Type))
		}
		if l.TermMonths < 0 || l.AmortizationMonths < 0 {
			err = multierr.Append(err, fmt.Errorf("financing layer %d (%s): months must not be negative", i+1, l.Type))
		}
	}
	return err
}

// ValidateOutputFormat checks that a report format is one the output package renders.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	default:
		return fmt.Errorf("output format must be %s or %s, got %q",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
}
