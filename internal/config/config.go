// Package config defines the data structures related to configuration and
// includes functions for loading and resolving the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/dev-underwriter/pkg/btr"
	"github.com/iwvelando/dev-underwriter/pkg/constants"
	"github.com/iwvelando/dev-underwriter/pkg/datetime"
	"github.com/iwvelando/dev-underwriter/pkg/floorplans"
	"github.com/iwvelando/dev-underwriter/pkg/scurve"
	"github.com/iwvelando/dev-underwriter/pkg/underwrite"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for an underwriting run.
type Configuration struct {
	Logging  LoggingConfig   `yaml:"logging,omitempty" mapstructure:"logging"`
	Output   OutputConfig    `yaml:"output,omitempty" mapstructure:"output"`
	Deals    []DealConfig    `yaml:"deals,omitempty" mapstructure:"deals"`
	Projects []ProjectConfig `yaml:"projects,omitempty" mapstructure:"projects"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r, such as an
// uploaded file.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Problems that stop a deal or project from running are
// reported as errors by the analysis instead.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	active := 0
	names := make(map[string]bool)
	for _, deal := range c.Deals {
		if deal.Name == "" {
			warnings = append(warnings, "deal with no name")
		} else if names["deal:"+deal.Name] {
			warnings = append(warnings, fmt.Sprintf("deal '%s' is defined more than once", deal.Name))
		}
		names["deal:"+deal.Name] = true

		if !deal.Active {
			continue
		}
		active++
		if deal.Plan != "" {
			if _, ok := floorplans.Find(deal.Plan); !ok {
				warnings = append(warnings, fmt.Sprintf("deal '%s' uses unknown floor plan '%s'", deal.Name, deal.Plan))
			}
		} else if deal.Inputs.SAndB == nil {
			warnings = append(warnings, fmt.Sprintf("deal '%s' has no floor plan and no s_and_b cost", deal.Name))
		}
		if deal.Inputs.ASP == nil {
			warnings = append(warnings, fmt.Sprintf("deal '%s' has no asp", deal.Name))
		}
	}

	for _, project := range c.Projects {
		if project.Name == "" {
			warnings = append(warnings, "project with no name")
		} else if names["project:"+project.Name] {
			warnings = append(warnings, fmt.Sprintf("project '%s' is defined more than once", project.Name))
		}
		names["project:"+project.Name] = true

		if !project.Active {
			continue
		}
		active++
		if project.TotalUnits == 0 {
			warnings = append(warnings, fmt.Sprintf("project '%s' has no total_units; per-unit figures use one unit", project.Name))
		}
		for _, item := range project.Budget.Items {
			if item.Method != "" && !scurve.Method(item.Method).Known() {
				warnings = append(warnings, fmt.Sprintf("project '%s' item '%s' has unknown method '%s' and will fail validation",
					project.Name, item.Name, item.Method))
			}
		}
		for _, bid := range project.Bids {
			if !datetime.ValidDate(bid.Date) {
				warnings = append(warnings, fmt.Sprintf("project '%s' bid from '%s' has invalid date '%s'; expected %s",
					project.Name, bid.Contractor, bid.Date, datetime.DateLayout))
			}
		}
	}

	if active == 0 {
		warnings = append(warnings, "no active deals or projects")
	}
	if c.Output.Format != "" && c.Output.Format != constants.OutputFormatPretty && c.Output.Format != constants.OutputFormatCSV {
		warnings = append(warnings, fmt.Sprintf("unknown output format '%s'", c.Output.Format))
	}
	return warnings
}

// DealConfig is one single-lot deal. Inputs override the standard
// assumptions and the floor plan.
type DealConfig struct {
	Name      string           `yaml:"name" mapstructure:"name"`
	Active    bool             `yaml:"active" mapstructure:"active"`
	Plan      string           `yaml:"plan,omitempty" mapstructure:"plan"`
	Inputs    DealOverrides    `yaml:"inputs,omitempty" mapstructure:"inputs"`
	Optimizer *OptimizerConfig `yaml:"optimizer,omitempty" mapstructure:"optimizer"`
}

// DealOverrides holds optional deal inputs. Unset fields keep their default.
type DealOverrides struct {
	LotPurchasePrice *float64 `yaml:"lot_purchase_price,omitempty" mapstructure:"lot_purchase_price"`
	ClosingCosts     *float64 `yaml:"closing_costs,omitempty" mapstructure:"closing_costs"`
	AcquisitionComm  *float64 `yaml:"acquisition_comm,omitempty" mapstructure:"acquisition_comm"`
	DueDiligence     *float64 `yaml:"due_diligence,omitempty" mapstructure:"due_diligence"`
	OtherAcqCosts    *float64 `yaml:"other_acq_costs,omitempty" mapstructure:"other_acq_costs"`

	DurationDays      *float64 `yaml:"duration_days,omitempty" mapstructure:"duration_days"`
	InterestRate      *float64 `yaml:"interest_rate,omitempty" mapstructure:"interest_rate"`
	CostOfCapitalRate *float64 `yaml:"cost_of_capital_rate,omitempty" mapstructure:"cost_of_capital_rate"`

	PlanSF *float64 `yaml:"plan_sf,omitempty" mapstructure:"plan_sf"`
	SAndB  *float64 `yaml:"s_and_b,omitempty" mapstructure:"s_and_b"`

	SiteSpecific *float64 `yaml:"site_specific,omitempty" mapstructure:"site_specific"`
	SoftCosts    *float64 `yaml:"soft_costs,omitempty" mapstructure:"soft_costs"`
	Contingency  *float64 `yaml:"contingency,omitempty" mapstructure:"contingency"`
	BuilderFee   *float64 `yaml:"rch_builder_fee,omitempty" mapstructure:"rch_builder_fee"`

	HardieColorPlus  *float64 `yaml:"hardie_color_plus,omitempty" mapstructure:"hardie_color_plus"`
	ElevationUpgrade *float64 `yaml:"elevation_upgrade,omitempty" mapstructure:"elevation_upgrade"`
	InteriorPackage  *float64 `yaml:"interior_package,omitempty" mapstructure:"interior_package"`
	MiscUpgrades     *float64 `yaml:"misc_upgrades,omitempty" mapstructure:"misc_upgrades"`

	WaterTap       *float64 `yaml:"water_tap,omitempty" mapstructure:"water_tap"`
	SewerSSSD      *float64 `yaml:"sewer_sssd,omitempty" mapstructure:"sewer_sssd"`
	SewerTap       *float64 `yaml:"sewer_tap,omitempty" mapstructure:"sewer_tap"`
	BuildingPermit *float64 `yaml:"building_permit,omitempty" mapstructure:"building_permit"`
	PlanReview     *float64 `yaml:"plan_review,omitempty" mapstructure:"plan_review"`
	TradePermits   *float64 `yaml:"trade_permits,omitempty" mapstructure:"trade_permits"`
	OtherMuniCosts *float64 `yaml:"other_muni_costs,omitempty" mapstructure:"other_muni_costs"`

	AdditionalSiteWork *float64 `yaml:"additional_site_work,omitempty" mapstructure:"additional_site_work"`

	BuilderWarranty *float64 `yaml:"builder_warranty,omitempty" mapstructure:"builder_warranty"`
	BuildersRisk    *float64 `yaml:"builders_risk,omitempty" mapstructure:"builders_risk"`
	POFee           *float64 `yaml:"po_fee,omitempty" mapstructure:"po_fee"`
	PMFee           *float64 `yaml:"pm_fee,omitempty" mapstructure:"pm_fee"`
	AMFee           *float64 `yaml:"rch_am_fee,omitempty" mapstructure:"rch_am_fee"`
	MiscFixed       *float64 `yaml:"misc_fixed,omitempty" mapstructure:"misc_fixed"`

	ASP                *float64 `yaml:"asp,omitempty" mapstructure:"asp"`
	SellingCostPct     *float64 `yaml:"selling_cost_pct,omitempty" mapstructure:"selling_cost_pct"`
	SellingConcessions *float64 `yaml:"selling_concessions,omitempty" mapstructure:"selling_concessions"`
}

func override(dst *float64, value *float64) {
	if value != nil {
		*dst = *value
	}
}

// Apply copies every set override onto in.
func (o DealOverrides) Apply(in underwrite.DealInputs) underwrite.DealInputs {
	override(&in.LotPurchasePrice, o.LotPurchasePrice)
	override(&in.ClosingCosts, o.ClosingCosts)
	override(&in.AcquisitionComm, o.AcquisitionComm)
	override(&in.DueDiligence, o.DueDiligence)
	override(&in.OtherAcqCosts, o.OtherAcqCosts)

	override(&in.DurationDays, o.DurationDays)
	override(&in.InterestRate, o.InterestRate)
	override(&in.CostOfCapitalRate, o.CostOfCapitalRate)

	override(&in.PlanSF, o.PlanSF)
	override(&in.SAndB, o.SAndB)

	override(&in.SiteSpecific, o.SiteSpecific)
	override(&in.SoftCosts, o.SoftCosts)
	override(&in.Contingency, o.Contingency)
	override(&in.BuilderFee, o.BuilderFee)

	override(&in.HardieColorPlus, o.HardieColorPlus)
	override(&in.ElevationUpgrade, o.ElevationUpgrade)
	override(&in.InteriorPackage, o.InteriorPackage)
	override(&in.MiscUpgrades, o.MiscUpgrades)

	override(&in.WaterTap, o.WaterTap)
	override(&in.SewerSSSD, o.SewerSSSD)
	override(&in.SewerTap, o.SewerTap)
	override(&in.BuildingPermit, o.BuildingPermit)
	override(&in.PlanReview, o.PlanReview)
	override(&in.TradePermits, o.TradePermits)
	override(&in.OtherMuniCosts, o.OtherMuniCosts)

	override(&in.AdditionalSiteWork, o.AdditionalSiteWork)

	override(&in.BuilderWarranty, o.BuilderWarranty)
	override(&in.BuildersRisk, o.BuildersRisk)
	override(&in.POFee, o.POFee)
	override(&in.PMFee, o.PMFee)
	override(&in.AMFee, o.AMFee)
	override(&in.MiscFixed, o.MiscFixed)

	override(&in.ASP, o.ASP)
	override(&in.SellingCostPct, o.SellingCostPct)
	override(&in.SellingConcessions, o.SellingConcessions)
	return in
}

// Resolve builds the deal inputs: standard assumptions, then the floor plan,
// then explicit overrides.
func (d DealConfig) Resolve() (underwrite.DealInputs, error) {
	in := underwrite.DefaultInputs()
	if strings.TrimSpace(d.Plan) != "" {
		plan, ok := floorplans.Find(d.Plan)
		if !ok {
			return in, fmt.Errorf("deal %s: unknown floor plan %q", d.Name, d.Plan)
		}
		in = plan.Apply(in)
	}
	return d.Inputs.Apply(in), nil
}

// ProjectConfig is one build-to-rent community.
type ProjectConfig struct {
	Name               string  `yaml:"name" mapstructure:"name"`
	Active             bool    `yaml:"active" mapstructure:"active"`
	Scope              string  `yaml:"scope,omitempty" mapstructure:"scope"`
	TotalUnits         int     `yaml:"total_units" mapstructure:"total_units"`
	AvgSFPerUnit       float64 `yaml:"avg_sf_per_unit,omitempty" mapstructure:"avg_sf_per_unit"`
	TotalResidentialSF float64 `yaml:"total_residential_sf,omitempty" mapstructure:"total_residential_sf"`
	ConstructionMonths int     `yaml:"construction_months,omitempty" mapstructure:"construction_months"`

	Timeline  TimelineConfig  `yaml:"timeline,omitempty" mapstructure:"timeline"`
	Budget    BudgetConfig    `yaml:"budget,omitempty" mapstructure:"budget"`
	Financing FinancingConfig `yaml:"financing,omitempty" mapstructure:"financing"`
	Income    IncomeConfig    `yaml:"income,omitempty" mapstructure:"income"`
	Bids      []btr.Bid       `yaml:"bids,omitempty" mapstructure:"bids"`
	Fees      FeesConfig      `yaml:"fees,omitempty" mapstructure:"fees"`

	StabilizedNOI *float64 `yaml:"stabilized_noi,omitempty" mapstructure:"stabilized_noi"`
}

// Project returns the sizing portion of the project.
func (p ProjectConfig) Project() btr.Project {
	return btr.Project{
		Name:               p.Name,
		Scope:              btr.Scope(p.Scope),
		TotalUnits:         p.TotalUnits,
		AvgSFPerUnit:       p.AvgSFPerUnit,
		TotalResidentialSF: p.TotalResidentialSF,
		ConstructionMonths: p.ConstructionMonths,
	}
}

// TimelineConfig controls unit starts. Explicit starts win over an even pace.
type TimelineConfig struct {
	BuildDuration   int   `yaml:"build_duration,omitempty" mapstructure:"build_duration"`
	Pace            int   `yaml:"pace,omitempty" mapstructure:"pace"`
	FirstStartMonth int   `yaml:"first_start_month,omitempty" mapstructure:"first_start_month"`
	Starts          []int `yaml:"starts,omitempty" mapstructure:"starts"`
}

// UnitStarts returns the monthly unit starts over the project horizon.
func (t TimelineConfig) UnitStarts(p btr.Project) []int {
	if len(t.Starts) > 0 {
		return t.Starts
	}
	pace := t.Pace
	if pace <= 0 {
		pace = constants.DefaultUnitPace
	}
	first := t.FirstStartMonth
	if first <= 0 {
		first = constants.DefaultFirstStartMonth
	}
	return btr.EvenPaceStarts(p.TotalUnits, p.Months(), pace, first)
}

// Duration is the months from start to delivery, defaulting to five.
func (t TimelineConfig) Duration() int {
	if t.BuildDuration > 0 {
		return t.BuildDuration
	}
	return constants.DefaultBuildDuration
}

// BudgetConfig lists budget items. UseDefaults seeds the standard template,
// priced from PerUnit, ahead of any explicit items.
type BudgetConfig struct {
	UseDefaults bool               `yaml:"use_defaults,omitempty" mapstructure:"use_defaults"`
	PerUnit     map[string]float64 `yaml:"per_unit,omitempty" mapstructure:"per_unit"`
	Items       []BudgetItemConfig `yaml:"items,omitempty" mapstructure:"items"`
}

// BudgetItemConfig is a configured budget line. Items are included unless
// included is set to false.
type BudgetItemConfig struct {
	Category       string  `yaml:"category" mapstructure:"category"`
	Name           string  `yaml:"name" mapstructure:"name"`
	PerUnitAmount  float64 `yaml:"per_unit_amount,omitempty" mapstructure:"per_unit_amount"`
	TotalAmount    float64 `yaml:"total_amount,omitempty" mapstructure:"total_amount"`
	Method         string  `yaml:"method,omitempty" mapstructure:"method"`
	StartMonth     int     `yaml:"start_month,omitempty" mapstructure:"start_month"`
	DurationMonths int     `yaml:"duration_months,omitempty" mapstructure:"duration_months"`
	Rate           string  `yaml:"rate,omitempty" mapstructure:"rate"`
	Included       *bool   `yaml:"included,omitempty" mapstructure:"included"`
	Notes          string  `yaml:"notes,omitempty" mapstructure:"notes"`
}

// BudgetItem converts the configured line. A per-unit amount without a
// total is multiplied out over the project units.
func (b BudgetItemConfig) BudgetItem(p btr.Project) scurve.BudgetItem {
	method := scurve.Method(b.Method)
	if method == "" {
		method = scurve.MethodSCurve
	}
	rate := scurve.Rate(b.Rate)
	if rate == "" {
		rate = scurve.RateModerate5
	}
	total := b.TotalAmount
	if total == 0 && b.PerUnitAmount != 0 {
		total = b.PerUnitAmount * float64(p.Units())
	}
	return scurve.BudgetItem{
		Category:       scurve.Category(b.Category),
		Name:           b.Name,
		PerUnitAmount:  b.PerUnitAmount,
		TotalAmount:    total,
		Method:         method,
		StartMonth:     b.StartMonth,
		DurationMonths: b.DurationMonths,
		Rate:           rate,
		Included:       b.Included == nil || *b.Included,
		Notes:          b.Notes,
	}
}

// BudgetItems returns the full list of budget lines for the project.
func (p ProjectConfig) BudgetItems() []scurve.BudgetItem {
	project := p.Project()
	var items []scurve.BudgetItem
	if p.Budget.UseDefaults {
		items = btr.SeedBudget(project, p.Budget.PerUnit)
	}
	for _, item := range p.Budget.Items {
		items = append(items, item.BudgetItem(project))
	}
	return items
}

// FinancingConfig lists capital stack layers. UseDefaults sizes the standard
// stack against the budget when no layers are given.
type FinancingConfig struct {
	UseDefaults bool                 `yaml:"use_defaults,omitempty" mapstructure:"use_defaults"`
	Layers      []btr.FinancingLayer `yaml:"layers,omitempty" mapstructure:"layers"`
}

// LayersFor returns the configured layers, or the default stack for the cost
// basis when requested.
func (f FinancingConfig) LayersFor(costBasis float64) []btr.FinancingLayer {
	if len(f.Layers) == 0 && f.UseDefaults {
		return btr.DefaultFinancingLayers(costBasis)
	}
	return f.Layers
}

// IncomeConfig lists rents and operating assumptions.
type IncomeConfig struct {
	UseDefaults bool             `yaml:"use_defaults,omitempty" mapstructure:"use_defaults"`
	Rents       []RentConfig     `yaml:"rents,omitempty" mapstructure:"rents"`
	Items       []btr.IncomeItem `yaml:"items,omitempty" mapstructure:"items"`
}

// RentConfig is the rent for one unit type in the product mix.
type RentConfig struct {
	Name        string  `yaml:"name" mapstructure:"name"`
	Units       int     `yaml:"units" mapstructure:"units"`
	MonthlyRent float64 `yaml:"monthly_rent" mapstructure:"monthly_rent"`
}

// IncomeItems returns rent rows followed by the default and explicit
// assumptions.
func (i IncomeConfig) IncomeItems() []btr.IncomeItem {
	var items []btr.IncomeItem
	for _, rent := range i.Rents {
		items = append(items, btr.RentRow(rent.Name, rent.Units, rent.MonthlyRent))
	}
	if i.UseDefaults {
		items = append(items, btr.DefaultIncomeItems()...)
	}
	return append(items, i.Items...)
}

// FeesConfig lists builder fee income.
type FeesConfig struct {
	UseDefaults bool      `yaml:"use_defaults,omitempty" mapstructure:"use_defaults"`
	Items       []btr.Fee `yaml:"items,omitempty" mapstructure:"items"`
}

// FeesFor returns the default profile for the unit count, when requested,
// followed by explicit fees.
func (f FeesConfig) FeesFor(totalUnits int) []btr.Fee {
	var fees []btr.Fee
	if f.UseDefaults {
		fees = btr.DefaultFees(totalUnits)
	}
	return append(fees, f.Items...)
}
