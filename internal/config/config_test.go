package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/dev-underwriter/pkg/btr"
	"github.com/iwvelando/dev-underwriter/pkg/scurve"
)

const sampleConfig = `
logging:
  level: debug
  format: console
output:
  format: csv
deals:
  - name: Willow on Elm St
    active: true
    plan: willow
    inputs:
      lot_purchase_price: 85000
      asp: 400000
      contingency: 9000
    optimizer:
      targetMargin: 0.08
  - name: Parked
    active: false
    inputs:
      asp: 1
projects:
  - name: Cedar Ridge
    active: true
    scope: horizontal_and_vertical
    total_units: 40
    avg_sf_per_unit: 1500
    construction_months: 18
    timeline:
      pace: 8
    budget:
      use_defaults: true
      per_unit:
        Vertical Hard Costs (S&B): 150000
      items:
        - category: soft_cost
          name: Survey
          total_amount: 25000
          method: straight_line
          duration_months: 5
        - category: land
          name: Option Fee
          total_amount: 10000
          method: manual_input
          included: false
    financing:
      use_defaults: true
    income:
      use_defaults: true
      rents:
        - name: 3BR
          units: 40
          monthly_rent: 2100
    bids:
      - contractor: Acme Sitework
        amount: 1200000
        selected: true
    fees:
      use_defaults: true
`

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if len(conf.Deals) != 2 || len(conf.Projects) != 1 {
		t.Fatalf("expected 2 deals and 1 project, got %d and %d", len(conf.Deals), len(conf.Projects))
	}
	if conf.Output.Format != "csv" || conf.Logging.Level != "debug" {
		t.Errorf("unexpected logging/output: %+v %+v", conf.Logging, conf.Output)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	deal := conf.Deals[0]
	if !deal.Active || deal.Plan != "willow" {
		t.Errorf("deal = %+v", deal)
	}
	if deal.Inputs.LotPurchasePrice == nil || *deal.Inputs.LotPurchasePrice != 85000 {
		t.Errorf("lot_purchase_price not decoded: %v", deal.Inputs.LotPurchasePrice)
	}
	if deal.Inputs.InterestRate != nil {
		t.Errorf("interest_rate should be unset, got %v", *deal.Inputs.InterestRate)
	}
	if deal.Optimizer == nil || deal.Optimizer.TargetMargin == nil || *deal.Optimizer.TargetMargin != 0.08 {
		t.Errorf("optimizer not decoded: %+v", deal.Optimizer)
	}

	project := conf.Projects[0]
	if project.TotalUnits != 40 || project.ConstructionMonths != 18 || project.Timeline.Pace != 8 {
		t.Errorf("project sizing not decoded: %+v", project)
	}
	if len(project.Income.Rents) != 1 || project.Income.Rents[0].MonthlyRent != 2100 {
		t.Errorf("rents not decoded: %+v", project.Income.Rents)
	}
	if len(project.Bids) != 1 || !project.Bids[0].Selected || project.Bids[0].Amount != 1200000 {
		t.Errorf("bids not decoded: %+v", project.Bids)
	}
}

func TestLoadConfigurationFromReaderInvalid(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("deals: [unterminated")); err == nil {
		t.Error("LoadConfigurationFromReader() expected error for malformed YAML")
	}
}

func TestDealConfigResolve(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	in, err := conf.Deals[0].Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	tests := []struct {
		name     string
		actual   float64
		expected float64
	}{
		{"Plan S&B", in.SAndB, 143200},
		{"Plan SF", in.PlanSF, 1916},
		{"Lot override", in.LotPurchasePrice, 85000},
		{"ASP override", in.ASP, 400000},
		{"Contingency override", in.Contingency, 9000},
		{"Default interest", in.InterestRate, 0.0975},
		{"Default duration", in.DurationDays, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.actual != tt.expected {
				t.Errorf("got %v, expected %v", tt.actual, tt.expected)
			}
		})
	}
	if in.PlanName != "WILLOW" {
		t.Errorf("PlanName = %q, expected WILLOW", in.PlanName)
	}
}

func TestDealConfigResolveOverridesPlan(t *testing.T) {
	sb := 150000.0
	d := DealConfig{Name: "Custom", Plan: "BIRCH", Inputs: DealOverrides{SAndB: &sb}}
	in, err := d.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if in.SAndB != 150000 || in.PlanSF != 1671 {
		t.Errorf("Resolve() = S&B %v, SF %v", in.SAndB, in.PlanSF)
	}

	if _, err := (DealConfig{Name: "Bad", Plan: "BAOBAB"}).Resolve(); err == nil {
		t.Error("Resolve() expected error for unknown plan")
	}
}

func TestProjectConfigBudgetItems(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	project := conf.Projects[0]
	items := project.BudgetItems()

	if len(items) != 24 {
		t.Fatalf("expected 22 default items plus 2 configured, got %d", len(items))
	}

	var sb, survey, option scurve.BudgetItem
	for _, item := range items {
		switch item.Name {
		case "Vertical Hard Costs (S&B)":
			sb = item
		case "Survey":
			survey = item
		case "Option Fee":
			option = item
		}
	}
	if sb.TotalAmount != 6000000 || sb.DurationMonths != 18 {
		t.Errorf("S&B item = %+v", sb)
	}
	if !survey.Included || survey.Method != scurve.MethodStraightLine || survey.Rate != scurve.RateModerate5 {
		t.Errorf("survey item = %+v", survey)
	}
	if option.Included {
		t.Error("option fee should be excluded")
	}
}

func TestBudgetItemConfigPerUnit(t *testing.T) {
	item := BudgetItemConfig{Category: "vertical", Name: "Upgrades", PerUnitAmount: 2500}.BudgetItem(btr.Project{TotalUnits: 12})
	if item.TotalAmount != 30000 || item.Method != scurve.MethodSCurve {
		t.Errorf("BudgetItem() = %+v", item)
	}
}

func TestTimelineConfig(t *testing.T) {
	p := btr.Project{TotalUnits: 20, ConstructionMonths: 6}

	starts := TimelineConfig{}.UnitStarts(p)
	expected := []int{0, 0, 10, 10, 0, 0}
	for i := range expected {
		if starts[i] != expected[i] {
			t.Fatalf("UnitStarts() = %v, expected %v", starts, expected)
		}
	}

	manual := TimelineConfig{Starts: []int{5, 5}}.UnitStarts(p)
	if len(manual) != 2 {
		t.Errorf("explicit starts should win, got %v", manual)
	}

	if d := (TimelineConfig{}).Duration(); d != 5 {
		t.Errorf("Duration() = %d, expected 5", d)
	}
}

func TestFinancingIncomeAndFees(t *testing.T) {
	layers := FinancingConfig{UseDefaults: true}.LayersFor(1000000)
	if len(layers) != 3 || layers[0].Amount != 700000 {
		t.Errorf("LayersFor() = %+v", layers)
	}
	if got := (FinancingConfig{}).LayersFor(1000000); len(got) != 0 {
		t.Errorf("LayersFor() without defaults = %+v", got)
	}

	income := IncomeConfig{UseDefaults: true, Rents: []RentConfig{{Name: "2BR", Units: 10, MonthlyRent: 1800}}}.IncomeItems()
	if len(income) != 1+len(btr.DefaultIncomeItems()) || income[0].AnnualAmount != 216000 {
		t.Errorf("IncomeItems() = %+v", income)
	}

	fees := FeesConfig{UseDefaults: true, Items: []btr.Fee{{Type: btr.OtherFee, Included: true, TotalAmount: 100}}}.FeesFor(4)
	if len(fees) != 5 || fees[0].TotalAmount != 68000 {
		t.Errorf("FeesFor() = %+v", fees)
	}
}

func TestValidateConfiguration(t *testing.T) {
	asp := 400000.0
	tests := []struct {
		name          string
		conf          Configuration
		expectedCount int
		contains      string
	}{
		{
			name: "Clean configuration",
			conf: Configuration{Deals: []DealConfig{
				{Name: "A", Active: true, Plan: "WILLOW", Inputs: DealOverrides{ASP: &asp}},
			}},
			expectedCount: 0,
		},
		{
			name:          "Nothing active",
			conf:          Configuration{Deals: []DealConfig{{Name: "A", Plan: "WILLOW"}}},
			expectedCount: 1,
			contains:      "no active",
		},
		{
			name: "Unknown plan and missing asp",
			conf: Configuration{Deals: []DealConfig{
				{Name: "A", Active: true, Plan: "BAOBAB"},
			}},
			expectedCount: 2,
			contains:      "BAOBAB",
		},
		{
			name: "Duplicate names and bad output",
			conf: Configuration{
				Output: OutputConfig{Format: "json"},
				Deals: []DealConfig{
					{Name: "A", Plan: "WILLOW"},
					{Name: "A", Plan: "WILLOW"},
				},
				Projects: []ProjectConfig{{Name: "P", Active: true, TotalUnits: 10}},
			},
			expectedCount: 2,
			contains:      "more than once",
		},
		{
			name: "Project with unknown method and no units",
			conf: Configuration{Projects: []ProjectConfig{{
				Name:   "P",
				Active: true,
				Budget: BudgetConfig{Items: []BudgetItemConfig{{Name: "X", Method: "front_loaded"}}},
			}}},
			expectedCount: 2,
			contains:      "front_loaded",
		},
		{
			name: "Bid with a malformed date",
			conf: Configuration{Projects: []ProjectConfig{{
				Name:       "P",
				Active:     true,
				TotalUnits: 10,
				Bids: []btr.Bid{
					{Contractor: "Acme", Date: "2025-03-01", Amount: 100},
					{Contractor: "Birch", Date: "March 1st", Amount: 200},
					{Contractor: "Cobalt", Amount: 300},
				},
			}}},
			expectedCount: 1,
			contains:      "Birch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.conf.ValidateConfiguration()
			if len(warnings) != tt.expectedCount {
				t.Fatalf("ValidateConfiguration() = %v, expected %d warnings", warnings, tt.expectedCount)
			}
			if tt.contains != "" && !strings.Contains(strings.Join(warnings, "\n"), tt.contains) {
				t.Errorf("warnings %v should mention %q", warnings, tt.contains)
			}
		})
	}
}
