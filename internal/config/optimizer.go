package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/dev-underwriter/pkg/constants"
)

const (
	OptimizerFieldLotPrice = "lot_purchase_price"

	OptimizerKindMarginFloor = "margin_floor"
	OptimizerTargetNPM       = "npm"

	defaultTargetMargin    = constants.ProceedMargin
	defaultToleranceAmount = 1.0
	defaultMaxIterations   = 60
)

// OptimizerConfig defines a single-parameter optimization directive. The
// only supported search finds the highest lot price that still earns the
// target margin.
type OptimizerConfig struct {
	Field         string   `yaml:"field,omitempty" mapstructure:"field"`
	Kind          string   `yaml:"kind,omitempty" mapstructure:"kind"`
	Target        string   `yaml:"target,omitempty" mapstructure:"target"`
	TargetMargin  *float64 `yaml:"targetMargin,omitempty" mapstructure:"targetMargin"`
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerField returns the canonical identifier for an optimizer field.
func CanonicalOptimizerField(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return OptimizerFieldLotPrice
	}
	switch strings.ToLower(trimmed) {
	case "lot_purchase_price", "lotpurchaseprice", "lot-purchase-price", "lot_price", "lotprice":
		return OptimizerFieldLotPrice
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Field = CanonicalOptimizerField(o.Field)

	o.Kind = strings.ToLower(strings.TrimSpace(o.Kind))
	if o.Kind == "" {
		o.Kind = OptimizerKindMarginFloor
	}

	o.Target = strings.ToLower(strings.TrimSpace(o.Target))
	if o.Target == "" {
		o.Target = OptimizerTargetNPM
	}

	if o.TargetMargin == nil {
		margin := defaultTargetMargin
		o.TargetMargin = &margin
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultToleranceAmount
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	if o.Field != OptimizerFieldLotPrice {
		return fmt.Errorf("optimizer field %q is not supported", o.Field)
	}
	if o.Kind != OptimizerKindMarginFloor {
		return fmt.Errorf("optimizer kind %q is not supported", o.Kind)
	}
	if o.Target != OptimizerTargetNPM {
		return fmt.Errorf("optimizer target %q is not supported", o.Target)
	}
	if *o.TargetMargin >= 1 {
		return fmt.Errorf("optimizer target margin %.4f must be below 1", *o.TargetMargin)
	}
	if o.Min != nil && *o.Min < 0 {
		return fmt.Errorf("optimizer minimum %.2f must not be negative", *o.Min)
	}
	if o.Min != nil && o.Max != nil && *o.Min >= *o.Max {
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	return nil
}

// Bounds returns the search interval. The lot price defaults to running from
// zero up to the asking price.
func (o *OptimizerConfig) Bounds(asp float64) (float64, float64) {
	lower, upper := 0.0, asp
	if o.Min != nil {
		lower = *o.Min
	}
	if o.Max != nil {
		upper = *o.Max
	}
	return lower, upper
}
