package btr

// FeeType identifies a builder fee income stream.
type FeeType string

// Fee types.
const (
	BuilderFee       FeeType = "builder_fee"
	StaffedPositions FeeType = "staffed_positions"
	CMFee            FeeType = "cm_fee"
	DeveloperFee     FeeType = "developer_fee"
	OtherFee         FeeType = "other"
)

// FeeStructure describes how a fee is priced.
type FeeStructure string

// Fee structures.
const (
	FeeFlat       FeeStructure = "flat"
	FeeGMP        FeeStructure = "gmp"
	FeeCostPlus   FeeStructure = "cost_plus"
	FeePercentage FeeStructure = "percentage"
)

// Fee is one fee earned on the project.
type Fee struct {
	Type          FeeType      `json:"fee_type" mapstructure:"type"`
	Included      bool         `json:"is_included" mapstructure:"included"`
	PerUnitAmount float64      `json:"per_unit_amount" mapstructure:"per_unit_amount"`
	TotalAmount   float64      `json:"total_amount" mapstructure:"total_amount"`
	Structure     FeeStructure `json:"fee_structure" mapstructure:"structure"`
	Notes         string       `json:"notes,omitempty" mapstructure:"notes"`
}

// Total is the fee's project total, derived from the per-unit amount when
// no total is set.
func (f Fee) Total(totalUnits int) float64 {
	if f.TotalAmount != 0 {
		return f.TotalAmount
	}
	return f.PerUnitAmount * float64(totalUnits)
}

// FeeSummary is the included fee income.
type FeeSummary struct {
	IncludedCount int     `json:"included_count"`
	Total         float64 `json:"total"`
	PerUnit       float64 `json:"per_unit"`
}

// SummarizeFees totals included fees. Per-unit income is zero without units.
func SummarizeFees(fees []Fee, totalUnits int) FeeSummary {
	var s FeeSummary
	for _, f := range fees {
		if !f.Included {
			continue
		}
		s.IncludedCount++
		s.Total += f.Total(totalUnits)
	}
	if totalUnits > 0 {
		s.PerUnit = s.Total / float64(totalUnits)
	}
	return s
}

// DefaultFees is the standard fee profile: builder and staffing fees per
// unit, with construction management and developer fees switched off.
func DefaultFees(totalUnits int) []Fee {
	units := float64(totalUnits)
	return []Fee{
		{Type: BuilderFee, Included: true, PerUnitAmount: 17000, TotalAmount: 17000 * units, Structure: FeeFlat, Notes: "Standard builder fee"},
		{Type: StaffedPositions, Included: true, PerUnitAmount: 5000, TotalAmount: 5000 * units, Structure: FeeFlat, Notes: "Super + PM + PO allocated"},
		{Type: CMFee, Structure: FeePercentage},
		{Type: DeveloperFee, Structure: FeeFlat},
	}
}
