package scurve

// Method selects how a budget line item is spread over the timeline.
type Method string

// Forecast methods.
const (
	MethodSCurve       Method = "s_curve"
	MethodStraightLine Method = "straight_line"
	MethodManualInput  Method = "manual_input"
)

// Known reports whether m is a recognized forecast method.
func (m Method) Known() bool {
	switch m {
	case MethodSCurve, MethodStraightLine, MethodManualInput:
		return true
	}
	return false
}

// Category groups development budget line items.
type Category string

// Budget categories, in presentation order.
const (
	CategoryLand             Category = "land"
	CategoryHorizontal       Category = "horizontal"
	CategoryVertical         Category = "vertical"
	CategorySoftCost         Category = "soft_cost"
	CategoryClosingFinancing Category = "closing_financing"
)

// Categories lists every budget category in presentation order.
var Categories = []Category{
	CategoryLand,
	CategoryHorizontal,
	CategoryVertical,
	CategorySoftCost,
	CategoryClosingFinancing,
}

// Known reports whether c is a recognized category.
func (c Category) Known() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// BudgetItem is one line of a BTR development budget.
type BudgetItem struct {
	Category       Category `json:"category"`
	Name           string   `json:"line_item_name"`
	PerUnitAmount  float64  `json:"per_unit_amount"`
	TotalAmount    float64  `json:"total_amount"`
	Method         Method   `json:"forecast_method"`
	StartMonth     int      `json:"start_month"`
	DurationMonths int      `json:"duration_months"`
	Rate           Rate     `json:"s_curve_rate"`
	Included       bool     `json:"is_included"`
	Notes          string   `json:"notes,omitempty"`
}

// EndMonth is the last (0-indexed) month the item spends in.
func (b BudgetItem) EndMonth() int {
	return b.StartMonth + b.DurationMonths - 1
}

// RateLabels are display names for the named steepness buckets.
var RateLabels = map[Rate]string{
	RateFlat1:            "Flat (1)",
	RateModeratelyFlat3:  "Mod. Flat (3)",
	RateModerate5:        "Moderate (5)",
	RateModeratelySteep7: "Mod. Steep (7)",
	RateSteep9:           "Steep (9)",
}

// MethodLabels are display names for forecast methods.
var MethodLabels = map[Method]string{
	MethodSCurve:       "S-Curve",
	MethodManualInput:  "Manual (Lump)",
	MethodStraightLine: "Straight Line",
}

// CategoryLabels are display names for budget categories.
var CategoryLabels = map[Category]string{
	CategoryLand:             "Land Acquisition",
	CategoryHorizontal:       "Horizontal Development",
	CategoryVertical:         "Vertical Construction",
	CategorySoftCost:         "Soft Costs",
	CategoryClosingFinancing: "Closing & Financing",
}

// DefaultBudgetItems returns the template line items for a new BTR project.
// Amounts are left at zero and every item is included.
func DefaultBudgetItems() []BudgetItem {
	item := func(c Category, name string, m Method, r Rate, start, duration int) BudgetItem {
		return BudgetItem{
			Category:       c,
			Name:           name,
			Method:         m,
			Rate:           r,
			StartMonth:     start,
			DurationMonths: duration,
			Included:       true,
		}
	}

	return []BudgetItem{
		item(CategoryLand, "Purchase Price", MethodManualInput, RateFlat1, 0, 1),
		item(CategoryLand, "Closing Costs", MethodManualInput, RateFlat1, 0, 1),
		item(CategoryLand, "Entitlement Costs", MethodManualInput, RateFlat1, 0, 1),

		item(CategoryHorizontal, "Grading & Clearing", MethodSCurve, RateModeratelySteep7, 1, 4),
		item(CategoryHorizontal, "Storm Water", MethodSCurve, RateModerate5, 2, 6),
		item(CategoryHorizontal, "Sanitary Sewer", MethodSCurve, RateModerate5, 2, 5),
		item(CategoryHorizontal, "Water Lines", MethodSCurve, RateModerate5, 2, 5),
		item(CategoryHorizontal, "Roads & Paving", MethodSCurve, RateModeratelySteep7, 4, 8),
		item(CategoryHorizontal, "Landscape & Irrigation", MethodSCurve, RateSteep9, 10, 6),
		item(CategoryHorizontal, "Amenity Construction", MethodSCurve, RateModerate5, 6, 10),

		item(CategoryVertical, "Vertical Hard Costs (S&B)", MethodSCurve, RateModerate5, 3, 18),
		item(CategoryVertical, "Site Specific per Unit", MethodSCurve, RateModerate5, 3, 18),
		item(CategoryVertical, "Upgrades & BTR Specs", MethodSCurve, RateModerate5, 3, 18),

		item(CategorySoftCost, "Architecture & Engineering", MethodSCurve, RateModeratelyFlat3, 0, 6),
		item(CategorySoftCost, "Permits & Impact Fees", MethodSCurve, RateModeratelyFlat3, 1, 12),
		item(CategorySoftCost, "Legal & Accounting", MethodStraightLine, RateFlat1, 0, 24),
		item(CategorySoftCost, "Insurance", MethodStraightLine, RateFlat1, 0, 24),
		item(CategorySoftCost, "Property Taxes (Construction)", MethodStraightLine, RateFlat1, 0, 24),
		item(CategorySoftCost, "Marketing & Lease-Up", MethodSCurve, RateSteep9, 12, 12),

		item(CategoryClosingFinancing, "Loan Origination", MethodManualInput, RateFlat1, 0, 1),
		item(CategoryClosingFinancing, "Construction Interest Reserve", MethodStraightLine, RateFlat1, 0, 24),
		item(CategoryClosingFinancing, "Operating Reserve", MethodManualInput, RateFlat1, 0, 1),
	}
}
