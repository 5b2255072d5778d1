// Package floorplans holds the builder's floor plan catalog and its
// sticks-and-bricks (S&B) contract costs.
package floorplans

import (
	"strconv"
	"strings"

	"github.com/iwvelando/dev-underwriter/pkg/underwrite"
)

// Type distinguishes detached homes from townhomes.
type Type string

// Plan types.
const (
	SingleFamily Type = "SFH"
	Townhome     Type = "TH"
)

// Plan is one catalog floor plan.
type Plan struct {
	Name    string  `json:"name"`
	SF      float64 `json:"sf"`
	Bed     int     `json:"bed"`
	Bath    float64 `json:"bath"`
	Garage  string  `json:"garage"`
	Stories int     `json:"stories"`
	Width   string  `json:"width"`
	SAndB   float64 `json:"s_and_b"`
	Type    Type    `json:"type"`
}

// WidthFeet returns the lot width in whole feet, or 0 when it cannot be read.
func (p Plan) WidthFeet() int {
	digits := strings.TrimRight(strings.TrimSpace(p.Width), "'")
	feet, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return feet
}

// Apply copies the plan's name, size and S&B cost onto deal inputs.
func (p Plan) Apply(in underwrite.DealInputs) underwrite.DealInputs {
	in.PlanName = p.Name
	in.PlanSF = p.SF
	in.SAndB = p.SAndB
	return in
}

// catalog is the current S&B-only budget.
var catalog = []Plan{
	{Name: "MAGNOLIA", SF: 2705, Bed: 5, Bath: 3, Garage: "2-Car", Stories: 2, Width: "38'", SAndB: 173255, Type: SingleFamily},
	{Name: "CHERRY", SF: 2214, Bed: 4, Bath: 3, Garage: "2-Car", Stories: 2, Width: "38'", SAndB: 156913, Type: SingleFamily},
	{Name: "RED OAK", SF: 2217, Bed: 4, Bath: 3, Garage: "2-Car", Stories: 2, Width: "38'", SAndB: 157800, Type: SingleFamily},
	{Name: "ASPEN", SF: 2597, Bed: 5, Bath: 3, Garage: "2-Car", Stories: 2, Width: "40'", SAndB: 170100, Type: SingleFamily},
	{Name: "WILLOW", SF: 1916, Bed: 4, Bath: 3, Garage: "2-Car", Stories: 2, Width: "38'", SAndB: 143200, Type: SingleFamily},
	{Name: "BIRCH", SF: 1671, Bed: 3, Bath: 2, Garage: "2-Car", Stories: 1, Width: "52'", SAndB: 131800, Type: SingleFamily},
	{Name: "JUNIPER", SF: 1454, Bed: 3, Bath: 2, Garage: "2-Car", Stories: 1, Width: "46'", SAndB: 120500, Type: SingleFamily},
	{Name: "SPRUCE", SF: 1265, Bed: 3, Bath: 2, Garage: "2-Car", Stories: 1, Width: "42'", SAndB: 107200, Type: SingleFamily},
	{Name: "SYCAMORE", SF: 2033, Bed: 4, Bath: 3, Garage: "2-Car", Stories: 2, Width: "34'", SAndB: 148700, Type: SingleFamily},
	{Name: "POPLAR", SF: 2471, Bed: 5, Bath: 3, Garage: "2-Car", Stories: 2, Width: "40'", SAndB: 164300, Type: SingleFamily},
	{Name: "CYPRESS", SF: 2837, Bed: 5, Bath: 4, Garage: "2-Car", Stories: 2, Width: "44'", SAndB: 181400, Type: SingleFamily},
	{Name: "BANYAN", SF: 2965, Bed: 5, Bath: 4, Garage: "2-Car", Stories: 3, Width: "30'", SAndB: 284600, Type: SingleFamily},
	{Name: "PINYON", SF: 3118, Bed: 5, Bath: 4, Garage: "3-Car", Stories: 2, Width: "52'", SAndB: 198500, Type: SingleFamily},
	{Name: "HAZEL", SF: 1546, Bed: 3, Bath: 2, Garage: "2-Car", Stories: 1, Width: "48'", SAndB: 125600, Type: SingleFamily},
	{Name: "OLIVE", SF: 1800, Bed: 3, Bath: 2, Garage: "2-Car", Stories: 1, Width: "54'", SAndB: 138900, Type: SingleFamily},
	{Name: "ELM", SF: 2102, Bed: 4, Bath: 3, Garage: "2-Car", Stories: 2, Width: "36'", SAndB: 152100, Type: SingleFamily},

	{Name: "CEDAR TH", SF: 1523, Bed: 3, Bath: 3, Garage: "1-Car", Stories: 2, Width: "22'", SAndB: 119400, Type: Townhome},
	{Name: "MAPLE TH", SF: 1298, Bed: 2, Bath: 3, Garage: "1-Car", Stories: 2, Width: "20'", SAndB: 108700, Type: Townhome},
	{Name: "ASH TH", SF: 1680, Bed: 3, Bath: 3, Garage: "1-Car", Stories: 2, Width: "24'", SAndB: 130200, Type: Townhome},
	{Name: "OAK TH", SF: 1856, Bed: 4, Bath: 3, Garage: "1-Car", Stories: 3, Width: "22'", SAndB: 142800, Type: Townhome},
}

// All returns a copy of the catalog.
func All() []Plan {
	plans := make([]Plan, len(catalog))
	copy(plans, catalog)
	return plans
}

// Find looks a plan up by name, ignoring case and surrounding space.
func Find(name string) (Plan, bool) {
	trimmed := strings.TrimSpace(name)
	for _, p := range catalog {
		if strings.EqualFold(p.Name, trimmed) {
			return p, true
		}
	}
	return Plan{}, false
}

// Criteria narrows the catalog. Zero values do not filter.
type Criteria struct {
	Type     Type
	MinSF    float64
	MaxSF    float64
	MinBed   int
	MaxWidth int
}

// Filter returns the plans matching every set criterion, in catalog order.
func Filter(c Criteria) []Plan {
	var plans []Plan
	for _, p := range catalog {
		if c.Type != "" && p.Type != c.Type {
			continue
		}
		if c.MinSF > 0 && p.SF < c.MinSF {
			continue
		}
		if c.MaxSF > 0 && p.SF > c.MaxSF {
			continue
		}
		if c.MinBed > 0 && p.Bed < c.MinBed {
			continue
		}
		if c.MaxWidth > 0 && p.WidthFeet() > c.MaxWidth {
			continue
		}
		plans = append(plans, p)
	}
	return plans
}
