// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/dev-underwriter/internal/analysis"
	"github.com/iwvelando/dev-underwriter/pkg/underwrite"
)

// FindDeal finds a deal report by name. Returns nil when no deal matches.
func FindDeal(deals []analysis.DealReport, name string) *analysis.DealReport {
	for i := range deals {
		if deals[i].Name == name {
			return &deals[i]
		}
	}
	return nil
}

// FindProject finds a project report by name. Returns nil when no project matches.
func FindProject(projects []analysis.ProjectReport, name string) *analysis.ProjectReport {
	for i := range projects {
		if projects[i].Name == name {
			return &projects[i]
		}
	}
	return nil
}

// FindScenario finds a sensitivity row by name in the results slice.
// Returns a pointer to the row if found, nil otherwise.
func FindScenario(results []underwrite.ScenarioResult, name string) *underwrite.ScenarioResult {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// AlmostEqual reports whether got is within tolerance of expected.
func AlmostEqual(got, expected, tolerance float64) bool {
	return math.Abs(got-expected) <= tolerance
}
