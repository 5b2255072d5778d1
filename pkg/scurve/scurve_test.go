package scurve

import (
	"math"
	"testing"
)

const fractionTolerance = 1e-9

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func TestRateLevel(t *testing.T) {
	tests := []struct {
		name     string
		rate     Steepness
		expected float64
	}{
		{"Flat", RateFlat1, 1},
		{"Moderately flat", RateModeratelyFlat3, 3},
		{"Moderate", RateModerate5, 5},
		{"Moderately steep", RateModeratelySteep7, 7},
		{"Steep", RateSteep9, 9},
		{"Unknown name defaults to moderate", Rate("very_steep_11"), 5},
		{"Empty name defaults to moderate", Rate(""), 5},
		{"Numeric level used directly", Level(4), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rate.Level(); got != tt.expected {
				t.Errorf("Level() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestParseSteepness(t *testing.T) {
	tests := []struct {
		input    string
		expected Steepness
	}{
		{"steep_9", RateSteep9},
		{" moderate_5 ", RateModerate5},
		{"7", Level(7)},
		{"2.5", Level(2.5)},
		{"bogus", Rate("bogus")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseSteepness(tt.input); got != tt.expected {
				t.Errorf("ParseSteepness(%q) = %#v, expected %#v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGenerateSumsToOne(t *testing.T) {
	rates := []Steepness{RateFlat1, RateModeratelyFlat3, RateModerate5, RateModeratelySteep7, RateSteep9,
		Rate("unknown"), Level(0), Level(2), Level(20), nil}

	for _, rate := range rates {
		for n := 1; n <= 60; n++ {
			curve := Generate(n, rate)
			if len(curve) != n {
				t.Fatalf("Generate(%d, %v) returned %d entries", n, rate, len(curve))
			}
			if s := sum(curve); math.Abs(s-1) > fractionTolerance {
				t.Errorf("Generate(%d, %v) sums to %v", n, rate, s)
			}
			for i, v := range curve {
				if v < 0 {
					t.Errorf("Generate(%d, %v)[%d] = %v is negative", n, rate, i, v)
				}
			}
		}
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	for _, rate := range []Steepness{RateFlat1, RateSteep9, Level(3)} {
		if got := Generate(0, rate); got == nil || len(got) != 0 {
			t.Errorf("Generate(0, %v) = %v, expected empty", rate, got)
		}
		if got := Generate(-3, rate); len(got) != 0 {
			t.Errorf("Generate(-3, %v) = %v, expected empty", rate, got)
		}
		if got := Generate(1, rate); len(got) != 1 || got[0] != 1.0 {
			t.Errorf("Generate(1, %v) = %v, expected [1]", rate, got)
		}
	}
}

func TestGenerateFlatIsUniform(t *testing.T) {
	for _, rate := range []Steepness{RateFlat1, Level(1), Level(0.5), Level(-2)} {
		curve := Generate(8, rate)
		for i, v := range curve {
			if math.Abs(v-1.0/8) > fractionTolerance {
				t.Errorf("Generate(8, %v)[%d] = %v, expected 0.125", rate, i, v)
			}
		}
	}
}

func TestGenerateShape(t *testing.T) {
	tests := []struct {
		name     string
		months   int
		rate     Steepness
		expected []float64
	}{
		{"Three months moderate", 3, RateModerate5, []float64{0.22825329067178796, 0.5434934186564241, 0.22825329067178793}},
		{"Four months moderate", 4, RateModerate5, []float64{0.09342181774487215, 0.4065781822551279, 0.40657818225512793, 0.09342181774487218}},
		{"Six months steep", 6, RateSteep9, []float64{0.0004883263867251976, 0.017715902974758377, 0.4817957706385164, 0.4817957706385165, 0.017715902974758377, 0.0004883263867251976}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curve := Generate(tt.months, tt.rate)
			for i := range tt.expected {
				if math.Abs(curve[i]-tt.expected[i]) > fractionTolerance {
					t.Errorf("month %d = %v, expected %v", i, curve[i], tt.expected[i])
				}
			}
		})
	}
}

func TestGenerateSteeperConcentratesMidpoint(t *testing.T) {
	n := 12
	previousPeak := 0.0
	for _, rate := range Rates {
		curve := Generate(n, rate)
		peak := curve[n/2]
		if peak < previousPeak {
			t.Errorf("rate %s peak %v is lower than a flatter rate's %v", rate, peak, previousPeak)
		}
		previousPeak = peak

		// Symmetric about the midpoint.
		for i := 0; i < n/2; i++ {
			if math.Abs(curve[i]-curve[n-1-i]) > fractionTolerance {
				t.Errorf("rate %s not symmetric at %d: %v vs %v", rate, i, curve[i], curve[n-1-i])
			}
		}
	}
}

func TestDistributeAmount(t *testing.T) {
	timeline := DistributeAmount(1000, 2, 4, RateModerate5, 10)
	if len(timeline) != 10 {
		t.Fatalf("expected 10 months, got %d", len(timeline))
	}
	expected := []float64{0, 0, 93.42181774487216, 406.5781822551279, 406.57818225512796, 93.42181774487219, 0, 0, 0, 0}
	for i, v := range expected {
		if math.Abs(timeline[i]-v) > 1e-6 {
			t.Errorf("month %d = %v, expected %v", i, timeline[i], v)
		}
	}
	if math.Abs(sum(timeline)-1000) > 1e-6 {
		t.Errorf("sum = %v, expected 1000", sum(timeline))
	}
}

func TestDistributionTruncation(t *testing.T) {
	tests := []struct {
		name     string
		timeline []float64
		total    float64
		fits     bool
	}{
		{"S-curve fits", DistributeAmount(5000, 0, 12, RateSteep9, 12), 5000, true},
		{"S-curve ends on horizon", DistributeAmount(5000, 6, 6, RateModerate5, 12), 5000, true},
		{"S-curve truncated", DistributeAmount(5000, 6, 12, RateFlat1, 12), 5000, false},
		{"Straight line fits", DistributeStraightLine(2400, 3, 6, 12), 2400, true},
		{"Straight line truncated", DistributeStraightLine(2400, 10, 6, 12), 2400, false},
		{"Start beyond horizon", DistributeStraightLine(2400, 20, 6, 12), 2400, false},
		{"Negative start drops early months", DistributeStraightLine(2400, -2, 6, 12), 2400, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.timeline) != 12 {
				t.Fatalf("expected 12 months, got %d", len(tt.timeline))
			}
			got := sum(tt.timeline)
			if tt.fits && math.Abs(got-tt.total) > 1e-6 {
				t.Errorf("sum = %v, expected %v", got, tt.total)
			}
			if !tt.fits && got >= tt.total {
				t.Errorf("sum = %v, expected less than %v", got, tt.total)
			}
		})
	}
}

func TestGenerateLongDurationStaysFinite(t *testing.T) {
	curve := Generate(480, RateSteep9)
	for i, v := range curve {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("Generate(480, steep_9)[%d] = %v", i, v)
		}
	}
	if s := sum(curve); math.Abs(s-1) > fractionTolerance {
		t.Errorf("sum = %v, expected 1", s)
	}
	if curve[0] >= curve[240] {
		t.Errorf("expected spend concentrated at the midpoint")
	}
}

func TestDistributeStraightLine(t *testing.T) {
	timeline := DistributeStraightLine(2400, 3, 6, 12)
	for i, v := range timeline {
		expected := 0.0
		if i >= 3 && i < 9 {
			expected = 400
		}
		if v != expected {
			t.Errorf("month %d = %v, expected %v", i, v, expected)
		}
	}

	truncated := DistributeStraightLine(2400, 10, 6, 12)
	if got := sum(truncated); got != 800 {
		t.Errorf("truncated sum = %v, expected 800", got)
	}
}

func TestDistributeBudgetItem(t *testing.T) {
	base := BudgetItem{
		Category:       CategoryHorizontal,
		Name:           "Storm Water",
		TotalAmount:    1200,
		StartMonth:     2,
		DurationMonths: 4,
		Rate:           RateModerate5,
		Included:       true,
	}

	t.Run("s_curve matches DistributeAmount", func(t *testing.T) {
		item := base
		item.Method = MethodSCurve
		got := DistributeBudgetItem(item, 12)
		want := DistributeAmount(1200, 2, 4, RateModerate5, 12)
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("month %d = %v, expected %v", i, got[i], want[i])
			}
		}
	})

	t.Run("straight_line matches DistributeStraightLine", func(t *testing.T) {
		item := base
		item.Method = MethodStraightLine
		got := DistributeBudgetItem(item, 12)
		want := DistributeStraightLine(1200, 2, 4, 12)
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("month %d = %v, expected %v", i, got[i], want[i])
			}
		}
	})

	t.Run("manual_input is a lump sum at start", func(t *testing.T) {
		item := base
		item.Method = MethodManualInput
		got := DistributeBudgetItem(item, 12)
		for i, v := range got {
			expected := 0.0
			if i == 2 {
				expected = 1200
			}
			if v != expected {
				t.Errorf("month %d = %v, expected %v", i, v, expected)
			}
		}
	})

	t.Run("manual_input outside horizon is dropped", func(t *testing.T) {
		item := base
		item.Method = MethodManualInput
		item.StartMonth = 12
		if got := sum(DistributeBudgetItem(item, 12)); got != 0 {
			t.Errorf("sum = %v, expected 0", got)
		}
	})

	t.Run("unknown method takes the s_curve path", func(t *testing.T) {
		item := base
		item.Method = Method("percent_complete")
		got := DistributeBudgetItem(item, 12)
		want := DistributeAmount(1200, 2, 4, RateModerate5, 12)
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("month %d = %v, expected %v", i, got[i], want[i])
			}
		}
	})

	t.Run("excluded item is all zero", func(t *testing.T) {
		item := base
		item.Method = MethodSCurve
		item.Included = false
		got := DistributeBudgetItem(item, 12)
		if len(got) != 12 || sum(got) != 0 {
			t.Errorf("expected 12 zero months, got %v", got)
		}
	})

	t.Run("zero amount is all zero", func(t *testing.T) {
		item := base
		item.Method = MethodStraightLine
		item.TotalAmount = 0
		got := DistributeBudgetItem(item, 6)
		if len(got) != 6 || sum(got) != 0 {
			t.Errorf("expected 6 zero months, got %v", got)
		}
	})
}

func TestAggregateTimelines(t *testing.T) {
	tests := []struct {
		name      string
		timelines [][]float64
		expected  []float64
	}{
		{"Different lengths", [][]float64{{1, 2}, {3, 4, 5}}, []float64{4, 6, 5}},
		{"Single timeline", [][]float64{{1, 2, 3}}, []float64{1, 2, 3}},
		{"Empty input", [][]float64{}, []float64{}},
		{"Empty members", [][]float64{{}, {}}, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateTimelines(tt.timelines)
			if got == nil || len(got) != len(tt.expected) {
				t.Fatalf("AggregateTimelines() = %v, expected %v", got, tt.expected)
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("AggregateTimelines()[%d] = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestCumulativeSum(t *testing.T) {
	tests := []struct {
		name     string
		monthly  []float64
		expected []float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{1, 3, 6}},
		{"With zeros", []float64{0, 5, 0, 5}, []float64{0, 5, 5, 10}},
		{"Empty", []float64{}, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CumulativeSum(tt.monthly)
			if len(got) != len(tt.expected) {
				t.Fatalf("CumulativeSum() = %v, expected %v", got, tt.expected)
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("CumulativeSum()[%d] = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestDefaultBudgetItems(t *testing.T) {
	items := DefaultBudgetItems()
	if len(items) != 22 {
		t.Fatalf("expected 22 default items, got %d", len(items))
	}
	for _, item := range items {
		if !item.Category.Known() {
			t.Errorf("item %s has unknown category %s", item.Name, item.Category)
		}
		if !item.Method.Known() {
			t.Errorf("item %s has unknown method %s", item.Name, item.Method)
		}
		if !item.Rate.Known() {
			t.Errorf("item %s has unknown rate %s", item.Name, item.Rate)
		}
		if !item.Included {
			t.Errorf("item %s should be included", item.Name)
		}
		if item.EndMonth() >= 24 {
			t.Errorf("item %s ends in month %d, past the default horizon", item.Name, item.EndMonth())
		}
	}
}
