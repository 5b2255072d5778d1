// Package scurve distributes lump-sum development costs across a monthly
// construction timeline.
//
// A curve is a slice of non-negative fractions, one per month of an
// activity, that sums to 1.0. Curves are shaped by a logistic-derivative
// (bell) function whose steepness is selected by a 1-9 level; level 1 and
// below is a straight line. Every function in this package is pure and safe
// for concurrent use.
package scurve

import (
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/dev-underwriter/pkg/constants"
	"github.com/iwvelando/dev-underwriter/pkg/mathutil"
)

// Steepness selects the shape of a curve.
type Steepness interface {
	Level() float64
}

// Rate is a named steepness bucket.
type Rate string

// Named steepness buckets.
const (
	RateFlat1            Rate = "flat_1"
	RateModeratelyFlat3  Rate = "moderately_flat_3"
	RateModerate5        Rate = "moderate_5"
	RateModeratelySteep7 Rate = "moderately_steep_7"
	RateSteep9           Rate = "steep_9"
)

// Rates lists the named buckets from flattest to steepest.
var Rates = []Rate{RateFlat1, RateModeratelyFlat3, RateModerate5, RateModeratelySteep7, RateSteep9}

// Level maps the bucket to its numeric level. Unknown names fall back to the
// moderate level.
func (r Rate) Level() float64 {
	switch r {
	case RateFlat1:
		return 1
	case RateModeratelyFlat3:
		return 3
	case RateModerate5:
		return 5
	case RateModeratelySteep7:
		return 7
	case RateSteep9:
		return 9
	default:
		return constants.DefaultSCurveLevel
	}
}

// Known reports whether r is one of the named buckets.
func (r Rate) Known() bool {
	for _, known := range Rates {
		if r == known {
			return true
		}
	}
	return false
}

// Level is an explicit numeric steepness level, used as-is.
type Level float64

// Level returns the numeric level.
func (l Level) Level() float64 {
	return float64(l)
}

// ParseSteepness interprets s as a numeric level when it parses as a number
// and as a named Rate otherwise.
func ParseSteepness(s string) Steepness {
	trimmed := strings.TrimSpace(s)
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Level(n)
	}
	return Rate(trimmed)
}

func levelOf(rate Steepness) float64 {
	if rate == nil {
		return constants.DefaultSCurveLevel
	}
	return rate.Level()
}

// Generate returns the normalized monthly spend fractions for an activity
// lasting durationMonths.
func Generate(durationMonths int, rate Steepness) []float64 {
	if durationMonths <= 0 {
		return []float64{}
	}
	if durationMonths == 1 {
		return []float64{1.0}
	}

	level := levelOf(rate)
	if level <= 1 {
		return uniform(durationMonths)
	}

	steepness := level * constants.SteepnessPerLevel
	midpoint := float64(durationMonths-1) / 2

	raw := make([]float64, durationMonths)
	sum := 0.0
	for m := range raw {
		// The logistic derivative is even in x; using |x| keeps e^-x from
		// overflowing on long durations.
		x := steepness * (float64(m) - midpoint)
		ex := math.Exp(-math.Abs(x))
		raw[m] = steepness * ex / math.Pow(1+ex, 2)
		sum += raw[m]
	}

	if sum == 0 || !mathutil.IsFinite(sum) {
		return uniform(durationMonths)
	}
	for m := range raw {
		raw[m] /= sum
	}
	return raw
}

func uniform(n int) []float64 {
	curve := make([]float64, n)
	equal := 1.0 / float64(n)
	for i := range curve {
		curve[i] = equal
	}
	return curve
}

// place writes amounts into timeline starting at startMonth, dropping any
// month that falls outside the horizon.
func place(timeline []float64, startMonth int, amounts func(i int) float64, count int) {
	for i := 0; i < count; i++ {
		monthIdx := startMonth + i
		if monthIdx < 0 || monthIdx >= len(timeline) {
			continue
		}
		timeline[monthIdx] = amounts(i)
	}
}

// DistributeAmount spreads totalAmount over durationMonths along an S-curve,
// beginning at startMonth, into a timeline of totalProjectMonths entries.
// Months beyond the horizon are dropped.
func DistributeAmount(totalAmount float64, startMonth, durationMonths int, rate Steepness, totalProjectMonths int) []float64 {
	timeline := mathutil.Zeros(totalProjectMonths)
	curve := Generate(durationMonths, rate)
	place(timeline, startMonth, func(i int) float64 { return totalAmount * curve[i] }, len(curve))
	return timeline
}

// DistributeStraightLine spreads totalAmount evenly over durationMonths,
// beginning at startMonth. Months beyond the horizon are dropped.
func DistributeStraightLine(totalAmount float64, startMonth, durationMonths, totalProjectMonths int) []float64 {
	timeline := mathutil.Zeros(totalProjectMonths)
	monthly := totalAmount / float64(durationMonths)
	place(timeline, startMonth, func(int) float64 { return monthly }, durationMonths)
	return timeline
}

// DistributeBudgetItem places a budget line item on the project timeline
// according to its forecast method. Excluded items and items without an
// amount produce an all-zero timeline.
func DistributeBudgetItem(item BudgetItem, totalProjectMonths int) []float64 {
	if !item.Included || item.TotalAmount == 0 || math.IsNaN(item.TotalAmount) {
		return mathutil.Zeros(totalProjectMonths)
	}

	switch item.Method {
	case MethodSCurve:
		return DistributeAmount(item.TotalAmount, item.StartMonth, item.DurationMonths, item.Rate, totalProjectMonths)
	case MethodStraightLine:
		return DistributeStraightLine(item.TotalAmount, item.StartMonth, item.DurationMonths, totalProjectMonths)
	case MethodManualInput:
		timeline := mathutil.Zeros(totalProjectMonths)
		place(timeline, item.StartMonth, func(int) float64 { return item.TotalAmount }, 1)
		return timeline
	default:
		// Unrecognized methods are spread like s_curve items.
		return DistributeAmount(item.TotalAmount, item.StartMonth, item.DurationMonths, item.Rate, totalProjectMonths)
	}
}

// AggregateTimelines sums timelines element-wise. The result is as long as
// the longest input; shorter inputs contribute zero past their end.
func AggregateTimelines(timelines [][]float64) []float64 {
	length := 0
	for _, timeline := range timelines {
		if len(timeline) > length {
			length = len(timeline)
		}
	}

	result := make([]float64, length)
	for _, timeline := range timelines {
		for i, v := range timeline {
			result[i] += v
		}
	}
	return result
}

// CumulativeSum returns the running total of monthly.
func CumulativeSum(monthly []float64) []float64 {
	result := make([]float64, len(monthly))
	running := 0.0
	for i, v := range monthly {
		running += v
		result[i] = running
	}
	return result
}
