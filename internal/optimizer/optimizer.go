// Package optimizer searches deal inputs for the value that just meets a
// target margin.
package optimizer

import (
	"fmt"

	"github.com/iwvelando/dev-underwriter/internal/config"
	"github.com/iwvelando/dev-underwriter/pkg/format"
	"github.com/iwvelando/dev-underwriter/pkg/optimization"
	"github.com/iwvelando/dev-underwriter/pkg/underwrite"
	"go.uber.org/zap"
)

// Runner executes optimizer directives.
type Runner struct {
	logger *zap.Logger
}

type evaluation struct {
	value  float64
	npm    float64
	target float64
}

func (e evaluation) feasible() bool {
	return e.npm >= e.target
}

func (e evaluation) headroom() float64 {
	return e.npm - e.target
}

// NewRunner constructs a Runner.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Optimize finds the highest lot price within the directive's bounds at
// which the deal still earns the target margin. Margin falls as the lot
// price rises, so the search is a bisection. The inputs are not modified.
func (r *Runner) Optimize(name string, in underwrite.DealInputs, cfg *config.OptimizerConfig) (optimization.Summary, error) {
	if cfg == nil {
		return optimization.Summary{}, fmt.Errorf("optimizer configuration missing for deal %s", name)
	}
	if err := cfg.Validate(); err != nil {
		return optimization.Summary{}, fmt.Errorf("deal %s: %w", name, err)
	}

	target := *cfg.TargetMargin
	lower, upper := cfg.Bounds(in.ASP)
	if lower >= upper {
		return optimization.Summary{}, fmt.Errorf("deal %s: optimizer bounds %s to %s are empty",
			name, format.Currency(lower), format.Currency(upper))
	}

	evaluate := func(lot float64) evaluation {
		trial := in
		trial.LotPurchasePrice = lot
		return evaluation{value: lot, npm: underwrite.Underwrite(trial).NPM, target: target}
	}

	original := evaluate(in.LotPurchasePrice)
	summary := optimization.Summary{
		TargetName:   name,
		Field:        cfg.Field,
		Original:     in.LotPurchasePrice,
		TargetMargin: target,
		OriginalNPM:  original.npm,
	}

	lowerEval := evaluate(lower)
	upperEval := evaluate(upper)

	var best evaluation
	switch {
	case !lowerEval.feasible():
		best = lowerEval
		summary.Notes = append(summary.Notes, fmt.Sprintf("unable to reach a %s margin within bounds %s to %s",
			format.Percent(target), format.Currency(lower), format.Currency(upper)))
	case upperEval.feasible():
		best = upperEval
		summary.Converged = true
		summary.Notes = append(summary.Notes, fmt.Sprintf("target margin is still met at the upper bound %s",
			format.Currency(upper)))
	default:
		lo, hi := lowerEval, upperEval
		for summary.Iterations < cfg.MaxIterations && hi.value-lo.value > cfg.Tolerance {
			summary.Iterations++
			mid := evaluate(lo.value + (hi.value-lo.value)/2)
			if mid.feasible() {
				lo = mid
			} else {
				hi = mid
			}
		}
		best = lo
		summary.Converged = hi.value-lo.value <= cfg.Tolerance
		if !summary.Converged {
			summary.Notes = append(summary.Notes, fmt.Sprintf("stopped after %d iterations with a %s gap",
				summary.Iterations, format.Cents(hi.value-lo.value)))
		}
	}

	summary.Value = best.value
	summary.ResultNPM = best.npm
	summary.Headroom = best.headroom()

	r.logger.Info("optimizer solved deal field",
		zap.String("op", "optimizer.Optimize"),
		zap.String("deal", name),
		zap.String("field", summary.Field),
		zap.Float64("original", summary.Original),
		zap.Float64("optimized", summary.Value),
		zap.Float64("targetMargin", target),
		zap.Float64("npm", summary.ResultNPM),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)

	return summary, nil
}
