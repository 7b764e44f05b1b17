// Package metrics collapses Monte Carlo trajectories into per-day expected
// values and confidence interval bands.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"pnl-projection-service/internal/domain"
)

// ErrNoTrajectories is returned when there is nothing to aggregate.
var ErrNoTrajectories = errors.New("no trajectories to aggregate")

// ErrNonFinite is returned when a trajectory contains NaN or Inf, which
// indicates degenerate simulation parameters upstream.
var ErrNonFinite = errors.New("non-finite value in trajectory")

// Percentile fractions for the two confidence levels.
const (
	lower95Pct = 0.025
	upper95Pct = 0.975
	lower99Pct = 0.005
	upper99Pct = 0.995
)

// Aggregation holds the per-day statistics of one simulation run. All
// slices have length equal to the projection horizon in days.
type Aggregation struct {
	Expected []float64
	CI95     domain.ConfidenceBand
	CI99     domain.ConfidenceBand
}

// Aggregate computes per-day statistics across simulations. trajectories is
// S rows of D cumulative P&L values each; day d is aggregated independently
// over the S values at index d:
//
//	expected = arithmetic mean (not median)
//	95% band = percentile(2.5) .. percentile(97.5)
//	99% band = percentile(0.5) .. percentile(99.5)
//
// Percentiles interpolate linearly between order statistics, so for every
// day: lower99 <= lower95 <= upper95 <= upper99. Outputs are rounded to
// 2 decimal places here and nowhere earlier.
func Aggregate(trajectories [][]float64) (*Aggregation, error) {
	s := len(trajectories)
	if s == 0 {
		return nil, ErrNoTrajectories
	}
	days := len(trajectories[0])
	if days == 0 {
		return nil, ErrNoTrajectories
	}
	for i, traj := range trajectories {
		if len(traj) != days {
			return nil, fmt.Errorf("trajectory %d has length %d, want %d", i, len(traj), days)
		}
	}

	agg := &Aggregation{
		Expected: make([]float64, days),
		CI95: domain.ConfidenceBand{
			Lower: make([]float64, days),
			Upper: make([]float64, days),
		},
		CI99: domain.ConfidenceBand{
			Lower: make([]float64, days),
			Upper: make([]float64, days),
		},
	}

	dayValues := make([]float64, s)
	for d := 0; d < days; d++ {
		for i, traj := range trajectories {
			v := traj[d]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("simulation %d day %d: %w", i, d, ErrNonFinite)
			}
			dayValues[i] = v
		}
		sort.Float64s(dayValues)

		agg.Expected[d] = round2(computeMean(dayValues))
		agg.CI95.Lower[d] = round2(computePercentile(dayValues, lower95Pct))
		agg.CI95.Upper[d] = round2(computePercentile(dayValues, upper95Pct))
		agg.CI99.Lower[d] = round2(computePercentile(dayValues, lower99Pct))
		agg.CI99.Upper[d] = round2(computePercentile(dayValues, upper99Pct))
	}

	return agg, nil
}
