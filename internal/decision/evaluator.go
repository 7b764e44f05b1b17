// Package decision grades a projection's trustworthiness from its stability
// metrics and data provenance.
package decision

import (
	"fmt"

	"pnl-projection-service/internal/domain"
)

// Robustness thresholds.
const (
	minWalkForwardScore = 70.0
	maxOverfittingScore = 0.30
	minOutOfSampleScore = 50.0
	minSampleSize       = 30
)

// Evaluator evaluates robustness criteria.
type Evaluator struct{}

// NewEvaluator creates a new robustness evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate produces a Result from a projection and its stability metrics.
// ROBUST if ALL criteria pass, FRAGILE if ANY fails.
func (e *Evaluator) Evaluate(projection *domain.ProjectionResult, stability *domain.StabilityMetrics) *Result {
	criteria := e.evaluateCriteria(projection, stability)

	verdict := VerdictRobust
	for _, c := range criteria {
		if !c.Pass {
			verdict = VerdictFragile
			break
		}
	}

	return &Result{
		Verdict:  verdict,
		Criteria: criteria,
	}
}

// evaluateCriteria evaluates the 5 robustness criteria.
func (e *Evaluator) evaluateCriteria(projection *domain.ProjectionResult, stability *domain.StabilityMetrics) []CriterionResult {
	criteria := make([]CriterionResult, 5)

	// 1. Walk-forward score >= 70
	criteria[0] = CriterionResult{
		Name:      "Walk-forward consistency",
		Threshold: fmt.Sprintf(">= %.0f", minWalkForwardScore),
		Actual:    fmt.Sprintf("%.1f", stability.WalkForwardScore),
		Pass:      stability.WalkForwardScore >= minWalkForwardScore,
	}

	// 2. Overfitting score <= 0.30
	criteria[1] = CriterionResult{
		Name:      "Overfitting",
		Threshold: fmt.Sprintf("<= %.2f", maxOverfittingScore),
		Actual:    fmt.Sprintf("%.2f", stability.OverfittingScore),
		Pass:      stability.OverfittingScore <= maxOverfittingScore,
	}

	// 3. Out-of-sample validation >= 50
	criteria[2] = CriterionResult{
		Name:      "Out-of-sample validation",
		Threshold: fmt.Sprintf(">= %.0f", minOutOfSampleScore),
		Actual:    fmt.Sprintf("%.1f", stability.OutOfSampleValidation),
		Pass:      stability.OutOfSampleValidation >= minOutOfSampleScore,
	}

	// 4. Sample size >= 30 trades across both slices
	sampleSize := stability.InSampleTrades + stability.OutOfSampleTrades
	criteria[3] = CriterionResult{
		Name:      "Sample size",
		Threshold: fmt.Sprintf(">= %d trades", minSampleSize),
		Actual:    fmt.Sprintf("%d trades", sampleSize),
		Pass:      sampleSize >= minSampleSize,
	}

	// 5. Parameters estimated from real history, not the synthetic fallback
	criteria[4] = CriterionResult{
		Name:      "Real trade history",
		Threshold: string(domain.OriginRealData),
		Actual:    string(projection.DataOrigin),
		Pass:      projection.DataOrigin == domain.OriginRealData,
	}

	return criteria
}
