// Package stability scores performance consistency between an earlier
// (in-sample) and later (out-of-sample) slice of the trade history: a
// walk-forward check that flags strategies whose recent results diverge
// from the period the parameters were effectively fitted on.
package stability

import (
	"math"
	"sort"

	"pnl-projection-service/internal/domain"
)

// Split ratio for the chronological in-sample/out-of-sample partition.
const inSampleRatio = 0.7

// Analyze computes StabilityMetrics from trade history. The input is sorted
// chronologically before splitting, so callers may pass records in any
// order. Analyze never fails: degenerate inputs (fewer than 2 trades, zero
// in-sample return) resolve via neutral defaults instead of division errors.
func Analyze(trades []*domain.TradeRecord) domain.StabilityMetrics {
	n := len(trades)

	// Sort chronologically, TradeID as tiebreaker for determinism.
	sorted := make([]*domain.TradeRecord, n)
	copy(sorted, trades)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ExecutedAt != sorted[j].ExecutedAt {
			return sorted[i].ExecutedAt < sorted[j].ExecutedAt
		}
		return sorted[i].TradeID < sorted[j].TradeID
	})

	splitIndex := int(math.Floor(float64(n) * inSampleRatio))
	inSample := sorted[:splitIndex]
	outSample := sorted[splitIndex:]

	inWinRate := winRate(inSample)
	outWinRate := winRate(outSample)
	inAvg := avgReturn(inSample)
	outAvg := avgReturn(outSample)

	// A 50-point win-rate gap drives the walk-forward score to 0.
	performanceDegradation := math.Abs(inWinRate - outWinRate)
	walkForwardScore := math.Max(0, 100-performanceDegradation*200)

	returnDegradation := 0.0
	outOfSampleValidation := 50.0 // neutral when in-sample return is zero
	if inAvg != 0 {
		returnDegradation = math.Abs(inAvg-outAvg) / math.Abs(inAvg)
		outOfSampleValidation = math.Min(100, math.Max(0, (outAvg/inAvg)*100))
	}
	overfittingScore := math.Min(1, returnDegradation)

	return domain.StabilityMetrics{
		WalkForwardScore:      walkForwardScore,
		OverfittingScore:      overfittingScore,
		OutOfSampleValidation: outOfSampleValidation,
		InSampleTrades:        len(inSample),
		OutOfSampleTrades:     len(outSample),
	}
}

// winRate returns count(pnl>0)/len, or 0 for an empty subset.
func winRate(trades []*domain.TradeRecord) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.PnL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades))
}

// avgReturn returns mean(pnl), or 0 for an empty subset.
func avgReturn(trades []*domain.TradeRecord) float64 {
	if len(trades) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range trades {
		sum += t.PnL
	}
	return sum / float64(len(trades))
}
