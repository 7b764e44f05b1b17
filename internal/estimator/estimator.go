// Package estimator derives Monte Carlo simulation parameters from
// historical trade records.
package estimator

import (
	"math"

	"pnl-projection-service/internal/domain"
)

const msPerDay = 24 * 60 * 60 * 1000

// Estimate computes SimulationParameters from trade history. It is a pure
// function, accepts records in any order, and never fails: an empty history
// yields domain.DefaultSimulationParameters, and partially degenerate
// histories (no winners, no losers, zero time span) resolve via the
// documented fallback constants.
func Estimate(trades []*domain.TradeRecord) domain.SimulationParameters {
	n := len(trades)
	if n == 0 {
		return domain.DefaultSimulationParameters
	}

	wins := 0
	winSum := 0.0
	lossCount := 0
	lossSum := 0.0
	pnlSum := 0.0
	minTs := trades[0].ExecutedAt
	maxTs := trades[0].ExecutedAt

	for _, t := range trades {
		pnlSum += t.PnL
		if t.PnL > 0 {
			wins++
			winSum += t.PnL
		} else {
			lossCount++
			lossSum += t.PnL
		}
		if t.ExecutedAt < minTs {
			minTs = t.ExecutedAt
		}
		if t.ExecutedAt > maxTs {
			maxTs = t.ExecutedAt
		}
	}

	params := domain.SimulationParameters{
		WinRate:   float64(wins) / float64(n),
		AvgProfit: domain.FallbackAvgProfit,
		AvgLoss:   domain.FallbackAvgLoss,
	}
	if wins > 0 {
		params.AvgProfit = winSum / float64(wins)
	}
	if lossCount > 0 {
		params.AvgLoss = lossSum / float64(lossCount)
	}

	// Population standard deviation (divide by N) over all signed P&L,
	// not split by win/loss.
	mean := pnlSum / float64(n)
	sumSq := 0.0
	for _, t := range trades {
		diff := t.PnL - mean
		sumSq += diff * diff
	}
	params.StdDev = math.Sqrt(sumSq / float64(n))

	spanDays := float64(maxTs-minTs) / float64(msPerDay)
	if spanDays > 0 {
		params.TradesPerDay = float64(n) / spanDays
	} else {
		params.TradesPerDay = domain.FallbackTradesPerDay
	}

	return params
}
