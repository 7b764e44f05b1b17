package domain

// SimulationParameters describe the per-trade P&L distribution used by the
// Monte Carlo engine. They are estimated from trade history on every
// cache-miss request.
type SimulationParameters struct {
	WinRate      float64 `json:"winRate"`      // fraction of winning trades, in [0,1]
	AvgProfit    float64 `json:"avgProfit"`    // mean P&L of winning trades, > 0
	AvgLoss      float64 `json:"avgLoss"`      // mean P&L of losing trades, < 0
	StdDev       float64 `json:"stdDev"`       // population std dev over all signed P&L
	TradesPerDay float64 `json:"tradesPerDay"` // Poisson rate of trades per day
}

// DefaultSimulationParameters are used when no trade history exists at all.
var DefaultSimulationParameters = SimulationParameters{
	WinRate:      0.6,
	AvgProfit:    150,
	AvgLoss:      -80,
	StdDev:       100,
	TradesPerDay: 2,
}

// Fallback estimation constants for partially degenerate histories.
const (
	// FallbackAvgProfit is substituted when the history contains no winners.
	FallbackAvgProfit = 100.0
	// FallbackAvgLoss is substituted when the history contains no losers.
	FallbackAvgLoss = -50.0
	// FallbackTradesPerDay is substituted when the history spans zero days.
	FallbackTradesPerDay = 2.0
)
