package domain

// StabilityMetrics scores performance consistency between an earlier
// (in-sample) and later (out-of-sample) slice of the trade history.
type StabilityMetrics struct {
	WalkForwardScore      float64 `json:"walkForwardScore"`      // in [0,100]; 100 = identical win rates
	OverfittingScore      float64 `json:"overfittingScore"`      // in [0,1]; 0 = no return degradation
	OutOfSampleValidation float64 `json:"outOfSampleValidation"` // in [0,100]; 50 = undetermined
	InSampleTrades        int     `json:"inSampleTrades"`
	OutOfSampleTrades     int     `json:"outOfSampleTrades"`
}
