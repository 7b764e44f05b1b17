package domain

import "time"

// ConfidenceBand holds per-day lower and upper bounds for one confidence
// level. Both slices have length equal to the projection horizon in days.
type ConfidenceBand struct {
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// ConfidenceIntervals groups the 95% and 99% bands. JSON keys match the
// dashboard contract.
type ConfidenceIntervals struct {
	CI95 ConfidenceBand `json:"95"`
	CI99 ConfidenceBand `json:"99"`
}

// ProjectionResult is the aggregated output of one Monte Carlo run.
//
// Invariant, for every day d:
//
//	CI99.Lower[d] <= CI95.Lower[d] <= ExpectedTrajectory[d] <= CI95.Upper[d] <= CI99.Upper[d]
//
// All monetary values are rounded to 2 decimal places at aggregation time.
type ProjectionResult struct {
	RunID               string               `json:"runId"`
	ExpectedTrajectory  []float64            `json:"expectedTrajectory"` // per-day mean cumulative P&L
	ConfidenceIntervals ConfidenceIntervals  `json:"confidenceIntervals"`
	SimulationsRun      int                  `json:"simulationsRun"`
	Days                int                  `json:"days"`
	Parameters          SimulationParameters `json:"parameters"`
	DataOrigin          DataOrigin           `json:"dataOrigin"`
	CalculatedAt        time.Time            `json:"calculatedAt"`
	CachedUntil         time.Time            `json:"cachedUntil"` // CalculatedAt + cache TTL, exactly
}

// FinalExpected returns the expected cumulative P&L on the last projected
// day, or 0 for an empty trajectory.
func (p *ProjectionResult) FinalExpected() float64 {
	if len(p.ExpectedTrajectory) == 0 {
		return 0
	}
	return p.ExpectedTrajectory[len(p.ExpectedTrajectory)-1]
}
