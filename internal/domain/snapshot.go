package domain

// ProjectionSnapshot is the flattened one-row-per-run record persisted to
// the projection history table. It keeps the final-day summary of each
// computed projection for audit and trend views, not the full trajectories.
type ProjectionSnapshot struct {
	RunID         string     `json:"runId"`
	Days          int        `json:"days"`
	Simulations   int        `json:"simulations"`
	DataOrigin    DataOrigin `json:"dataOrigin"`
	ExpectedFinal float64    `json:"expectedFinal"` // expected cumulative P&L on the last day
	Lower95Final  float64    `json:"lower95Final"`
	Upper95Final  float64    `json:"upper95Final"`
	Lower99Final  float64    `json:"lower99Final"`
	Upper99Final  float64    `json:"upper99Final"`
	WinRate       float64    `json:"winRate"`      // estimated parameter used for the run
	TradesPerDay  float64    `json:"tradesPerDay"` // estimated parameter used for the run
	CalculatedAt  int64      `json:"calculatedAt"` // Unix ms
}

// SnapshotFromProjection flattens a ProjectionResult into its history row.
func SnapshotFromProjection(p *ProjectionResult) *ProjectionSnapshot {
	s := &ProjectionSnapshot{
		RunID:        p.RunID,
		Days:         p.Days,
		Simulations:  p.SimulationsRun,
		DataOrigin:   p.DataOrigin,
		WinRate:      p.Parameters.WinRate,
		TradesPerDay: p.Parameters.TradesPerDay,
		CalculatedAt: p.CalculatedAt.UnixMilli(),
	}
	if d := len(p.ExpectedTrajectory); d > 0 {
		s.ExpectedFinal = p.ExpectedTrajectory[d-1]
		s.Lower95Final = p.ConfidenceIntervals.CI95.Lower[d-1]
		s.Upper95Final = p.ConfidenceIntervals.CI95.Upper[d-1]
		s.Lower99Final = p.ConfidenceIntervals.CI99.Lower[d-1]
		s.Upper99Final = p.ConfidenceIntervals.CI99.Upper[d-1]
	}
	return s
}
