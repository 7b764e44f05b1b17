// Package reporting renders computed projections for the CLI: markdown for
// humans, CSV of the per-day bands, and raw JSON.
package reporting

import (
	"time"

	"pnl-projection-service/internal/decision"
	"pnl-projection-service/internal/domain"
)

// Report bundles everything one CLI run produced. Stability and Verdict are
// nil unless stability analysis was requested.
type Report struct {
	GeneratedAt time.Time                `json:"generatedAt"`
	MonteCarlo  *domain.ProjectionResult `json:"monteCarlo"`
	Stability   *domain.StabilityMetrics `json:"stability,omitempty"`
	Verdict     *decision.Result         `json:"verdict,omitempty"`
}

// NewReport assembles a report. Stability and verdict may be nil.
func NewReport(generatedAt time.Time, projection *domain.ProjectionResult, stability *domain.StabilityMetrics, verdict *decision.Result) *Report {
	return &Report{
		GeneratedAt: generatedAt,
		MonteCarlo:  projection,
		Stability:   stability,
		Verdict:     verdict,
	}
}
