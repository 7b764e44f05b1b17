package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	p := r.MonteCarlo

	// Header
	sb.WriteString("# P&L Projection Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Horizon: %d days | Simulations: %d | Data: %s\n\n",
		p.RunID, p.Days, p.SimulationsRun, p.DataOrigin))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Expected Final P&L | %.2f |\n", p.FinalExpected()))
	if d := len(p.ExpectedTrajectory); d > 0 {
		sb.WriteString(fmt.Sprintf("| 95%% Interval (final day) | %.2f .. %.2f |\n",
			p.ConfidenceIntervals.CI95.Lower[d-1], p.ConfidenceIntervals.CI95.Upper[d-1]))
		sb.WriteString(fmt.Sprintf("| 99%% Interval (final day) | %.2f .. %.2f |\n",
			p.ConfidenceIntervals.CI99.Lower[d-1], p.ConfidenceIntervals.CI99.Upper[d-1]))
	}
	sb.WriteString(fmt.Sprintf("| Calculated At | %s |\n", p.CalculatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("| Cached Until | %s |\n", p.CachedUntil.Format(time.RFC3339)))
	sb.WriteString("\n")

	// Simulation Parameters
	sb.WriteString("## Simulation Parameters\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Win Rate | %.4f |\n", p.Parameters.WinRate))
	sb.WriteString(fmt.Sprintf("| Avg Profit | %.2f |\n", p.Parameters.AvgProfit))
	sb.WriteString(fmt.Sprintf("| Avg Loss | %.2f |\n", p.Parameters.AvgLoss))
	sb.WriteString(fmt.Sprintf("| Std Dev | %.2f |\n", p.Parameters.StdDev))
	sb.WriteString(fmt.Sprintf("| Trades/Day | %.2f |\n", p.Parameters.TradesPerDay))
	sb.WriteString("\n")

	// Per-day projection
	sb.WriteString("## Projection\n\n")
	sb.WriteString("| Day | Expected | 95% Low | 95% High | 99% Low | 99% High |\n")
	sb.WriteString("|-----|----------|---------|----------|---------|----------|\n")
	ci := p.ConfidenceIntervals
	for d := range p.ExpectedTrajectory {
		sb.WriteString(fmt.Sprintf("| %d | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			d+1, p.ExpectedTrajectory[d],
			ci.CI95.Lower[d], ci.CI95.Upper[d],
			ci.CI99.Lower[d], ci.CI99.Upper[d]))
	}
	sb.WriteString("\n")

	// Stability
	if r.Stability != nil {
		s := r.Stability
		sb.WriteString("## Stability\n\n")
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Walk-Forward Score | %.1f |\n", s.WalkForwardScore))
		sb.WriteString(fmt.Sprintf("| Overfitting Score | %.2f |\n", s.OverfittingScore))
		sb.WriteString(fmt.Sprintf("| Out-of-Sample Validation | %.1f |\n", s.OutOfSampleValidation))
		sb.WriteString(fmt.Sprintf("| In-Sample Trades | %d |\n", s.InSampleTrades))
		sb.WriteString(fmt.Sprintf("| Out-of-Sample Trades | %d |\n", s.OutOfSampleTrades))
		sb.WriteString("\n")
	}

	// Verdict checklist
	if r.Verdict != nil {
		sb.WriteString(fmt.Sprintf("## Verdict: %s\n\n", r.Verdict.Verdict))
		sb.WriteString("| # | Criterion | Threshold | Actual | Pass |\n")
		sb.WriteString("|---|-----------|-----------|--------|------|\n")
		for i, c := range r.Verdict.Criteria {
			passStr := "PASS"
			if !c.Pass {
				passStr = "FAIL"
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
				i+1, c.Name, c.Threshold, c.Actual, passStr))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Criteria: %d/%d passed\n", r.Verdict.Passed(), len(r.Verdict.Criteria)))
	}

	return sb.String()
}
