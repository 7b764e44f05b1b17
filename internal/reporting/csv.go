package reporting

import (
	"fmt"
	"strings"

	"pnl-projection-service/internal/domain"
)

// RenderCSV renders the per-day projection bands as a CSV string.
func RenderCSV(p *domain.ProjectionResult) string {
	var sb strings.Builder

	// Header
	sb.WriteString("day,expected,lower_95,upper_95,lower_99,upper_99\n")

	// Rows
	ci := p.ConfidenceIntervals
	for d := range p.ExpectedTrajectory {
		sb.WriteString(fmt.Sprintf("%d,%.2f,%.2f,%.2f,%.2f,%.2f\n",
			d+1,
			p.ExpectedTrajectory[d],
			ci.CI95.Lower[d],
			ci.CI95.Upper[d],
			ci.CI99.Lower[d],
			ci.CI99.Upper[d],
		))
	}

	return sb.String()
}
