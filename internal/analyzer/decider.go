package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/djdembeck/toon-format-skill/internal/config"
	"github.com/djdembeck/toon-format-skill/internal/models"
)

// Decide applies the configured thresholds to structural statistics and
// produces the eligibility decision plus a human-readable reason. Pure
// function: raising a minimum threshold (or lowering the depth limit) can
// only ever flip the decision from true to false for fixed stats.
//
// The reason string is diagnostic text surfaced to users; its clause order
// is fixed: tabularity commentary first, then a depth violation when
// present, then a uniformity violation, joined by "; ".
func Decide(stats models.StructuralStats, cfg *config.Config) models.EligibilityReport {
	t := cfg.Thresholds

	shouldUse := stats.PercentTabular >= t.MinTabularPercent &&
		stats.NestedDepth <= t.MaxNestedDepth &&
		stats.UniformityScore >= t.MinUniformityScore

	clauses := make([]string, 0, 3)
	switch {
	case stats.PercentTabular >= 80:
		clauses = append(clauses, "highly tabular data")
	case stats.PercentTabular >= 60:
		clauses = append(clauses, "moderately tabular data")
	default:
		clauses = append(clauses, fmt.Sprintf("only %s%% tabular (less beneficial)", formatPercent(stats.PercentTabular)))
	}
	if stats.NestedDepth > t.MaxNestedDepth {
		clauses = append(clauses, fmt.Sprintf("nesting too deep (depth %d)", stats.NestedDepth))
	}
	if stats.UniformityScore < t.MinUniformityScore {
		clauses = append(clauses, fmt.Sprintf("low field uniformity (%.2f)", stats.UniformityScore))
	}

	return models.EligibilityReport{
		PercentTabular:  stats.PercentTabular,
		NestedDepth:     stats.NestedDepth,
		UniformityScore: stats.UniformityScore,
		ShouldUseToon:   shouldUse,
		Reason:          strings.Join(clauses, "; "),
	}
}

// formatPercent renders the exact computed percentage with no trailing
// zeros, so "50" stays "50" and one third of arrays reads "33.333...".
func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
