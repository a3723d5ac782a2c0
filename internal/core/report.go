package core

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// RenderLearningReport formats the learning outcome as markdown
func RenderLearningReport(outcome LearningOutcome, votesLocation string) string {
	lines := []string{"# Ranking Learning Report", ""}

	if len(outcome.Stats) == 0 {
		lines = append(lines, fmt.Sprintf("Keine Votes gefunden (`%s`).", votesLocation))
	} else {
		lines = append(lines, "## Quelle-Statistiken", "")
		for _, s := range sortedStats(outcome.Stats) {
			lines = append(lines, fmt.Sprintf("- %s: n=%d, pos=%d, neg=%d",
				s.Source, s.Stats.N, s.Stats.Positive, s.Stats.Negative))
		}
	}

	lines = append(lines, "", "## Änderungen", "")
	if len(outcome.Changes) == 0 {
		lines = append(lines, "Keine Up-/Downgrades.")
	} else {
		for _, c := range outcome.Changes {
			lines = append(lines, fmt.Sprintf("- %s: %s → %s (n=%d, pos=%d, neg=%d)",
				c.Source, c.Old, c.New, c.Stats.N, c.Stats.Positive, c.Stats.Negative))
		}
	}

	return strings.TrimRight(strings.Join(lines, "\n"), " \n\t") + "\n"
}

// sortedStats orders sources case-insensitively, keeping first-vote order on ties
func sortedStats(stats []SourceStats) []SourceStats {
	fold := cases.Fold()
	out := make([]SourceStats, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool {
		return fold.String(out[i].Source) < fold.String(out[j].Source)
	})
	return out
}
