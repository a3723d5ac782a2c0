package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderLearningReportEmpty(t *testing.T) {
	got := RenderLearningReport(LearningOutcome{Ranking: Ranking{}}, "votes.csv")

	want := "# Ranking Learning Report\n" +
		"\n" +
		"Keine Votes gefunden (`votes.csv`).\n" +
		"\n" +
		"## Änderungen\n" +
		"\n" +
		"Keine Up-/Downgrades.\n"
	assert.Equal(t, want, got)
}

func TestRenderLearningReport(t *testing.T) {
	outcome := LearningOutcome{
		Stats: []SourceStats{
			{Source: "zeit", Stats: VoteStats{N: 2, Positive: 1}},
			{Source: "Blick", Stats: VoteStats{N: 4, Positive: 4}},
			{Source: "admin.ch", Stats: VoteStats{N: 3, Negative: 3}},
		},
		Changes: []LabelChange{
			{Source: "Blick", Old: LabelC, New: LabelB, Stats: VoteStats{N: 4, Positive: 4}},
			{Source: "admin.ch", Old: LabelB, New: LabelC, Stats: VoteStats{N: 3, Negative: 3}},
		},
	}

	got := RenderLearningReport(outcome, "votes.csv")

	want := "# Ranking Learning Report\n" +
		"\n" +
		"## Quelle-Statistiken\n" +
		"\n" +
		"- admin.ch: n=3, pos=0, neg=3\n" +
		"- Blick: n=4, pos=4, neg=0\n" +
		"- zeit: n=2, pos=1, neg=0\n" +
		"\n" +
		"## Änderungen\n" +
		"\n" +
		"- Blick: C → B (n=4, pos=4, neg=0)\n" +
		"- admin.ch: B → C (n=3, pos=0, neg=3)\n"
	assert.Equal(t, want, got)
}
