package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestApplyWorkedExamples(t *testing.T) {
	rules := DefaultLearningRules()

	t.Run("four positive votes lift C to B", func(t *testing.T) {
		out := rules.Apply(Ranking{"nzz": LabelC}, votesFor("nzz", "MM", 4))
		assert.Equal(t, LabelB, out.Ranking["nzz"])
		require.Len(t, out.Changes, 1)
		assert.Equal(t, LabelChange{Source: "nzz", Old: LabelC, New: LabelB, Stats: VoteStats{N: 4, Positive: 4}}, out.Changes[0])
	})

	t.Run("three irrelevant votes drop B to C", func(t *testing.T) {
		out := rules.Apply(Ranking{"blog": LabelB}, votesFor("blog", "Irrelevant", 3))
		assert.Equal(t, LabelC, out.Ranking["blog"])
		require.Len(t, out.Changes, 1)
		assert.Equal(t, VoteStats{N: 3, Negative: 3}, out.Changes[0].Stats)
	})
}

func TestApplyThresholds(t *testing.T) {
	rules := DefaultLearningRules()

	tests := []struct {
		name  string
		start Label
		votes []Vote
		want  Label
	}{
		{
			name:  "promotion ratio boundary is inclusive",
			start: LabelB,
			votes: append(votesFor("s", "Vorstoss", 3), Vote{Source: "s", Decision: "other"}),
			want:  LabelA,
		},
		{
			name:  "three positive votes are not enough",
			start: LabelB,
			votes: votesFor("s", "MM", 3),
			want:  LabelB,
		},
		{
			name:  "A saturates",
			start: LabelA,
			votes: votesFor("s", "NL", 6),
			want:  LabelA,
		},
		{
			name:  "C saturates",
			start: LabelC,
			votes: votesFor("s", "Irrelevant", 5),
			want:  LabelC,
		},
		{
			name:  "demotion at two of three",
			start: LabelA,
			votes: append(votesFor("s", "Irrelevant", 2), Vote{Source: "s", Decision: "MM"}),
			want:  LabelB,
		},
		{
			name:  "mixed votes keep the label",
			start: LabelB,
			votes: append(votesFor("s", "MM", 3), votesFor("s", "Irrelevant", 2)...),
			want:  LabelB,
		},
		{
			name:  "neutral decisions only dilute",
			start: LabelB,
			votes: append(votesFor("s", "MM", 2), votesFor("s", "Später", 2)...),
			want:  LabelB,
		},
		{
			name:  "one dissent does not block promotion",
			start: LabelB,
			votes: append(votesFor("s", "MM", 3), Vote{Source: "s", Decision: "Irrelevant"}),
			want:  LabelA,
		},
		{
			name:  "decisions are case sensitive",
			start: LabelB,
			votes: votesFor("s", "mm", 4),
			want:  LabelB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := rules.Apply(Ranking{"s": tt.start}, tt.votes)
			assert.Equal(t, tt.want, out.Ranking["s"])
			assert.Equal(t, tt.want != tt.start, len(out.Changes) == 1)
		})
	}
}

func TestApplyLeavesUnvotedSourcesAlone(t *testing.T) {
	rules := DefaultLearningRules()
	ranking := Ranking{"quiet": LabelA, "loud": LabelB}

	out := rules.Apply(ranking, votesFor("loud", "MM", 4))

	assert.Equal(t, LabelA, out.Ranking["quiet"])
	assert.Equal(t, LabelA, out.Ranking["loud"])
	assert.Equal(t, LabelB, ranking["loud"], "input ranking must not be modified")
	require.Len(t, out.Stats, 1)
	assert.Equal(t, "loud", out.Stats[0].Source)
}

func TestApplyDefaultsAndCoercion(t *testing.T) {
	rules := DefaultLearningRules()
	ranking := Ranking{"odd": Label("z"), "lower": Label("a")}

	votes := append(votesFor("new", "Irrelevant", 3),
		Vote{Source: "", Decision: "MM"},
		Vote{Source: "odd", Decision: ""},
	)
	out := rules.Apply(ranking, votes)

	assert.Equal(t, LabelC, out.Ranking["new"], "unknown source starts at B")
	assert.Equal(t, LabelB, out.Ranking["odd"])
	assert.Equal(t, LabelA, out.Ranking["lower"])
	assert.NotContains(t, out.Ranking, "")
	require.Len(t, out.Stats, 1)
}

func TestApplyNoVotes(t *testing.T) {
	out := DefaultLearningRules().Apply(Ranking{"a": LabelC}, nil)
	assert.Equal(t, Ranking{"a": LabelC}, out.Ranking)
	assert.Empty(t, out.Changes)
	assert.Empty(t, out.Stats)
}

func TestRankingLearnerRun(t *testing.T) {
	rankings := &fakeRankings{current: Ranking{"nzz": LabelC, "idle": LabelA}}
	votes := &fakeVotes{votes: votesFor("nzz", "MM", 4)}
	reports := &fakeReports{}

	learner := NewRankingLearner(rankings, votes, reports, DefaultLearningRules(), zap.NewNop())
	res, err := learner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rankings.saves)
	assert.Equal(t, Ranking{"nzz": LabelB, "idle": LabelA}, rankings.saved)
	require.Len(t, reports.reports, 1)
	assert.Equal(t, res.Report, reports.reports[0])
	assert.Contains(t, res.Report, "- nzz: C → B (n=4, pos=4, neg=0)")
}

func TestRankingLearnerToleratesBrokenVotes(t *testing.T) {
	rankings := &fakeRankings{current: Ranking{"nzz": LabelA}}
	votes := &fakeVotes{err: errors.New("unreadable")}
	reports := &fakeReports{}

	learner := NewRankingLearner(rankings, votes, reports, DefaultLearningRules(), zap.NewNop())
	require.NoError(t, learner.Execute(context.Background()))

	assert.Equal(t, Ranking{"nzz": LabelA}, rankings.saved)
	require.Len(t, reports.reports, 1)
	assert.Contains(t, reports.reports[0], "Keine Votes gefunden (`content-factory/votes.csv`).")
	assert.Equal(t, "rank-learn", learner.Name())
}

func TestRankingLearnerStopsWhenRankingUnreadable(t *testing.T) {
	rankings := &fakeRankings{loadErr: errors.New("i/o timeout")}
	votes := &fakeVotes{votes: votesFor("new", "MM", 1)}
	reports := &fakeReports{}

	learner := NewRankingLearner(rankings, votes, reports, DefaultLearningRules(), zap.NewNop())
	_, err := learner.Run(context.Background())
	require.ErrorContains(t, err, "i/o timeout")

	assert.Zero(t, rankings.saves)
	assert.Empty(t, reports.reports)
}
