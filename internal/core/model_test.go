package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelMoves(t *testing.T) {
	assert.Equal(t, LabelB, LabelC.Promote())
	assert.Equal(t, LabelA, LabelB.Promote())
	assert.Equal(t, LabelA, LabelA.Promote())
	assert.Equal(t, LabelB, LabelA.Demote())
	assert.Equal(t, LabelC, LabelB.Demote())
	assert.Equal(t, LabelC, LabelC.Demote())
}

func TestCoerceLabel(t *testing.T) {
	assert.Equal(t, LabelA, CoerceLabel(" a "))
	assert.Equal(t, LabelC, CoerceLabel(LabelC))
	assert.Equal(t, LabelB, CoerceLabel(nil))
	assert.Equal(t, LabelB, CoerceLabel(3.0))
	assert.Equal(t, LabelB, CoerceLabel("AA"))
}

func TestRankingGet(t *testing.T) {
	r := Ranking{"x": LabelA, "broken": Label("?")}
	assert.Equal(t, LabelA, r.Get("x"))
	assert.Equal(t, LabelB, r.Get("broken"))
	assert.Equal(t, LabelB, r.Get("missing"))
}

func TestDecisionSets(t *testing.T) {
	ds := NewDecisionSets([]string{"MM", "both"}, []string{"Irrelevant", "both"})
	assert.Equal(t, DecisionPositive, ds.Classify("MM"))
	assert.Equal(t, DecisionNegative, ds.Classify("Irrelevant"))
	assert.Equal(t, DecisionPositive, ds.Classify("both"))
	assert.Equal(t, DecisionNeutral, ds.Classify("Später"))
}

func TestVoteStatsRatios(t *testing.T) {
	assert.Zero(t, VoteStats{}.PositiveRatio())
	assert.Zero(t, VoteStats{}.NegativeRatio())
	assert.InDelta(t, 0.75, VoteStats{N: 4, Positive: 3}.PositiveRatio(), 1e-9)
	assert.InDelta(t, 0.5, VoteStats{N: 4, Negative: 2}.NegativeRatio(), 1e-9)
}

func TestRecordBackup(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewHeartbeatState()

	s.RecordBackup(now, Ok("committed + pushed"))
	require.NotNil(t, s.LastBackup)
	assert.Equal(t, BackupRecord{At: now.Unix(), ISO: "2026-01-02T03:04:05Z", Status: "ok", Detail: "committed + pushed"}, *s.LastBackup)

	s.RecordBackup(now, Fail(KindCommandFailed, "git push failed: denied"))
	assert.Equal(t, "error", s.LastBackup.Status)
	assert.Equal(t, "git push failed: denied", s.LastBackup.Detail)
}

func TestResult(t *testing.T) {
	assert.True(t, Ok("fine").OK())
	assert.False(t, Fail(KindMissingInput, "gone").OK())
	assert.Equal(t, KindUnexpected, Fail(KindNone, "?").Kind)
	assert.Equal(t, "command_failed", KindCommandFailed.String())
}
