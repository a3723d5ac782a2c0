package core

import (
	"context"
	"errors"
	"time"
)

type fakeRankings struct {
	current Ranking
	loadErr error
	saved   Ranking
	saves   int
}

func (f *fakeRankings) Load(ctx context.Context) (Ranking, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.current, nil
}

func (f *fakeRankings) Save(ctx context.Context, ranking Ranking) error {
	f.saves++
	f.saved = ranking
	return nil
}

type fakeVotes struct {
	votes []Vote
	err   error
}

func (f *fakeVotes) Votes(ctx context.Context) ([]Vote, error) { return f.votes, f.err }
func (f *fakeVotes) Location() string                         { return "content-factory/votes.csv" }

type fakeReports struct {
	reports []string
}

func (f *fakeReports) WriteReport(ctx context.Context, report string) error {
	f.reports = append(f.reports, report)
	return nil
}

type fakeStates struct {
	state   *HeartbeatState
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeStates) Load(ctx context.Context) (*HeartbeatState, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.state, nil
}

func (f *fakeStates) Save(ctx context.Context, state *HeartbeatState) error {
	f.saves++
	f.state = state
	return f.saveErr
}

type fakeNotifier struct {
	calls [][]string
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, alerts []string) error {
	f.calls = append(f.calls, append([]string(nil), alerts...))
	return f.err
}

type fakeCheck struct {
	name   string
	alerts []string
	panics bool
	runs   int
}

func (c *fakeCheck) Name() string { return c.name }

func (c *fakeCheck) Run(ctx context.Context, now time.Time, state *HeartbeatState) []string {
	c.runs++
	if c.panics {
		panic(errors.New("boom"))
	}
	return c.alerts
}

func votesFor(source, decision string, n int) []Vote {
	out := make([]Vote, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Vote{Source: source, Decision: decision})
	}
	return out
}
