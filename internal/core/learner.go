package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LearningRules holds the promotion and demotion thresholds
type LearningRules struct {
	Decisions       DecisionSets
	PromoteMinVotes int
	PromoteRatio    float64
	DemoteMinVotes  int
	DemoteRatio     float64
}

// DefaultLearningRules returns the stock thresholds: promote at n>=4 with
// >=75% positive, demote at n>=3 with >=60% negative.
func DefaultLearningRules() LearningRules {
	return LearningRules{
		Decisions: NewDecisionSets(
			[]string{"MM", "Vorstoss", "NL", "FR", "Kampagne", "Parken"},
			[]string{"Irrelevant"},
		),
		PromoteMinVotes: 4,
		PromoteRatio:    0.75,
		DemoteMinVotes:  3,
		DemoteRatio:     0.60,
	}
}

// SourceStats pairs a source with its counters, in first-vote order
type SourceStats struct {
	Source string
	Stats  VoteStats
}

// LearningOutcome is the pure result of applying votes to a ranking
type LearningOutcome struct {
	Ranking Ranking
	Changes []LabelChange
	Stats   []SourceStats
}

// LearningResult is what a full learner run produced
type LearningResult struct {
	LearningOutcome
	Report string
}

// RankingLearner re-ranks sources from accumulated votes
type RankingLearner struct {
	rankings RankingRepository
	votes    VoteSource
	reports  ReportWriter
	rules    LearningRules
	logger   *zap.Logger
}

// NewRankingLearner creates a new ranking learner
func NewRankingLearner(
	rankings RankingRepository,
	votes VoteSource,
	reports ReportWriter,
	rules LearningRules,
	logger *zap.Logger,
) *RankingLearner {
	return &RankingLearner{
		rankings: rankings,
		votes:    votes,
		reports:  reports,
		rules:    rules,
		logger:   logger,
	}
}

// Name identifies the job
func (l *RankingLearner) Name() string {
	return "rank-learn"
}

// Execute runs the learner and discards the result
func (l *RankingLearner) Execute(ctx context.Context) error {
	_, err := l.Run(ctx)
	return err
}

// Run loads the ranking and votes, applies the rules, persists the full
// mapping and writes the report.
func (l *RankingLearner) Run(ctx context.Context) (*LearningResult, error) {
	current, err := l.rankings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranking: %w", err)
	}

	votes, err := l.votes.Votes(ctx)
	if err != nil {
		l.logger.Warn("Failed to load votes, treating as none", zap.Error(err))
		votes = nil
	}
	l.logger.Info("Loaded learning input",
		zap.Int("sources", len(current)),
		zap.Int("votes", len(votes)))

	outcome := l.rules.Apply(current, votes)

	if err := l.rankings.Save(ctx, outcome.Ranking); err != nil {
		return nil, fmt.Errorf("failed to save ranking: %w", err)
	}

	report := RenderLearningReport(outcome, l.votes.Location())
	if err := l.reports.WriteReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to write learning report: %w", err)
	}

	for _, c := range outcome.Changes {
		l.logger.Info("Source label changed",
			zap.String("source", c.Source),
			zap.String("old", string(c.Old)),
			zap.String("new", string(c.New)),
			zap.Int("n", c.Stats.N))
	}

	return &LearningResult{LearningOutcome: outcome, Report: report}, nil
}

// Apply computes the updated ranking. The input mapping is not modified and
// sources without votes keep their label.
func (r LearningRules) Apply(ranking Ranking, votes []Vote) LearningOutcome {
	stats := make(map[string]*VoteStats)
	var order []string
	for _, v := range votes {
		if v.Source == "" || v.Decision == "" {
			continue
		}
		st, ok := stats[v.Source]
		if !ok {
			st = &VoteStats{}
			stats[v.Source] = st
			order = append(order, v.Source)
		}
		st.N++
		switch r.Decisions.Classify(v.Decision) {
		case DecisionPositive:
			st.Positive++
		case DecisionNegative:
			st.Negative++
		}
	}

	out := LearningOutcome{Ranking: ranking.Clone()}
	for _, source := range order {
		st := *stats[source]
		out.Stats = append(out.Stats, SourceStats{Source: source, Stats: st})

		old := out.Ranking.Get(source)
		next := r.decide(old, st)
		out.Ranking[source] = next
		if next != old {
			out.Changes = append(out.Changes, LabelChange{Source: source, Old: old, New: next, Stats: st})
		}
	}
	return out
}

// decide applies promotion first; demotion is only considered when the
// promotion condition does not hold.
func (r LearningRules) decide(old Label, st VoteStats) Label {
	if st.N >= r.PromoteMinVotes && st.PositiveRatio() >= r.PromoteRatio {
		return old.Promote()
	}
	if st.N >= r.DemoteMinVotes && st.NegativeRatio() >= r.DemoteRatio {
		return old.Demote()
	}
	return old
}
