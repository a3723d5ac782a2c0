package core

import (
	"context"
	"time"
)

// RankingRepository loads and stores the source reputation mapping
type RankingRepository interface {
	// Load returns the persisted mapping. Missing or malformed documents
	// yield an empty mapping; a failed read is an error.
	Load(ctx context.Context) (Ranking, error)

	// Save replaces the persisted mapping
	Save(ctx context.Context, ranking Ranking) error
}

// VoteSource provides the accumulated vote records
type VoteSource interface {
	// Votes returns all valid votes; a missing log yields no votes
	Votes(ctx context.Context) ([]Vote, error)

	// Location names the vote log for the report
	Location() string
}

// ReportWriter persists the human readable learning report
type ReportWriter interface {
	WriteReport(ctx context.Context, report string) error
}

// StateRepository loads and stores the heartbeat state
type StateRepository interface {
	// Load returns the persisted state, NewHeartbeatState when absent or unreadable
	Load(ctx context.Context) (*HeartbeatState, error)

	// Save replaces the persisted state
	Save(ctx context.Context, state *HeartbeatState) error
}

// DocumentStore keeps opaque named documents
type DocumentStore interface {
	// Get returns ErrNotFound when name has never been written
	Get(ctx context.Context, name string) ([]byte, error)

	// Put replaces the document stored under name
	Put(ctx context.Context, name string, body []byte) error
}

// Notifier delivers the consolidated alert message
type Notifier interface {
	Notify(ctx context.Context, alerts []string) error
}

// Check is one heartbeat observation. Run never fails; problems are either
// reported as alert strings or swallowed.
type Check interface {
	Name() string
	Run(ctx context.Context, now time.Time, state *HeartbeatState) []string
}

// CommandResult is the outcome of one subprocess call
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Success reports a zero exit status without execution error
func (r CommandResult) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Output returns stderr when present, stdout otherwise
func (r CommandResult) Output() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	if r.Stdout != "" {
		return r.Stdout
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return ""
}

// CommandRunner executes external programs with a bounded runtime
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) CommandResult
}

// InjectionVerdict is a model's opinion on a single note file
type InjectionVerdict struct {
	Suspicious  bool
	Excerpt     string
	Explanation string
	ModelUsed   string
}

// InjectionReviewer asks a language model whether text tries to subvert
// the assistant that later reads it.
type InjectionReviewer interface {
	Review(ctx context.Context, path string, text string) (*InjectionVerdict, error)
}
