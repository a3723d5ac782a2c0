package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned by document stores when nothing has been written
// under a name yet.
var ErrNotFound = errors.New("document not found")

// Label is the ordinal trust rating of a source. A > B > C.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"

	// DefaultLabel is assumed for sources that have never been rated
	DefaultLabel = LabelB
)

// Valid reports whether l is one of A, B or C
func (l Label) Valid() bool {
	switch l {
	case LabelA, LabelB, LabelC:
		return true
	}
	return false
}

// Promote moves the label one tier up, saturating at A
func (l Label) Promote() Label {
	switch l {
	case LabelC:
		return LabelB
	case LabelB, LabelA:
		return LabelA
	}
	return DefaultLabel
}

// Demote moves the label one tier down, saturating at C
func (l Label) Demote() Label {
	switch l {
	case LabelA:
		return LabelB
	case LabelB, LabelC:
		return LabelC
	}
	return DefaultLabel
}

// CoerceLabel converts an arbitrary persisted value into a label. Anything
// that is not A, B or C after trimming and upper-casing becomes B.
func CoerceLabel(v interface{}) Label {
	var s string
	switch t := v.(type) {
	case nil:
		return DefaultLabel
	case string:
		s = t
	case Label:
		s = string(t)
	default:
		s = fmt.Sprint(t)
	}
	l := Label(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return DefaultLabel
	}
	return l
}

// Ranking maps source names to their label
type Ranking map[string]Label

// Get returns the label of source, DefaultLabel when unseen
func (r Ranking) Get(source string) Label {
	if l, ok := r[source]; ok && l.Valid() {
		return l
	}
	return DefaultLabel
}

// Clone returns a copy with every label coerced to a valid value
func (r Ranking) Clone() Ranking {
	out := make(Ranking, len(r))
	for k, v := range r {
		out[k] = CoerceLabel(v)
	}
	return out
}

// Vote is one manual decision recorded against a source
type Vote struct {
	Source   string
	Decision string
}

// DecisionClass is the outcome class of a vote decision
type DecisionClass int

const (
	DecisionNeutral DecisionClass = iota
	DecisionPositive
	DecisionNegative
)

// DecisionSets classifies decision strings by exact membership
type DecisionSets struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

// NewDecisionSets builds the two label sets. A decision listed in both is
// treated as positive.
func NewDecisionSets(positive, negative []string) DecisionSets {
	ds := DecisionSets{
		positive: make(map[string]struct{}, len(positive)),
		negative: make(map[string]struct{}, len(negative)),
	}
	for _, p := range positive {
		ds.positive[p] = struct{}{}
	}
	for _, n := range negative {
		ds.negative[n] = struct{}{}
	}
	return ds
}

// Classify returns the class of a decision
func (ds DecisionSets) Classify(decision string) DecisionClass {
	if _, ok := ds.positive[decision]; ok {
		return DecisionPositive
	}
	if _, ok := ds.negative[decision]; ok {
		return DecisionNegative
	}
	return DecisionNeutral
}

// VoteStats are the per-source counters of one learning run
type VoteStats struct {
	N        int
	Positive int
	Negative int
}

// PositiveRatio is Positive/N, zero when N is zero
func (s VoteStats) PositiveRatio() float64 {
	if s.N == 0 {
		return 0
	}
	return float64(s.Positive) / float64(s.N)
}

// NegativeRatio is Negative/N, zero when N is zero
func (s VoteStats) NegativeRatio() float64 {
	if s.N == 0 {
		return 0
	}
	return float64(s.Negative) / float64(s.N)
}

// LabelChange records a promotion or demotion
type LabelChange struct {
	Source string
	Old    Label
	New    Label
	Stats  VoteStats
}

// Cadence is a named recheck interval
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// BackupRecord is the outcome of the last workspace backup
type BackupRecord struct {
	At     int64  `json:"at"`
	ISO    string `json:"iso"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// RunRecord summarises the last heartbeat invocation
type RunRecord struct {
	ID          string    `json:"id,omitempty"`
	At          int64     `json:"at"`
	ISO         string    `json:"iso"`
	AlertsCount int       `json:"alertsCount"`
	Cadences    []Cadence `json:"cadences,omitempty"`
}

// HeartbeatState is persisted between heartbeat invocations
type HeartbeatState struct {
	LastChecks map[Cadence]int64 `json:"lastChecks"`
	LastBackup *BackupRecord     `json:"lastBackup"`
	LastRun    *RunRecord        `json:"lastRun"`
}

// NewHeartbeatState returns the state of a workspace that never ran a heartbeat
func NewHeartbeatState() *HeartbeatState {
	return &HeartbeatState{LastChecks: make(map[Cadence]int64)}
}

// RecordBackup stores the outcome of a backup attempt made at now
func (s *HeartbeatState) RecordBackup(now time.Time, res Result) {
	status := "ok"
	if !res.OK() {
		status = "error"
	}
	s.LastBackup = &BackupRecord{
		At:     now.Unix(),
		ISO:    now.UTC().Format(time.RFC3339),
		Status: status,
		Detail: res.Detail,
	}
}
