package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CadenceSchedule binds a cadence to its interval and checks
type CadenceSchedule struct {
	Cadence  Cadence
	Interval time.Duration
	Checks   []Check
}

// Due reports whether a cadence last run at lastRun (unix seconds, zero
// when never) must run again at now.
func Due(lastRun int64, interval time.Duration, now time.Time) bool {
	if lastRun <= 0 {
		return true
	}
	return now.Unix()-lastRun >= int64(interval/time.Second)
}

// HeartbeatResult is the outcome of one heartbeat invocation
type HeartbeatResult struct {
	Ran    []Cadence
	Alerts []string
	State  *HeartbeatState
	// Notified is true when an alert message was handed to the notifier
	Notified bool
}

// HeartbeatSequencer runs the cadence-gated health checks
type HeartbeatSequencer struct {
	states    StateRepository
	notifier  Notifier
	schedules []CadenceSchedule
	clock     func() time.Time
	logger    *zap.Logger
}

// NewHeartbeatSequencer creates a new sequencer. Schedules run in the order
// given; a nil clock means time.Now.
func NewHeartbeatSequencer(
	states StateRepository,
	notifier Notifier,
	schedules []CadenceSchedule,
	clock func() time.Time,
	logger *zap.Logger,
) *HeartbeatSequencer {
	if clock == nil {
		clock = time.Now
	}
	return &HeartbeatSequencer{
		states:    states,
		notifier:  notifier,
		schedules: schedules,
		clock:     clock,
		logger:    logger,
	}
}

// Name identifies the job
func (s *HeartbeatSequencer) Name() string {
	return "heartbeat"
}

// Execute runs one heartbeat and discards the result
func (s *HeartbeatSequencer) Execute(ctx context.Context) error {
	_, err := s.Run(ctx)
	return err
}

// Run executes every due cadence, persists the state and sends at most one
// alert message. The returned error only reports persistence or delivery
// failures; the state is saved in every case.
func (s *HeartbeatSequencer) Run(ctx context.Context) (*HeartbeatResult, error) {
	now := s.clock()

	state, err := s.states.Load(ctx)
	if err != nil || state == nil {
		if err != nil {
			s.logger.Warn("Failed to load heartbeat state, starting fresh", zap.Error(err))
		}
		state = NewHeartbeatState()
	}
	if state.LastChecks == nil {
		state.LastChecks = make(map[Cadence]int64)
	}

	result := &HeartbeatResult{State: state}

	for _, sched := range s.schedules {
		last := state.LastChecks[sched.Cadence]
		if !Due(last, sched.Interval, now) {
			s.logger.Debug("Cadence not due",
				zap.String("cadence", string(sched.Cadence)),
				zap.Int64("last_run", last))
			continue
		}

		s.logger.Info("Running cadence", zap.String("cadence", string(sched.Cadence)))
		for _, check := range sched.Checks {
			alerts := s.runCheck(ctx, check, now, state)
			result.Alerts = append(result.Alerts, alerts...)
		}
		state.LastChecks[sched.Cadence] = now.Unix()
		result.Ran = append(result.Ran, sched.Cadence)
	}

	state.LastRun = &RunRecord{
		ID:          uuid.New().String(),
		At:          now.Unix(),
		ISO:         now.UTC().Format(time.RFC3339),
		AlertsCount: len(result.Alerts),
		Cadences:    result.Ran,
	}

	var errs []error
	if err := s.states.Save(ctx, state); err != nil {
		s.logger.Error("Failed to save heartbeat state", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to save heartbeat state: %w", err))
	}

	if len(result.Alerts) > 0 {
		result.Notified = true
		if err := s.notifier.Notify(ctx, result.Alerts); err != nil {
			s.logger.Error("Failed to deliver alert", zap.Error(err), zap.Int("alerts", len(result.Alerts)))
			errs = append(errs, fmt.Errorf("failed to deliver alert: %w", err))
		}
	} else {
		s.logger.Info("Heartbeat clean", zap.Int("cadences_run", len(result.Ran)))
	}

	return result, errors.Join(errs...)
}

// runCheck isolates a single check so a panic cannot abort the run
func (s *HeartbeatSequencer) runCheck(ctx context.Context, check Check, now time.Time, state *HeartbeatState) (alerts []string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("Check panicked, ignoring",
				zap.String("check", check.Name()),
				zap.Any("panic", r))
			alerts = nil
		}
	}()

	alerts = check.Run(ctx, now, state)
	s.logger.Debug("Check finished",
		zap.String("check", check.Name()),
		zap.Int("alerts", len(alerts)))
	return alerts
}

// FormatAlertMessage renders the single outbound alert message
func FormatAlertMessage(header string, alerts []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i, a := range alerts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(a)
	}
	return b.String()
}
