package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// RankingRepository stores the reputation mapping as a JSON object
type RankingRepository struct {
	docs   core.DocumentStore
	name   string
	logger *zap.Logger
}

// NewRankingRepository creates a ranking repository over docs
func NewRankingRepository(docs core.DocumentStore, name string, logger *zap.Logger) *RankingRepository {
	return &RankingRepository{docs: docs, name: name, logger: logger}
}

// Load returns the stored mapping with invalid labels coerced to B. Missing
// and malformed documents yield an empty mapping; any other read failure is
// returned so the caller does not overwrite a mapping it could not see.
func (r *RankingRepository) Load(ctx context.Context) (core.Ranking, error) {
	body, err := r.docs.Get(ctx, r.name)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Ranking{}, nil
		}
		return nil, fmt.Errorf("failed to read ranking %s: %w", r.name, err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		r.logger.Warn("Malformed ranking document, using empty", zap.String("name", r.name), zap.Error(err))
		return core.Ranking{}, nil
	}

	out := make(core.Ranking, len(raw))
	for source, v := range raw {
		label := core.CoerceLabel(v)
		if s, ok := v.(string); !ok || core.Label(s) != label {
			r.logger.Debug("Coerced ranking label",
				zap.String("source", source),
				zap.Any("value", v),
				zap.String("label", string(label)))
		}
		out[source] = label
	}
	return out, nil
}

// Save writes the full mapping with keys sorted and two-space indentation
func (r *RankingRepository) Save(ctx context.Context, ranking core.Ranking) error {
	clean := ranking.Clone()
	body, err := encodeJSON(clean)
	if err != nil {
		return fmt.Errorf("failed to encode ranking: %w", err)
	}
	return r.docs.Put(ctx, r.name, body)
}

// StateRepository stores the heartbeat state as a JSON document
type StateRepository struct {
	docs   core.DocumentStore
	name   string
	logger *zap.Logger
}

// NewStateRepository creates a heartbeat state repository over docs
func NewStateRepository(docs core.DocumentStore, name string, logger *zap.Logger) *StateRepository {
	return &StateRepository{docs: docs, name: name, logger: logger}
}

// Load returns the stored state, a fresh state when absent or unreadable
func (r *StateRepository) Load(ctx context.Context) (*core.HeartbeatState, error) {
	body, err := r.docs.Get(ctx, r.name)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			r.logger.Warn("Failed to read heartbeat state, starting fresh", zap.String("name", r.name), zap.Error(err))
		}
		return core.NewHeartbeatState(), nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		r.logger.Warn("Malformed heartbeat state, starting fresh", zap.String("name", r.name), zap.Error(err))
		return core.NewHeartbeatState(), nil
	}
	return r.decodeState(doc), nil
}

// decodeState keeps every part of the document that parses. A bad entry only
// loses itself, so one odd timestamp does not re-run every cadence.
func (r *StateRepository) decodeState(doc map[string]json.RawMessage) *core.HeartbeatState {
	state := core.NewHeartbeatState()

	if raw, ok := doc["lastChecks"]; ok {
		var checks map[string]json.RawMessage
		if err := json.Unmarshal(raw, &checks); err != nil {
			r.logger.Warn("Ignoring malformed lastChecks", zap.String("name", r.name), zap.Error(err))
		}
		for cadence, v := range checks {
			ts, ok := decodeTimestamp(v)
			if !ok {
				r.logger.Warn("Ignoring malformed check timestamp",
					zap.String("cadence", cadence),
					zap.ByteString("value", v))
				continue
			}
			state.LastChecks[core.Cadence(cadence)] = ts
		}
	}

	if raw, ok := doc["lastBackup"]; ok {
		var backup *core.BackupRecord
		if err := json.Unmarshal(raw, &backup); err != nil {
			r.logger.Warn("Ignoring malformed lastBackup", zap.String("name", r.name), zap.Error(err))
		} else {
			state.LastBackup = backup
		}
	}

	if raw, ok := doc["lastRun"]; ok {
		var run *core.RunRecord
		if err := json.Unmarshal(raw, &run); err != nil {
			r.logger.Warn("Ignoring malformed lastRun", zap.String("name", r.name), zap.Error(err))
		} else {
			state.LastRun = run
		}
	}

	return state
}

// decodeTimestamp accepts integer and fractional epoch seconds
func decodeTimestamp(raw json.RawMessage) (int64, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil || n == "" {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return int64(f), true
}

// Save writes the full state
func (r *StateRepository) Save(ctx context.Context, state *core.HeartbeatState) error {
	body, err := encodeJSON(state)
	if err != nil {
		return fmt.Errorf("failed to encode heartbeat state: %w", err)
	}
	return r.docs.Put(ctx, r.name, body)
}

// encodeJSON renders v indented, without HTML escaping and with a trailing newline
func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
