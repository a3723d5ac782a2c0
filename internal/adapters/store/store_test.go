package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/mikey/workspace-ops/internal/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func exerciseStore(t *testing.T, docs core.DocumentStore, name string) {
	t.Helper()
	ctx := context.Background()

	_, err := docs.Get(ctx, name)
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, docs.Put(ctx, name, []byte(`{"a":"A"}`)))
	body, err := docs.Get(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"A"}`, string(body))

	require.NoError(t, docs.Put(ctx, name, []byte(`{}`)))
	body, err = docs.Get(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(body))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "doc.json")
	exerciseStore(t, NewFileStore(zap.NewNop()), path)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files are left behind")
	assert.Equal(t, "doc.json", entries[0].Name())
}

func TestMemoryStore(t *testing.T) {
	docs := NewMemoryStore(zap.NewNop())
	exerciseStore(t, docs, "state")

	body := []byte("mutable")
	require.NoError(t, docs.Put(context.Background(), "copy", body))
	body[0] = 'X'
	got, err := docs.Get(context.Background(), "copy")
	require.NoError(t, err)
	assert.Equal(t, "mutable", string(got))
}

func TestSQLiteStore(t *testing.T) {
	docs, err := NewSQLiteStore(filepath.Join(t.TempDir(), "docs.db"), zap.NewNop())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer docs.Stop()

	exerciseStore(t, docs, "/ws/memory/heartbeat-state.json")
}

func TestRankingRepository(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryStore(zap.NewNop())
	repo := NewRankingRepository(docs, "ranking", zap.NewNop())

	ranking, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, ranking)

	require.NoError(t, repo.Save(ctx, core.Ranking{"zeit.de": core.LabelC, "admin.ch": core.LabelA, "b&b": core.Label("x")}))
	body, err := docs.Get(ctx, "ranking")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"admin.ch\": \"A\",\n  \"b&b\": \"B\",\n  \"zeit.de\": \"C\"\n}\n", string(body))

	ranking, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Ranking{"zeit.de": core.LabelC, "admin.ch": core.LabelA, "b&b": core.LabelB}, ranking)
}

func TestRankingRepositoryCoercesAndTolerates(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryStore(zap.NewNop())
	repo := NewRankingRepository(docs, "ranking", zap.NewNop())

	require.NoError(t, docs.Put(ctx, "ranking", []byte(`{"a": "a", "b": 5, "c": null, "d": "C "}`)))
	ranking, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Ranking{"a": core.LabelA, "b": core.LabelB, "c": core.LabelB, "d": core.LabelC}, ranking)

	require.NoError(t, docs.Put(ctx, "ranking", []byte(`["not", "an", "object"]`)))
	ranking, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, ranking)
}

func TestStateRepository(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryStore(zap.NewNop())
	repo := NewStateRepository(docs, "state", zap.NewNop())

	state, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.LastChecks)
	assert.NotNil(t, state.LastChecks)

	// Document written by an earlier version of the heartbeat.
	legacy := `{"lastChecks": {"daily": 1767225600, "weekly": 1767000000},
		"lastBackup": {"at": 1767225600, "iso": "2026-01-01T00:00:00+00:00", "status": "ok", "detail": "no changes"},
		"lastRun": {"at": 1767225600, "iso": "2026-01-01T00:00:00+00:00", "alertsCount": 2}}`
	require.NoError(t, docs.Put(ctx, "state", []byte(legacy)))

	state, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1767225600), state.LastChecks[core.CadenceDaily])
	assert.Equal(t, int64(1767000000), state.LastChecks[core.CadenceWeekly])
	require.NotNil(t, state.LastBackup)
	assert.Equal(t, "no changes", state.LastBackup.Detail)
	require.NotNil(t, state.LastRun)
	assert.Equal(t, 2, state.LastRun.AlertsCount)

	state.LastChecks[core.CadenceMonthly] = 1767300000
	require.NoError(t, repo.Save(ctx, state))
	again, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, again)

	require.NoError(t, docs.Put(ctx, "state", []byte("{broken")))
	state, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.NewHeartbeatState(), state)
}

type unreachableStore struct {
	*MemoryStore
	err error
}

func (s *unreachableStore) Get(ctx context.Context, name string) ([]byte, error) {
	return nil, s.err
}

type staticVotes []core.Vote

func (v staticVotes) Votes(ctx context.Context) ([]core.Vote, error) { return v, nil }
func (v staticVotes) Location() string                              { return "content-factory/votes.csv" }

type discardReports struct{ writes int }

func (d *discardReports) WriteReport(ctx context.Context, report string) error {
	d.writes++
	return nil
}

func TestRankingRepositoryReadFailureKeepsStoredMapping(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore(zap.NewNop())
	stored := "{\n  \"blick\": \"C\",\n  \"nzz\": \"A\",\n  \"srf\": \"A\"\n}\n"
	require.NoError(t, mem.Put(ctx, "ranking", []byte(stored)))

	docs := &unreachableStore{MemoryStore: mem, err: errors.New("i/o timeout")}
	repo := NewRankingRepository(docs, "ranking", zap.NewNop())

	_, err := repo.Load(ctx)
	require.ErrorContains(t, err, "i/o timeout")

	reports := &discardReports{}
	learner := core.NewRankingLearner(repo, staticVotes{{Source: "new", Decision: "MM"}}, reports,
		core.DefaultLearningRules(), zap.NewNop())
	_, err = learner.Run(ctx)
	require.Error(t, err)

	body, err := mem.Get(ctx, "ranking")
	require.NoError(t, err)
	assert.Equal(t, stored, string(body))
	assert.Zero(t, reports.writes)
}

func TestStateRepositoryKeepsWhatParses(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryStore(zap.NewNop())
	repo := NewStateRepository(docs, "state", zap.NewNop())

	doc := `{"lastChecks": {"daily": 1767225600.75, "weekly": "soon", "monthly": 1767000000},
		"lastBackup": {"at": "yesterday"},
		"lastRun": {"at": 1767225600, "iso": "2026-01-01T00:00:00Z", "alertsCount": 1}}`
	require.NoError(t, docs.Put(ctx, "state", []byte(doc)))

	state, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[core.Cadence]int64{
		core.CadenceDaily:   1767225600,
		core.CadenceMonthly: 1767000000,
	}, state.LastChecks)
	assert.Nil(t, state.LastBackup)
	require.NotNil(t, state.LastRun)
	assert.Equal(t, 1, state.LastRun.AlertsCount)

	require.NoError(t, docs.Put(ctx, "state", []byte(`{"lastChecks": [1, 2], "lastRun": null}`)))
	state, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.NewHeartbeatState(), state)
}
