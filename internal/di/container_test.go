package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/workspace-ops/internal/config"
	"github.com/mikey/workspace-ops/internal/core"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestApplyFlags(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	applyFlags(cfg, &CLIFlags{Workspace: "/srv/ws", Storage: "memory", JSONLog: true, DryRun: true})

	assert.Equal(t, "/srv/ws", cfg.WorkspaceRoot())
	assert.Equal(t, "memory", cfg.GetStorage().Type)
	assert.Equal(t, "json", cfg.GetString("logging.format"))
	assert.True(t, cfg.GetAlert().DryRun)

	cfg = config.NewFromViper(config.NewEmptyViper())
	applyFlags(cfg, &CLIFlags{})
	assert.Equal(t, "file", cfg.GetStorage().Type)
	assert.False(t, cfg.GetAlert().DryRun)
}

func TestContainerRunsRankingLearner(t *testing.T) {
	ws := t.TempDir()
	configPath := filepath.Join(ws, "config.yaml")
	writeFile(t, configPath, "logging:\n  level: error\n")
	writeFile(t, filepath.Join(ws, "content-factory", "sources-ranking.json"), `{"nzz.ch": "C"}`)
	writeFile(t, filepath.Join(ws, "content-factory", "votes.csv"),
		"date,source,title,decision\n"+
			"2026-04-01,nzz.ch,a,MM\n"+
			"2026-04-02,nzz.ch,b,MM\n"+
			"2026-04-03,nzz.ch,c,FR\n"+
			"2026-04-04,nzz.ch,d,Vorstoss\n")

	container, err := BuildContainer(&CLIFlags{ConfigFile: configPath, Workspace: ws})
	require.NoError(t, err)

	err = container.Invoke(func(learner *core.RankingLearner) error {
		result, err := learner.Run(context.Background())
		if err != nil {
			return err
		}
		require.Len(t, result.Changes, 1)
		assert.Equal(t, core.Label("B"), result.Changes[0].New)
		return nil
	})
	require.NoError(t, err)

	ranking, err := os.ReadFile(filepath.Join(ws, "content-factory", "sources-ranking.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"nzz.ch\": \"B\"\n}\n", string(ranking))

	report, err := os.ReadFile(filepath.Join(ws, "content-factory", "runs", "ranking-learning-latest.md"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "nzz.ch")
}

func TestContainerReportsWorkspaceRelativeVotePath(t *testing.T) {
	ws := t.TempDir()
	configPath := filepath.Join(ws, "config.yaml")
	writeFile(t, configPath, "logging:\n  level: error\n")

	container, err := BuildContainer(&CLIFlags{ConfigFile: configPath, Workspace: ws})
	require.NoError(t, err)

	err = container.Invoke(func(learner *core.RankingLearner) error {
		result, err := learner.Run(context.Background())
		if err != nil {
			return err
		}
		assert.Contains(t, result.Report, "Keine Votes gefunden (`content-factory/votes.csv`).")
		assert.NotContains(t, result.Report, ws)
		return nil
	})
	require.NoError(t, err)
}

func TestContainerBuildsSequencer(t *testing.T) {
	ws := t.TempDir()
	configPath := filepath.Join(ws, "config.yaml")
	writeFile(t, configPath, "logging:\n  level: error\n")

	container, err := BuildContainer(&CLIFlags{ConfigFile: configPath, Workspace: ws, Storage: "memory", DryRun: true})
	require.NoError(t, err)

	err = container.Invoke(func(seq *core.HeartbeatSequencer) {
		assert.NotNil(t, seq)
		assert.Equal(t, "heartbeat", seq.Name())
	})
	assert.NoError(t, err)
}
