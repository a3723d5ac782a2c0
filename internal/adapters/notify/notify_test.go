package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/workspace-ops/internal/core"
)

const header = "🚨 Health Heartbeat Alert"

type recordingRunner struct {
	result core.CommandResult
	dir    string
	name   string
	args   []string
	calls  int
}

func (r *recordingRunner) Run(ctx context.Context, dir string, name string, args ...string) core.CommandResult {
	r.calls++
	r.dir, r.name, r.args = dir, name, args
	return r.result
}

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestCommandNotifier(t *testing.T) {
	runner := &recordingRunner{}
	n := NewCommandNotifier(runner, "/ws", "openclaw", "telegram", "12345", header, zap.NewNop())

	require.NoError(t, n.Notify(context.Background(), nil))
	assert.Zero(t, runner.calls)

	require.NoError(t, n.Notify(context.Background(), []string{"a", "b"}))
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "/ws", runner.dir)
	assert.Equal(t, "openclaw", runner.name)
	assert.Equal(t, []string{
		"message", "send",
		"--channel", "telegram",
		"--target", "12345",
		"--message", header + "\n\n- a\n- b",
	}, runner.args)
}

func TestCommandNotifierFailure(t *testing.T) {
	runner := &recordingRunner{result: core.CommandResult{ExitCode: 2, Stderr: "unknown target"}}
	n := NewCommandNotifier(runner, "/ws", "openclaw", "telegram", "", header, zap.NewNop())

	err := n.Notify(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target")
}

func TestTelegramNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramNotifier("token", 42, header, zap.NewNop())
	n.sender = sender

	require.NoError(t, n.Notify(context.Background(), []string{"disk"}))
	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, header+"\n\n- disk", msg.Text)
}

func TestTelegramNotifierClipsLongMessages(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramNotifier("token", 42, header, zap.NewNop())
	n.sender = sender

	require.NoError(t, n.Notify(context.Background(), []string{strings.Repeat("é", 5000)}))
	msg := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, telegramMaxRunes, len([]rune(msg.Text)))
	assert.True(t, strings.HasSuffix(msg.Text, "…"))
}

func TestTelegramNotifierRequiresToken(t *testing.T) {
	n := NewTelegramNotifier("", 42, header, zap.NewNop())
	assert.Error(t, n.Notify(context.Background(), []string{"x"}))
	assert.NoError(t, n.Notify(context.Background(), nil))
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(&buf, header, zap.NewNop())

	require.NoError(t, n.Notify(context.Background(), nil))
	assert.Empty(t, buf.String())

	require.NoError(t, n.Notify(context.Background(), []string{"one", "two"}))
	assert.Equal(t, header+"\n\n- one\n- two\n", buf.String())
}
