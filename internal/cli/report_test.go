package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalixa/Goalixa/internal/engine"
)

// trackSession runs start/stop against the env clock.
func trackSession(t *testing.T, env *cliEnv, taskID string, start, end time.Time) {
	t.Helper()
	env.now = start
	env.mustRun(t, "task", "start", taskID)
	env.now = end
	env.mustRun(t, "task", "stop", taskID)
}

func TestReportDaysGolden(t *testing.T) {
	env := newEnv(t)

	env.now = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	env.mustRun(t, "task", "add", "deep work")
	trackSession(t, env, "1",
		time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 10, 11, 30, 0, 0, time.UTC))
	trackSession(t, env, "1",
		time.Date(2025, time.March, 11, 13, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 11, 14, 0, 0, 0, time.UTC))

	env.now = time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC)
	out := env.mustRun(t, "--format", "json", "report", "days", "--from", "2025-03-10", "--to", "2025-03-12")

	g := goldie.New(t)
	g.Assert(t, "report_days", []byte(out))
}

func TestReportGroupsByProject(t *testing.T) {
	env := newEnv(t)

	env.now = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	env.mustRun(t, "project", "add", "client-a")
	env.mustRun(t, "task", "add", "billed", "--project", "1")
	env.mustRun(t, "task", "add", "untracked")

	trackSession(t, env, "1",
		time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))
	trackSession(t, env, "2",
		time.Date(2025, time.March, 10, 13, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC))

	env.now = time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)
	out := env.mustRun(t, "--format", "json", "report", "groups", "--by", "projects", "--days", "1")

	var resp struct {
		Data struct {
			TotalSeconds int64               `json:"total_seconds"`
			Groups       []engine.GroupTotal `json:"groups"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, int64(14400), resp.Data.TotalSeconds)
	require.Len(t, resp.Data.Groups, 2)
	assert.Equal(t, "client-a", resp.Data.Groups[0].Label)
	assert.Equal(t, int64(10800), resp.Data.Groups[0].Seconds)
	assert.InDelta(t, 75.0, resp.Data.Groups[0].Percent, 0.01)
	assert.Equal(t, "(none)", resp.Data.Groups[1].Label)
}

func TestReportGroupsUnknownKey(t *testing.T) {
	env := newEnv(t)
	_, err := env.run(t, "report", "groups", "--by", "colors")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReportEventsClippedToRange(t *testing.T) {
	env := newEnv(t)

	env.now = time.Date(2025, time.March, 9, 8, 0, 0, 0, time.UTC)
	env.mustRun(t, "task", "add", "deep work")
	// Session spans midnight into the requested range.
	trackSession(t, env, "1",
		time.Date(2025, time.March, 9, 23, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 10, 1, 0, 0, 0, time.UTC))

	env.now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	out := env.mustRun(t, "--format", "json", "report", "events", "--from", "2025-03-10", "--to", "2025-03-10")

	var resp struct {
		Data []engine.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	ev := resp.Data[0]
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), ev.Start.UTC())
	assert.Equal(t, time.Date(2025, time.March, 10, 1, 0, 0, 0, time.UTC), ev.End.UTC())
	assert.Equal(t, engine.PaletteColor(1), ev.Color)
}

func TestReportRangeValidation(t *testing.T) {
	env := newEnv(t)

	_, err := env.run(t, "report", "days", "--from", "bogus", "--to", "2025-03-12")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = env.run(t, "report", "days", "--days", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
