package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskViewsFromJSON(t *testing.T, out string) []TaskView {
	t.Helper()
	var resp struct {
		Status string     `json:"status"`
		Data   []TaskView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestTaskStartStopTotals(t *testing.T) {
	env := newEnv(t)

	env.now = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	env.mustRun(t, "task", "add", "deep work")

	env.now = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	env.mustRun(t, "task", "start", "1")

	// While running, totals accrue up to now.
	env.now = time.Date(2025, time.March, 10, 10, 30, 0, 0, time.UTC)
	views := taskViewsFromJSON(t, env.mustRun(t, "--format", "json", "task", "list"))
	require.Len(t, views, 1)
	assert.True(t, views[0].Running)
	assert.Equal(t, int64(5400), views[0].TodaySeconds)
	assert.Equal(t, int64(5400), views[0].TotalSeconds)

	env.now = time.Date(2025, time.March, 10, 11, 0, 0, 0, time.UTC)
	env.mustRun(t, "task", "stop", "1")

	// Stopped: totals freeze even as now advances.
	env.now = time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)
	views = taskViewsFromJSON(t, env.mustRun(t, "--format", "json", "task", "list"))
	require.Len(t, views, 1)
	assert.False(t, views[0].Running)
	assert.Equal(t, int64(7200), views[0].TotalSeconds)
	assert.Zero(t, views[0].TodaySeconds)
	assert.Zero(t, views[0].Last24hSec)
}

func TestTaskStartTwiceFails(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "task", "add", "deep work")
	env.mustRun(t, "task", "start", "1")

	out, err := env.run(t, "task", "start", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "already running")
}

func TestTaskStartUnknownTask(t *testing.T) {
	env := newEnv(t)
	_, err := env.run(t, "task", "start", "42")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTaskStopIdleIsNoOp(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "task", "add", "deep work")
	out := env.mustRun(t, "task", "stop", "1")
	assert.Contains(t, out, "was not running")
}

func TestTaskInvalidID(t *testing.T) {
	env := newEnv(t)
	_, err := env.run(t, "task", "start", "abc")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTaskDoneStopsTracking(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "task", "add", "deep work")
	env.mustRun(t, "task", "start", "1")

	env.now = env.now.Add(time.Hour)
	env.mustRun(t, "task", "done", "1")

	views := taskViewsFromJSON(t, env.mustRun(t, "--format", "json", "task", "list"))
	require.Len(t, views, 1)
	assert.Equal(t, "done", views[0].Status)
	assert.False(t, views[0].Running)
	assert.Equal(t, int64(3600), views[0].TotalSeconds)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2h05m", formatDuration(7500))
	assert.Equal(t, "45m", formatDuration(2700))
	assert.Equal(t, "30s", formatDuration(30))
	assert.Equal(t, "0s", formatDuration(0))
}
