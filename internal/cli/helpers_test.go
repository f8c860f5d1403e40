package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goalixa/Goalixa/internal/config"
)

// cliEnv drives the command tree against a temp database with a
// controllable clock. Each run() builds a fresh command tree so flag
// state never leaks between invocations.
type cliEnv struct {
	dbPath string
	now    time.Time
	cfg    config.Config
}

func newEnv(t *testing.T) *cliEnv {
	t.Helper()
	return &cliEnv{
		dbPath: filepath.Join(t.TempDir(), "goalixa.db"),
		now:    time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		cfg: config.Config{
			Timezone:            "UTC",
			MaxEntryHours:       12,
			ReminderPollMinutes: 1,
		},
	}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(&RootOptions{
		DBPath: e.dbPath,
		Now:    func() time.Time { return e.now },
		Config: &e.cfg,
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "command %v failed: %s", args, out)
	return out
}
