package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goalixa/Goalixa/internal/engine"
)

// reconcileResult is the JSON payload for the reconcile command.
type reconcileResult struct {
	Timezone  string         `json:"timezone"`
	Open      int            `json:"open_entries"`
	Proposals []reconcileRow `json:"proposals"`
	Applied   bool           `json:"applied"`
}

type reconcileRow struct {
	EntryID string    `json:"entry_id"`
	TaskID  int64     `json:"task_id"`
	Started time.Time `json:"started_at"`
	End     time.Time `json:"proposed_end"`
}

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Find stale running entries and propose end times",
		Long: `Scans running entries for sessions that crossed the local day
boundary or exceeded the configured duration cap, and proposes end
times (end of the entry's starting day, or start plus the cap,
whichever is earlier). Without --apply nothing is written; with
--apply the proposed ends are persisted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			open, err := app.Store.OpenEntries(cmd.Context(), app.User)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load open entries", err)
			}

			todayStart, _ := engine.DayBounds(app.Today(), app.Zone)
			maxDuration := time.Duration(app.Cfg.MaxEntryHours) * time.Hour
			proposals := engine.Reconcile(open, todayStart, app.Now, maxDuration)

			byID := make(map[string]engine.Interval, len(open))
			for _, iv := range open {
				byID[iv.ID] = iv
			}
			rows := make([]reconcileRow, 0, len(proposals))
			for _, p := range proposals {
				rows = append(rows, reconcileRow{
					EntryID: p.IntervalID,
					TaskID:  byID[p.IntervalID].SubjectID,
					Started: byID[p.IntervalID].Start,
					End:     p.End,
				})
			}

			if apply {
				for _, p := range proposals {
					if err := app.Store.CloseEntry(cmd.Context(), app.User, p.IntervalID, p.End); err != nil {
						return WrapExitError(ExitCommandError, "failed to apply proposal", err)
					}
				}
			}

			out := formatter(cmd, rootOpts)
			if rootOpts.Format == "json" {
				return out.Success(reconcileResult{
					Timezone:  app.ZoneName,
					Open:      len(open),
					Proposals: rows,
					Applied:   apply,
				})
			}
			return out.Success(renderReconcile(rows, app.Zone, apply))
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "persist the proposed end times")
	return cmd
}

func renderReconcile(rows []reconcileRow, loc *time.Location, applied bool) string {
	if len(rows) == 0 {
		return "No stale entries."
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "entry %s (task %d)  started %s  close at %s\n",
			r.EntryID, r.TaskID,
			r.Started.In(loc).Format("2006-01-02 15:04"),
			r.End.In(loc).Format("2006-01-02 15:04"))
	}
	if applied {
		fmt.Fprintf(&b, "\nClosed %d entries.", len(rows))
	} else {
		fmt.Fprintf(&b, "\nRun with --apply to close %d entries.", len(rows))
	}
	return b.String()
}
