package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/goalixa/Goalixa/internal/engine"
	"github.com/goalixa/Goalixa/internal/ui"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "dashboard",
		Short:         "Interactive terminal dashboard",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			load := func(now time.Time) (ui.Snapshot, error) {
				return loadSnapshot(cmd.Context(), app, now)
			}
			initial, err := load(app.Now)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load dashboard data", err)
			}
			if err := ui.Run(load, initial); err != nil {
				return WrapExitError(ExitFailure, "dashboard error", err)
			}
			return nil
		},
	}
}

// loadSnapshot gathers every pane's data against a single instant.
func loadSnapshot(ctx context.Context, app *App, now time.Time) (ui.Snapshot, error) {
	today := engine.LocalDate(now, app.Zone)

	weekStart := today.AddDays(-6)
	windowStart, _ := engine.DayBounds(weekStart, app.Zone)
	_, windowEnd := engine.DayBounds(today, app.Zone)
	entries, err := app.Store.EntriesOverlapping(ctx, app.User, windowStart, windowEnd)
	if err != nil {
		return ui.Snapshot{}, err
	}
	week := engine.RangeSeries(entries, weekStart, today, app.Zone, now)

	tasks, err := app.Store.Tasks(ctx, app.User)
	if err != nil {
		return ui.Snapshot{}, err
	}
	byTask := make(map[int64][]engine.Interval)
	running := make(map[int64]bool)
	for _, iv := range entries {
		byTask[iv.SubjectID] = append(byTask[iv.SubjectID], iv)
		if iv.Open() {
			running[iv.SubjectID] = true
		}
	}
	dayStart, dayEnd := engine.DayBounds(today, app.Zone)
	taskLines := make([]ui.TaskLine, 0, len(tasks))
	for _, t := range tasks {
		taskLines = append(taskLines, ui.TaskLine{
			Name:         t.Name,
			Running:      running[t.ID],
			TodaySeconds: engine.RollingWindow(byTask[t.ID], dayStart, dayEnd, now),
		})
	}

	habits, err := app.Store.Habits(ctx, app.User)
	if err != nil {
		return ui.Snapshot{}, err
	}
	logs, err := app.Store.HabitLogSets(ctx, app.User)
	if err != nil {
		return ui.Snapshot{}, err
	}
	habitLines := make([]ui.HabitLine, 0, len(habits))
	for _, h := range habits {
		habitLines = append(habitLines, ui.HabitLine{
			Name:      h.Name,
			Streak:    engine.Streak(logs[h.ID], today),
			DoneToday: logs[h.ID].Has(today),
		})
	}

	reminders, err := app.Store.Reminders(ctx, app.User)
	if err != nil {
		return ui.Snapshot{}, err
	}
	nowLocal := now.In(app.Zone)
	schedules := make([]engine.Schedule, 0, len(reminders))
	for _, r := range reminders {
		at, status := engine.NextOccurrence(r.Rule, nowLocal)
		schedules = append(schedules, engine.Schedule{At: at, Status: status})
	}

	return ui.Snapshot{
		Timezone:  app.ZoneName,
		Today:     today,
		Week:      week,
		TaskLines: taskLines,
		Habits:    habitLines,
		Reminders: engine.Summarize(schedules),
	}, nil
}
