package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goalixa/Goalixa/internal/engine"
)

// HabitView is a habit decorated with its current streak.
type HabitView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	Streak    int    `json:"streak"`
	DoneToday bool   `json:"done_today"`
}

// NewHabitCommand creates the habit command group.
func NewHabitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Track daily habits and streaks",
	}
	cmd.AddCommand(newHabitAddCommand(rootOpts))
	cmd.AddCommand(newHabitLogCommand(rootOpts))
	cmd.AddCommand(newHabitUnlogCommand(rootOpts))
	cmd.AddCommand(newHabitListCommand(rootOpts))
	return cmd
}

func newHabitAddCommand(rootOpts *RootOptions) *cobra.Command {
	var timeOfDay, notes string

	cmd := &cobra.Command{
		Use:           "add <name>",
		Short:         "Create a daily habit",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			id, err := app.Store.CreateHabit(cmd.Context(), app.User, args[0], "daily", timeOfDay, notes, app.Now)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to create habit", err)
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Created habit %d: %s", id, args[0]))
		},
	}
	cmd.Flags().StringVar(&timeOfDay, "time", "", "preferred time of day (15:04)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

// habitDate resolves the --date flag, defaulting to today in the
// session timezone.
func habitDate(app *App, flag string) (engine.Date, error) {
	if flag == "" {
		return app.Today(), nil
	}
	d, ok := engine.ParseDate(flag)
	if !ok {
		return engine.Date{}, NewExitError(ExitCommandError, fmt.Sprintf("invalid --date %q (want YYYY-MM-DD)", flag))
	}
	return d, nil
}

func newHabitLogCommand(rootOpts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:           "log <habit-id>",
		Short:         "Mark a habit done for a day",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			habitID, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			d, err := habitDate(app, date)
			if err != nil {
				return err
			}
			if err := app.Store.LogHabit(cmd.Context(), app.User, habitID, d, app.Now); err != nil {
				return wrapStoreError("failed to log habit", err)
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Logged habit %d for %s", habitID, d))
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to log (YYYY-MM-DD, default today)")
	return cmd
}

func newHabitUnlogCommand(rootOpts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:           "unlog <habit-id>",
		Short:         "Remove a habit completion for a day",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			habitID, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			d, err := habitDate(app, date)
			if err != nil {
				return err
			}
			if err := app.Store.UnlogHabit(cmd.Context(), app.User, habitID, d); err != nil {
				return wrapStoreError("failed to unlog habit", err)
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Unlogged habit %d for %s", habitID, d))
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to unlog (YYYY-MM-DD, default today)")
	return cmd
}

func newHabitListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List habits with current streaks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			habits, err := app.Store.Habits(cmd.Context(), app.User)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list habits", err)
			}
			logs, err := app.Store.HabitLogSets(cmd.Context(), app.User)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load habit logs", err)
			}

			today := app.Today()
			views := make([]HabitView, 0, len(habits))
			for _, h := range habits {
				done := logs[h.ID]
				views = append(views, HabitView{
					ID:        h.ID,
					Name:      h.Name,
					Frequency: h.Frequency,
					Streak:    engine.Streak(done, today),
					DoneToday: done.Has(today),
				})
			}

			out := formatter(cmd, rootOpts)
			if rootOpts.Format == "json" {
				return out.Success(views)
			}
			if len(views) == 0 {
				return out.Success("No habits yet. Create one with: goalixa habit add <name>")
			}
			var b strings.Builder
			for _, v := range views {
				mark := " "
				if v.DoneToday {
					mark = "x"
				}
				fmt.Fprintf(&b, "[%s] %4d  %-30s streak %d\n", mark, v.ID, v.Name, v.Streak)
			}
			return out.Success(strings.TrimRight(b.String(), "\n"))
		},
	}
}
