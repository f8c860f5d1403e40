package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goalixa/Goalixa/internal/engine"
	"github.com/goalixa/Goalixa/internal/store"
)

// GoalView is a goal decorated with progress computed from tracked
// time in the goal's linked projects.
type GoalView struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Status        string      `json:"status"`
	Priority      string      `json:"priority"`
	TargetDate    engine.Date `json:"target_date,omitempty"`
	TargetSeconds int64       `json:"target_seconds"`
	TotalSeconds  int64       `json:"total_seconds"`
	Percent       float64     `json:"percent"`
}

// NewGoalCommand creates the goal command group.
func NewGoalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals and measure progress",
	}
	cmd.AddCommand(newGoalAddCommand(rootOpts))
	cmd.AddCommand(newGoalListCommand(rootOpts))
	return cmd
}

func newGoalAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		in          store.GoalInput
		targetHours float64
		projects    string
	)

	cmd := &cobra.Command{
		Use:           "add <name>",
		Short:         "Create a goal",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			in.Name = args[0]
			in.TargetSeconds = int64(targetHours * 3600)
			for _, tok := range strings.Split(projects, ",") {
				tok = strings.TrimSpace(tok)
				if tok == "" {
					continue
				}
				id, err := strconv.ParseInt(tok, 10, 64)
				if err != nil || id <= 0 {
					return NewExitError(ExitCommandError, fmt.Sprintf("invalid project id %q in --projects", tok))
				}
				in.ProjectIDs = append(in.ProjectIDs, id)
			}

			id, err := app.Store.CreateGoal(cmd.Context(), app.User, in, app.Now)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to create goal", err)
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Created goal %d: %s", id, args[0]))
		},
	}

	cmd.Flags().StringVar(&in.Description, "description", "", "free-form description")
	cmd.Flags().StringVar(&in.Priority, "priority", "medium", "priority (low|medium|high)")
	cmd.Flags().StringVar(&in.TargetDate, "target-date", "", "target date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&targetHours, "target-hours", 0, "tracked-time target in hours")
	cmd.Flags().StringVar(&projects, "projects", "", "comma-separated project ids the goal counts")
	return cmd
}

func newGoalListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List goals with progress",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			views, err := goalViews(cmd.Context(), app)
			if err != nil {
				return err
			}

			out := formatter(cmd, rootOpts)
			if rootOpts.Format == "json" {
				return out.Success(views)
			}
			if len(views) == 0 {
				return out.Success("No goals yet.")
			}
			var b strings.Builder
			for _, v := range views {
				target := "-"
				if !v.TargetDate.IsZero() {
					target = v.TargetDate.String()
				}
				fmt.Fprintf(&b, "%4d  %-30s %s  %s / %s (%.0f%%)  by %s\n",
					v.ID, v.Name, renderBar(v.Percent),
					formatDuration(v.TotalSeconds), formatDuration(v.TargetSeconds),
					v.Percent, target)
			}
			return out.Success(strings.TrimRight(b.String(), "\n"))
		},
	}
}

// goalViews computes each goal's progress from tracked time in its
// linked projects. A goal with no linked projects counts all of the
// user's tracked time.
func goalViews(ctx context.Context, app *App) ([]GoalView, error) {
	goals, err := app.Store.Goals(ctx, app.User)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list goals", err)
	}
	if len(goals) == 0 {
		return []GoalView{}, nil
	}

	grouped, err := app.Store.EntriesWithGroup(ctx, app.User, time.Time{}, app.Now, store.GroupProjects)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load entries", err)
	}
	projects, err := app.Store.Projects(ctx, app.User)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list projects", err)
	}
	nameByID := make(map[int64]string, len(projects))
	for _, p := range projects {
		nameByID[p.ID] = p.Name
	}

	secondsByProject := make(map[string]int64)
	var allSeconds int64
	for _, g := range grouped {
		secs := engine.RollingWindow([]engine.Interval{g.Interval}, time.Time{}, app.Now, app.Now)
		secondsByProject[g.Key] += secs
		allSeconds += secs
	}

	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		var total int64
		if len(g.ProjectIDs) == 0 {
			total = allSeconds
		} else {
			for _, pid := range g.ProjectIDs {
				total += secondsByProject[nameByID[pid]]
			}
		}
		progress := engine.Progress(total, g.TargetSeconds)
		views = append(views, GoalView{
			ID:            g.ID,
			Name:          g.Name,
			Status:        g.Status,
			Priority:      g.Priority,
			TargetDate:    g.TargetDate,
			TargetSeconds: g.TargetSeconds,
			TotalSeconds:  progress.TotalSeconds,
			Percent:       progress.Percent,
		})
	}
	return views, nil
}
