package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goalixa/Goalixa/internal/engine"
	"github.com/goalixa/Goalixa/internal/store"
)

// TaskView is a task decorated with tracked-time aggregates for
// display. All seconds are computed against the invocation's single
// "now" instant.
type TaskView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Project      string `json:"project,omitempty"`
	Status       string `json:"status"`
	Running      bool   `json:"running"`
	TotalSeconds int64  `json:"total_seconds"`
	TodaySeconds int64  `json:"today_seconds"`
	Last24hSec   int64  `json:"last_24h_seconds"`
}

// NewTaskCommand creates the task command group.
func NewTaskCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and track time against them",
	}
	cmd.AddCommand(newTaskAddCommand(rootOpts))
	cmd.AddCommand(newTaskListCommand(rootOpts))
	cmd.AddCommand(newTaskStartCommand(rootOpts))
	cmd.AddCommand(newTaskStopCommand(rootOpts))
	cmd.AddCommand(newTaskDoneCommand(rootOpts))
	return cmd
}

func newTaskAddCommand(rootOpts *RootOptions) *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:           "add <name>",
		Short:         "Create a task",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			id, err := app.Store.CreateTask(cmd.Context(), app.User, args[0], projectID, app.Now)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to create task", err)
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Created task %d: %s", id, args[0]))
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "project id to file the task under")
	return cmd
}

func newTaskListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List tasks with tracked-time totals",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			views, err := taskViews(cmd.Context(), app)
			if err != nil {
				return err
			}

			out := formatter(cmd, rootOpts)
			if rootOpts.Format == "json" {
				return out.Success(views)
			}
			return out.Success(renderTaskTable(views))
		},
	}
}

// taskViews joins tasks with their engine-computed time aggregates.
func taskViews(ctx context.Context, app *App) ([]TaskView, error) {
	tasks, err := app.Store.Tasks(ctx, app.User)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list tasks", err)
	}
	entries, err := app.Store.AllEntries(ctx, app.User)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load entries", err)
	}

	byTask := make(map[int64][]engine.Interval)
	running := make(map[int64]bool)
	for _, iv := range entries {
		byTask[iv.SubjectID] = append(byTask[iv.SubjectID], iv)
		if iv.Open() {
			running[iv.SubjectID] = true
		}
	}

	dayStart, dayEnd := engine.DayBounds(app.Today(), app.Zone)

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		ivs := byTask[t.ID]
		views = append(views, TaskView{
			ID:           t.ID,
			Name:         t.Name,
			Project:      t.ProjectName,
			Status:       t.Status,
			Running:      running[t.ID],
			TotalSeconds: engine.RollingWindow(ivs, time.Time{}, app.Now, app.Now),
			TodaySeconds: engine.RollingWindow(ivs, dayStart, dayEnd, app.Now),
			Last24hSec:   engine.RollingWindow(ivs, app.Now.Add(-24*time.Hour), app.Now, app.Now),
		})
	}
	return views, nil
}

func renderTaskTable(views []TaskView) string {
	if len(views) == 0 {
		return "No tasks yet. Create one with: goalixa task add <name>"
	}
	var b strings.Builder
	for _, v := range views {
		marker := " "
		if v.Running {
			marker = "*"
		}
		line := fmt.Sprintf("%s %4d  %-30s %-15s today %s  24h %s  total %s",
			marker, v.ID, v.Name, v.Project,
			formatDuration(v.TodaySeconds), formatDuration(v.Last24hSec), formatDuration(v.TotalSeconds))
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	b.WriteString("\n* = running")
	return b.String()
}

// formatDuration renders whole seconds as "2h05m" style text.
func formatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", seconds)
}

func newTaskStartCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "start <task-id>",
		Short:         "Start tracking time on a task",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			out := formatter(cmd, rootOpts)
			entryID, err := app.Store.StartEntry(cmd.Context(), app.User, taskID, app.Now)
			var already *store.AlreadyRunningError
			switch {
			case errors.As(err, &already):
				out.Error(ErrCodeConflict, fmt.Sprintf("task %d is already running", taskID), already.EntryID)
				return NewExitError(ExitFailure, "task already running")
			case err != nil:
				return wrapStoreError("failed to start task", err)
			}
			out.VerboseLog("opened entry %s", entryID)
			return out.Success(fmt.Sprintf("Started task %d", taskID))
		},
	}
}

func newTaskStopCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stop <task-id>",
		Short:         "Stop tracking time on a task",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			n, err := app.Store.StopEntry(cmd.Context(), app.User, taskID, app.Now)
			if err != nil {
				return wrapStoreError("failed to stop task", err)
			}
			if n == 0 {
				return formatter(cmd, rootOpts).Success(fmt.Sprintf("Task %d was not running", taskID))
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Stopped task %d", taskID))
		},
	}
}

func newTaskDoneCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "done <task-id>",
		Short:         "Mark a task completed (stops tracking first)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.Store.StopEntry(cmd.Context(), app.User, taskID, app.Now); err != nil {
				return wrapStoreError("failed to stop task", err)
			}
			if err := app.Store.CompleteTask(cmd.Context(), app.User, taskID, app.Now); err != nil {
				return wrapStoreError("failed to complete task", err)
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Completed task %d", taskID))
		},
	}
}

// parseID parses a positive integer argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q", s))
	}
	return id, nil
}

// wrapStoreError maps store errors onto exit codes: missing rows are
// command errors, everything else is a database error.
func wrapStoreError(message string, err error) error {
	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		return WrapExitError(ExitCommandError, notFound.Error(), err)
	}
	return WrapExitError(ExitCommandError, message, err)
}
