package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewProjectCommand creates the project command group.
func NewProjectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "add <name>",
		Short:         "Create a project",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			id, err := app.Store.CreateProject(cmd.Context(), app.User, args[0], app.Now)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to create project", err)
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Created project %d: %s", id, args[0]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List projects",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			projects, err := app.Store.Projects(cmd.Context(), app.User)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list projects", err)
			}

			out := formatter(cmd, rootOpts)
			if rootOpts.Format == "json" {
				return out.Success(projects)
			}
			if len(projects) == 0 {
				return out.Success("No projects yet.")
			}
			var b strings.Builder
			for _, p := range projects {
				fmt.Fprintf(&b, "%4d  %s\n", p.ID, p.Name)
			}
			return out.Success(strings.TrimRight(b.String(), "\n"))
		},
	})

	return cmd
}

// NewLabelCommand creates the label command group.
func NewLabelCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage labels and attach them to tasks",
	}

	var color string
	add := &cobra.Command{
		Use:           "add <name>",
		Short:         "Create a label",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			id, err := app.Store.CreateLabel(cmd.Context(), app.User, args[0], color, app.Now)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to create label", err)
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Created label %d: %s", id, args[0]))
		},
	}
	add.Flags().StringVar(&color, "color", "#7aa2f7", "hex color for calendar and chart display")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:           "assign <task-id> <label-id>",
		Short:         "Attach a label to a task",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			labelID, err := parseID(args[1])
			if err != nil {
				return err
			}
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.AssignLabel(cmd.Context(), app.User, taskID, labelID); err != nil {
				return wrapStoreError("failed to assign label", err)
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Labeled task %d with label %d", taskID, labelID))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List labels",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			labels, err := app.Store.Labels(cmd.Context(), app.User)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list labels", err)
			}

			out := formatter(cmd, rootOpts)
			if rootOpts.Format == "json" {
				return out.Success(labels)
			}
			if len(labels) == 0 {
				return out.Success("No labels yet.")
			}
			var b strings.Builder
			for _, l := range labels {
				fmt.Fprintf(&b, "%4d  %-20s %s\n", l.ID, l.Name, l.Color)
			}
			return out.Success(strings.TrimRight(b.String(), "\n"))
		},
	})

	return cmd
}
