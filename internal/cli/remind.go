package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/spf13/cobra"

	"github.com/goalixa/Goalixa/internal/engine"
	"github.com/goalixa/Goalixa/internal/store"
)

// ReminderView is a reminder with its resolved next occurrence.
type ReminderView struct {
	ID       int64         `json:"id"`
	Title    string        `json:"title"`
	Priority string        `json:"priority"`
	Repeat   string        `json:"repeat"`
	Status   engine.Status `json:"status"`
	NextAt   *time.Time    `json:"next_at,omitempty"`
}

// notifier delivers a desktop notification. Tests swap it out; the
// default goes through beeep.
type notifier func(title, message string, sound bool) error

func desktopNotify(title, message string, sound bool) error {
	if sound {
		return beeep.Alert(title, message, "")
	}
	return beeep.Notify(title, message, "")
}

// NewRemindCommand creates the remind command group.
func NewRemindCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Manage reminders and their schedules",
	}
	cmd.AddCommand(newRemindAddCommand(rootOpts))
	cmd.AddCommand(newRemindListCommand(rootOpts))
	cmd.AddCommand(newRemindNextCommand(rootOpts))
	cmd.AddCommand(newRemindPauseCommand(rootOpts, "pause", false))
	cmd.AddCommand(newRemindPauseCommand(rootOpts, "resume", true))
	cmd.AddCommand(newRemindNotifyCommand(rootOpts, desktopNotify))
	return cmd
}

func newRemindAddCommand(rootOpts *RootOptions) *cobra.Command {
	var in store.ReminderInput

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a reminder",
		Long: `Creates a reminder. --repeat takes none, daily, weekly or monthly;
weekly reminders take --days with weekday names ("mon,thu"). Monthly
reminders anchored on day 29-31 fire on the last day of shorter
months.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			in.Title = args[0]
			id, err := app.Store.CreateReminder(cmd.Context(), app.User, in, app.Now)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to create reminder", err)
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Created reminder %d: %s", id, args[0]))
		},
	}

	cmd.Flags().StringVar(&in.Date, "date", "", "anchor date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Time, "time", "", "time of day (15:04)")
	cmd.Flags().StringVar(&in.Interval, "repeat", "none", "repeat rule (none|daily|weekly|monthly)")
	cmd.Flags().StringVar(&in.Days, "days", "", "weekdays for weekly repeats (mon,thu)")
	cmd.Flags().StringVar(&in.Priority, "priority", "normal", "priority (low|normal|high)")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVar(&in.Toast, "toast", true, "deliver as toast notification")
	cmd.Flags().BoolVar(&in.System, "system", false, "deliver as system notification")
	cmd.Flags().BoolVar(&in.Sound, "sound", false, "play a sound on delivery")
	return cmd
}

// reminderViews resolves every reminder's schedule against the
// session's single now.
func reminderViews(app *App, reminders []store.Reminder) []ReminderView {
	nowLocal := app.Now.In(app.Zone)
	views := make([]ReminderView, 0, len(reminders))
	for _, r := range reminders {
		at, status := engine.NextOccurrence(r.Rule, nowLocal)
		v := ReminderView{
			ID:       r.ID,
			Title:    r.Title,
			Priority: r.Priority,
			Repeat:   string(r.Rule.Recurrence),
			Status:   status,
		}
		if !at.IsZero() {
			t := at
			v.NextAt = &t
		}
		views = append(views, v)
	}
	return views
}

func newRemindListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List reminders with their next occurrence",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			reminders, err := app.Store.Reminders(cmd.Context(), app.User)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list reminders", err)
			}
			views := reminderViews(app, reminders)

			out := formatter(cmd, rootOpts)
			if rootOpts.Format == "json" {
				return out.Success(views)
			}
			if len(views) == 0 {
				return out.Success("No reminders yet.")
			}
			var b strings.Builder
			for _, v := range views {
				next := "-"
				if v.NextAt != nil {
					next = v.NextAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(&b, "%4d  %-30s %-8s %-12s next %s\n", v.ID, v.Title, v.Repeat, v.Status, next)
			}
			return out.Success(strings.TrimRight(b.String(), "\n"))
		},
	}
}

func newRemindNextCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "next",
		Short:         "Summarize reminder schedules",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			reminders, err := app.Store.Reminders(cmd.Context(), app.User)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list reminders", err)
			}

			nowLocal := app.Now.In(app.Zone)
			schedules := make([]engine.Schedule, 0, len(reminders))
			for _, r := range reminders {
				at, status := engine.NextOccurrence(r.Rule, nowLocal)
				schedules = append(schedules, engine.Schedule{At: at, Status: status})
			}
			sum := engine.Summarize(schedules)

			out := formatter(cmd, rootOpts)
			if rootOpts.Format == "json" {
				return out.Success(struct {
					Active    int        `json:"active"`
					Overdue   int        `json:"overdue"`
					NextAt    *time.Time `json:"next_at,omitempty"`
					Scheduled bool       `json:"scheduled"`
				}{sum.Active, sum.Overdue, nextAtPtr(sum), sum.Scheduled})
			}
			if !sum.Scheduled {
				return out.Success(fmt.Sprintf("%d active reminders, %d overdue, nothing scheduled", sum.Active, sum.Overdue))
			}
			return out.Success(fmt.Sprintf("%d active reminders, %d overdue, next at %s",
				sum.Active, sum.Overdue, sum.NextAt.Format("2006-01-02 15:04")))
		},
	}
}

func nextAtPtr(sum engine.Summary) *time.Time {
	if !sum.Scheduled {
		return nil
	}
	t := sum.NextAt
	return &t
}

func newRemindPauseCommand(rootOpts *RootOptions, verb string, active bool) *cobra.Command {
	short := "Pause a reminder"
	if active {
		short = "Resume a paused reminder"
	}
	return &cobra.Command{
		Use:           verb + " <reminder-id>",
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.SetReminderActive(cmd.Context(), app.User, id, active); err != nil {
				return wrapStoreError("failed to update reminder", err)
			}
			return formatter(cmd, rootOpts).Success(fmt.Sprintf("Reminder %d %sd", id, verb))
		},
	}
}

// newRemindNotifyCommand delivers desktop notifications for due
// reminders. Intended to run from a timer (cron, systemd) at the
// configured poll interval.
func newRemindNotifyCommand(rootOpts *RootOptions, notify notifier) *cobra.Command {
	return &cobra.Command{
		Use:           "notify",
		Short:         "Deliver notifications for due reminders",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			reminders, err := app.Store.Reminders(cmd.Context(), app.User)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list reminders", err)
			}

			out := formatter(cmd, rootOpts)
			nowLocal := app.Now.In(app.Zone)
			poll := time.Duration(app.Cfg.ReminderPollMinutes) * time.Minute
			delivered := 0
			for _, r := range reminders {
				if !due(r.Rule, nowLocal, poll) {
					continue
				}
				if !r.Toast && !r.System {
					continue
				}
				if err := notify(r.Title, r.Notes, r.Sound); err != nil {
					out.VerboseLog("notification for reminder %d failed: %v", r.ID, err)
					continue
				}
				delivered++
			}
			return out.Success(fmt.Sprintf("Delivered %d notifications", delivered))
		},
	}
}

// due reports whether the reminder should fire in this poll tick:
// overdue one-shots always fire, recurring rules fire when the next
// occurrence falls inside the tick window.
func due(rule engine.ReminderRule, nowLocal time.Time, poll time.Duration) bool {
	at, status := engine.NextOccurrence(rule, nowLocal)
	switch status {
	case engine.StatusOverdue:
		return true
	case engine.StatusUpcoming:
		return at.Sub(nowLocal) < poll
	default:
		return false
	}
}
