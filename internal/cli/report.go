package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/goalixa/Goalixa/internal/engine"
)

var (
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))
	barDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b4261"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
	percentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

const reportBarWidth = 30

// NewReportCommand creates the report command group.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Tracked-time reports",
		Long: `Reports over tracked time. Day boundaries follow the session
timezone, so a session spanning midnight is split between both days,
and DST days count their real 23 or 25 hours.`,
	}
	cmd.AddCommand(newReportDaysCommand(rootOpts))
	cmd.AddCommand(newReportGroupsCommand(rootOpts))
	cmd.AddCommand(newReportEventsCommand(rootOpts))
	return cmd
}

// reportRange resolves the --from/--to/--days flags into a date range
// ending today.
func reportRange(app *App, from, to string, days int) (engine.Date, engine.Date, error) {
	if from != "" || to != "" {
		start, ok := engine.ParseDate(from)
		if !ok {
			return engine.Date{}, engine.Date{}, NewExitError(ExitCommandError, fmt.Sprintf("invalid --from date %q (want YYYY-MM-DD)", from))
		}
		end, ok := engine.ParseDate(to)
		if !ok {
			return engine.Date{}, engine.Date{}, NewExitError(ExitCommandError, fmt.Sprintf("invalid --to date %q (want YYYY-MM-DD)", to))
		}
		return start, end, nil
	}
	if days < 1 {
		return engine.Date{}, engine.Date{}, NewExitError(ExitCommandError, "--days must be at least 1")
	}
	today := app.Today()
	return today.AddDays(-(days - 1)), today, nil
}

// rangeInstants converts a date range into [start of first day, end of
// last day) instants in the session timezone.
func rangeInstants(start, end engine.Date, loc *time.Location) (time.Time, time.Time) {
	s, _ := engine.DayBounds(start, loc)
	_, e := engine.DayBounds(end, loc)
	return s, e
}

func newReportDaysCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		days     int
		from, to string
	)

	cmd := &cobra.Command{
		Use:           "days",
		Short:         "Daily tracked-time series",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			start, end, err := reportRange(app, from, to, days)
			if err != nil {
				return err
			}
			windowStart, windowEnd := rangeInstants(start, end, app.Zone)
			entries, err := app.Store.EntriesOverlapping(cmd.Context(), app.User, windowStart, windowEnd)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load entries", err)
			}

			series := engine.RangeSeries(entries, start, end, app.Zone, app.Now)

			out := formatter(cmd, rootOpts)
			if rootOpts.Format == "json" {
				return out.Success(struct {
					Timezone string            `json:"timezone"`
					Days     []engine.DayTotal `json:"days"`
				}{app.ZoneName, series})
			}
			return out.Success(renderDaySeries(series))
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "number of days ending today")
	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "range end (YYYY-MM-DD)")
	return cmd
}

func renderDaySeries(series []engine.DayTotal) string {
	var b strings.Builder
	var total int64
	for _, day := range series {
		total += day.Seconds
		b.WriteString(labelStyle.Render(day.Date.String()))
		b.WriteString("  ")
		b.WriteString(renderBar(day.Percent))
		b.WriteString("  ")
		b.WriteString(formatDuration(day.Seconds))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\ntotal %s, avg %.1fh/day",
		formatDuration(total), engine.AverageDailyHours(total, len(series)))
	return b.String()
}

// renderBar draws a fixed-width bar filled to percent of the series
// maximum.
func renderBar(percent float64) string {
	filled := int(percent / 100 * reportBarWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > reportBarWidth {
		filled = reportBarWidth
	}
	return barStyle.Render(strings.Repeat("█", filled)) +
		barDimStyle.Render(strings.Repeat("░", reportBarWidth-filled))
}

func newReportGroupsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		by       string
		days     int
		from, to string
	)

	cmd := &cobra.Command{
		Use:           "groups",
		Short:         "Tracked-time distribution by project, task, or label",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			start, end, err := reportRange(app, from, to, days)
			if err != nil {
				return err
			}
			windowStart, windowEnd := rangeInstants(start, end, app.Zone)
			grouped, err := app.Store.EntriesWithGroup(cmd.Context(), app.User, windowStart, windowEnd, by)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load grouped entries", err)
			}

			totals, grandTotal := engine.GroupedDistribution(grouped, windowStart, windowEnd, app.Now, "(none)")

			out := formatter(cmd, rootOpts)
			if rootOpts.Format == "json" {
				return out.Success(struct {
					Timezone     string              `json:"timezone"`
					GroupBy      string              `json:"group_by"`
					TotalSeconds int64               `json:"total_seconds"`
					Groups       []engine.GroupTotal `json:"groups"`
				}{app.ZoneName, by, grandTotal, totals})
			}
			return out.Success(renderGroupTotals(totals, grandTotal))
		},
	}

	cmd.Flags().StringVar(&by, "by", "projects", "grouping key (projects|tasks|labels)")
	cmd.Flags().IntVar(&days, "days", 7, "number of days ending today")
	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "range end (YYYY-MM-DD)")
	return cmd
}

func renderGroupTotals(totals []engine.GroupTotal, grandTotal int64) string {
	if len(totals) == 0 {
		return "Nothing tracked in this range."
	}
	var b strings.Builder
	for _, g := range totals {
		b.WriteString(fmt.Sprintf("%-20s ", g.Label))
		b.WriteString(renderBar(g.Percent))
		b.WriteString("  ")
		b.WriteString(formatDuration(g.Seconds))
		b.WriteString(percentStyle.Render(fmt.Sprintf(" (%.0f%%)", g.Percent)))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\ntotal %s", formatDuration(grandTotal))
	return b.String()
}

func newReportEventsCommand(rootOpts *RootOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Calendar events for tracked sessions",
		Long: `Emits one event per tracked session overlapping the range, clipped
to the range, with a per-task display color stable across invocations.
Intended for feeding calendar views.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			start, end, err := reportRange(app, from, to, 7)
			if err != nil {
				return err
			}
			windowStart, windowEnd := rangeInstants(start, end, app.Zone)
			entries, err := app.Store.EntriesOverlapping(cmd.Context(), app.User, windowStart, windowEnd)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load entries", err)
			}

			events := engine.CalendarEvents(entries, windowStart, windowEnd, app.Now)

			out := formatter(cmd, rootOpts)
			if rootOpts.Format == "json" {
				return out.Success(events)
			}
			if len(events) == 0 {
				return out.Success("No sessions in this range.")
			}
			var b strings.Builder
			for _, ev := range events {
				fmt.Fprintf(&b, "%s  %s - %s  task %d  %s\n",
					ev.Color,
					ev.Start.In(app.Zone).Format("2006-01-02 15:04"),
					ev.End.In(app.Zone).Format("15:04"),
					ev.SubjectID,
					formatDuration(int64(ev.End.Sub(ev.Start).Seconds())))
			}
			return out.Success(strings.TrimRight(b.String(), "\n"))
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "range end (YYYY-MM-DD)")
	return cmd
}
