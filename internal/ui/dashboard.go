// Package ui renders the interactive terminal dashboard.
//
// The dashboard is a thin view: all aggregates (day series, streaks,
// reminder schedules) are computed before the program starts and
// carried in the model. Refreshing re-runs the loader with a fresh
// "now" rather than mutating state in place.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/goalixa/Goalixa/internal/engine"
)

// Snapshot is everything the dashboard shows, computed against one
// instant.
type Snapshot struct {
	Timezone  string
	Today     engine.Date
	Week      []engine.DayTotal
	TaskLines []TaskLine
	Habits    []HabitLine
	Reminders engine.Summary
}

// TaskLine is one row of the tasks pane.
type TaskLine struct {
	Name         string
	Running      bool
	TodaySeconds int64
}

// HabitLine is one row of the habits pane.
type HabitLine struct {
	Name      string
	Streak    int
	DoneToday bool
}

// Loader recomputes a Snapshot, called on start and on manual refresh.
type Loader func(now time.Time) (Snapshot, error)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	tabStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Padding(0, 1)
	activeTab     = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")).Bold(true).Padding(0, 1)
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	chartBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
)

var tabNames = []string{"Week", "Tasks", "Habits", "Reminders"}

const chartWidth = 24

// Model is the bubbletea model for the dashboard.
type Model struct {
	load Loader
	snap Snapshot
	tab  int
	err  error
}

// NewModel builds the dashboard model with an initial snapshot.
func NewModel(load Loader, initial Snapshot) Model {
	return Model{load: load, snap: initial}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

type refreshedMsg struct {
	snap Snapshot
	err  error
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "l", "right":
			m.tab = (m.tab + 1) % len(tabNames)
		case "shift+tab", "h", "left":
			m.tab = (m.tab + len(tabNames) - 1) % len(tabNames)
		case "r":
			load := m.load
			return m, func() tea.Msg {
				snap, err := load(time.Now())
				return refreshedMsg{snap: snap, err: err}
			}
		}
	case refreshedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.snap = msg.snap
			m.err = nil
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Goalixa"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s (%s)", m.snap.Today, m.snap.Timezone)))
	b.WriteString("\n\n")

	for i, name := range tabNames {
		style := tabStyle
		if i == m.tab {
			style = activeTab
		}
		b.WriteString(style.Render(name))
	}
	b.WriteString("\n\n")

	switch m.tab {
	case 0:
		b.WriteString(m.viewWeek())
	case 1:
		b.WriteString(m.viewTasks())
	case 2:
		b.WriteString(m.viewHabits())
	case 3:
		b.WriteString(m.viewReminders())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render("refresh failed: " + m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab: switch  r: refresh  q: quit"))
	return b.String()
}

func (m Model) viewWeek() string {
	if len(m.snap.Week) == 0 {
		return dimStyle.Render("Nothing tracked this week.")
	}
	var b strings.Builder
	for _, day := range m.snap.Week {
		filled := int(day.Percent / 100 * chartWidth)
		if filled > chartWidth {
			filled = chartWidth
		}
		bar := chartBarStyle.Render(strings.Repeat("█", filled)) +
			dimStyle.Render(strings.Repeat("░", chartWidth-filled))
		fmt.Fprintf(&b, "%s  %s  %s\n", day.Date, bar, formatSeconds(day.Seconds))
	}
	return b.String()
}

func (m Model) viewTasks() string {
	if len(m.snap.TaskLines) == 0 {
		return dimStyle.Render("No tasks.")
	}
	var b strings.Builder
	for _, t := range m.snap.TaskLines {
		name := t.Name
		if t.Running {
			name = runningStyle.Render("* " + name)
		} else {
			name = "  " + name
		}
		fmt.Fprintf(&b, "%-40s today %s\n", name, formatSeconds(t.TodaySeconds))
	}
	return b.String()
}

func (m Model) viewHabits() string {
	if len(m.snap.Habits) == 0 {
		return dimStyle.Render("No habits.")
	}
	var b strings.Builder
	for _, h := range m.snap.Habits {
		mark := "[ ]"
		if h.DoneToday {
			mark = runningStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "%s %-30s streak %d\n", mark, h.Name, h.Streak)
	}
	return b.String()
}

func (m Model) viewReminders() string {
	sum := m.snap.Reminders
	var b strings.Builder
	fmt.Fprintf(&b, "%d active, %d overdue\n", sum.Active, sum.Overdue)
	if sum.Scheduled {
		fmt.Fprintf(&b, "next at %s\n", sum.NextAt.Format("2006-01-02 15:04"))
	} else {
		b.WriteString(dimStyle.Render("nothing scheduled") + "\n")
	}
	return b.String()
}

func formatSeconds(seconds int64) string {
	h := seconds / 3600
	mins := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// Run starts the dashboard program and blocks until the user quits.
func Run(load Loader, initial Snapshot) error {
	p := tea.NewProgram(NewModel(load, initial), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
