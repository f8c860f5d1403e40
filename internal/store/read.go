package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goalixa/Goalixa/internal/engine"
)

// Group keys accepted by EntriesWithGroup.
const (
	GroupProjects = "projects"
	GroupTasks    = "tasks"
	GroupLabels   = "labels"
)

// UnknownGroupError reports an unsupported grouping key.
type UnknownGroupError struct {
	Group string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("unknown group %q: must be one of projects, tasks, labels", e.Group)
}

// EntriesOverlapping fetches the user's time entries overlapping
// [start, end) as engine intervals. The window filter matches the
// overlap predicate exactly: started before the window ends, and not
// ended (or ended after the window starts).
func (s *Store) EntriesOverlapping(ctx context.Context, userID int64, start, end time.Time) ([]engine.Interval, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, started_at, ended_at
		FROM time_entries
		WHERE user_id = ?
		  AND started_at < ?
		  AND (ended_at IS NULL OR ended_at > ?)
	`, userID, formatTime(end), formatTime(start))
	if err != nil {
		return nil, fmt.Errorf("query entries overlapping window: %w", err)
	}
	defer rows.Close()
	return scanIntervals(rows)
}

// AllEntries fetches every time entry of the user. Used for lifetime
// task totals; per-user entry counts stay small enough that windowing
// is not worth the extra query shape.
func (s *Store) AllEntries(ctx context.Context, userID int64) ([]engine.Interval, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, started_at, ended_at
		FROM time_entries
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query all entries: %w", err)
	}
	defer rows.Close()
	return scanIntervals(rows)
}

// OpenEntries fetches the user's currently running entries.
func (s *Store) OpenEntries(ctx context.Context, userID int64) ([]engine.Interval, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, started_at, ended_at
		FROM time_entries
		WHERE user_id = ? AND ended_at IS NULL
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query open entries: %w", err)
	}
	defer rows.Close()
	return scanIntervals(rows)
}

// EntriesWithGroup fetches entries overlapping [start, end) paired with
// the requested grouping key: the task's project name, the task name,
// or each attached label's name (an entry with two labels yields two
// grouped rows, matching the original report queries). Entries without
// a key come back with an empty key; the engine applies the fallback
// label.
func (s *Store) EntriesWithGroup(ctx context.Context, userID int64, start, end time.Time, group string) ([]engine.GroupedInterval, error) {
	var query string
	switch group {
	case GroupProjects:
		query = `
			SELECT te.id, te.task_id, te.started_at, te.ended_at, COALESCE(p.name, '')
			FROM time_entries te
			JOIN tasks t ON t.id = te.task_id
			LEFT JOIN projects p ON p.id = t.project_id
			WHERE te.user_id = ? AND te.started_at < ? AND (te.ended_at IS NULL OR te.ended_at > ?)`
	case GroupTasks:
		query = `
			SELECT te.id, te.task_id, te.started_at, te.ended_at, t.name
			FROM time_entries te
			JOIN tasks t ON t.id = te.task_id
			WHERE te.user_id = ? AND te.started_at < ? AND (te.ended_at IS NULL OR te.ended_at > ?)`
	case GroupLabels:
		query = `
			SELECT te.id, te.task_id, te.started_at, te.ended_at, l.name
			FROM time_entries te
			JOIN task_labels tl ON tl.task_id = te.task_id
			JOIN labels l ON l.id = tl.label_id
			WHERE te.user_id = ? AND l.user_id = ? AND te.started_at < ? AND (te.ended_at IS NULL OR te.ended_at > ?)`
	default:
		return nil, &UnknownGroupError{Group: group}
	}

	args := []any{userID, formatTime(end), formatTime(start)}
	if group == GroupLabels {
		args = []any{userID, userID, formatTime(end), formatTime(start)}
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query grouped entries: %w", err)
	}
	defer rows.Close()

	var grouped []engine.GroupedInterval
	for rows.Next() {
		var id, startedAt, key string
		var taskID int64
		var endedAt sql.NullString
		if err := rows.Scan(&id, &taskID, &startedAt, &endedAt, &key); err != nil {
			return nil, fmt.Errorf("scan grouped entry: %w", err)
		}
		iv, ok := buildInterval(id, taskID, startedAt, endedAt)
		if !ok {
			continue
		}
		grouped = append(grouped, engine.GroupedInterval{Interval: iv, Key: key})
	}
	return grouped, rows.Err()
}

// scanIntervals converts entry rows to engine intervals, skipping rows
// with malformed timestamps.
func scanIntervals(rows *sql.Rows) ([]engine.Interval, error) {
	var intervals []engine.Interval
	for rows.Next() {
		var id, startedAt string
		var taskID int64
		var endedAt sql.NullString
		if err := rows.Scan(&id, &taskID, &startedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if iv, ok := buildInterval(id, taskID, startedAt, endedAt); ok {
			intervals = append(intervals, iv)
		}
	}
	return intervals, rows.Err()
}

// buildInterval parses one row's timestamps. A malformed start drops
// the row; a malformed end leaves the interval open rather than losing
// the tracked start.
func buildInterval(id string, taskID int64, startedAt string, endedAt sql.NullString) (engine.Interval, bool) {
	start, ok := parseTime(startedAt)
	if !ok {
		return engine.Interval{}, false
	}
	iv := engine.Interval{ID: id, SubjectID: taskID, Start: start}
	if endedAt.Valid {
		if end, ok := parseTime(endedAt.String); ok {
			iv.End = end
		}
	}
	return iv, true
}

// Tasks fetches the user's tasks with project names joined in, newest
// first.
func (s *Store) Tasks(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, COALESCE(t.project_id, 0), COALESCE(p.name, ''), t.status, t.created_at
		FROM tasks t
		LEFT JOIN projects p ON p.id = t.project_id
		WHERE t.user_id = ?
		ORDER BY t.created_at DESC, t.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Name, &t.ProjectID, &t.ProjectName, &t.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.CreatedAt, _ = parseTime(createdAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Projects fetches the user's projects, newest first.
func (s *Store) Projects(ctx context.Context, userID int64) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM projects
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.CreatedAt, _ = parseTime(createdAt)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Labels fetches the user's labels, newest first.
func (s *Store) Labels(ctx context.Context, userID int64) ([]Label, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, color, created_at
		FROM labels
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query labels: %w", err)
	}
	defer rows.Close()

	var labels []Label
	for rows.Next() {
		var l Label
		var createdAt string
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &createdAt); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		l.CreatedAt, _ = parseTime(createdAt)
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// Habits fetches the user's habits, newest first.
func (s *Store) Habits(ctx context.Context, userID int64) ([]Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, frequency, COALESCE(time_of_day, ''), COALESCE(notes, ''), created_at
		FROM habits
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		var h Habit
		var createdAt string
		if err := rows.Scan(&h.ID, &h.Name, &h.Frequency, &h.TimeOfDay, &h.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		h.CreatedAt, _ = parseTime(createdAt)
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// HabitLogSets fetches every habit's logged dates as engine date sets,
// keyed by habit ID. Malformed dates are skipped.
func (s *Store) HabitLogSets(ctx context.Context, userID int64) (map[int64]engine.DateSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hl.habit_id, hl.log_date
		FROM habit_logs hl
		JOIN habits h ON h.id = hl.habit_id
		WHERE h.user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query habit logs: %w", err)
	}
	defer rows.Close()

	sets := make(map[int64]engine.DateSet)
	for rows.Next() {
		var habitID int64
		var logDate string
		if err := rows.Scan(&habitID, &logDate); err != nil {
			return nil, fmt.Errorf("scan habit log: %w", err)
		}
		date, ok := engine.ParseDate(logDate)
		if !ok {
			continue
		}
		if sets[habitID] == nil {
			sets[habitID] = engine.NewDateSet()
		}
		sets[habitID].Add(date)
	}
	return sets, rows.Err()
}

// Reminders fetches the user's reminders with schedule fields parsed
// into engine rules, newest first.
func (s *Store) Reminders(ctx context.Context, userID int64) ([]Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, COALESCE(notes, ''), COALESCE(remind_date, ''), COALESCE(remind_time, ''),
		       repeat_interval, COALESCE(repeat_days, ''), priority,
		       channel_toast, channel_system, play_sound, is_active, created_at
		FROM reminders
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []Reminder
	for rows.Next() {
		var r Reminder
		var remindDate, remindTime, repeatInterval, repeatDays, createdAt string
		var toast, system, sound, active int
		if err := rows.Scan(&r.ID, &r.Title, &r.Notes, &remindDate, &remindTime,
			&repeatInterval, &repeatDays, &r.Priority,
			&toast, &system, &sound, &active, &createdAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		r.Rule = engine.ReminderRule{
			Recurrence: engine.ParseRecurrence(repeatInterval),
			Weekdays:   engine.ParseWeekdays(repeatDays),
			Active:     active != 0,
		}
		if date, ok := engine.ParseDate(remindDate); ok {
			r.Rule.AnchorDate = date
		}
		if tod, ok := engine.ParseTimeOfDay(remindTime); ok {
			r.Rule.AnchorTime = tod
		}
		r.Toast = toast != 0
		r.System = system != 0
		r.Sound = sound != 0
		r.CreatedAt, _ = parseTime(createdAt)
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// Goals fetches the user's goals with linked project IDs, newest first.
func (s *Store) Goals(ctx context.Context, userID int64) ([]Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), status, priority,
		       COALESCE(target_date, ''), target_seconds, created_at
		FROM goals
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	byID := make(map[int64]int)
	for rows.Next() {
		var g Goal
		var targetDate, createdAt string
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Status, &g.Priority,
			&targetDate, &g.TargetSeconds, &createdAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if date, ok := engine.ParseDate(targetDate); ok {
			g.TargetDate = date
		}
		g.CreatedAt, _ = parseTime(createdAt)
		byID[g.ID] = len(goals)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	linkRows, err := s.db.QueryContext(ctx, `
		SELECT gp.goal_id, gp.project_id
		FROM goal_projects gp
		JOIN goals g ON g.id = gp.goal_id
		WHERE g.user_id = ?
		ORDER BY gp.project_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query goal projects: %w", err)
	}
	defer linkRows.Close()
	for linkRows.Next() {
		var goalID, projectID int64
		if err := linkRows.Scan(&goalID, &projectID); err != nil {
			return nil, fmt.Errorf("scan goal project: %w", err)
		}
		if idx, ok := byID[goalID]; ok {
			goals[idx].ProjectIDs = append(goals[idx].ProjectIDs, projectID)
		}
	}
	return goals, linkRows.Err()
}

// Setting reads a settings value: the user-scoped key first, then the
// global key as fallback (matching the original settings table layout).
// ok=false means neither exists.
func (s *Store) Setting(ctx context.Context, userID int64, key string) (string, bool, error) {
	scoped := fmt.Sprintf("user:%d:%s", userID, key)
	for _, k := range []string{scoped, key} {
		var value string
		err := s.db.QueryRowContext(ctx,
			"SELECT value FROM app_settings WHERE key = ?", k).Scan(&value)
		switch {
		case err == nil:
			return value, true, nil
		case err == sql.ErrNoRows:
			continue
		default:
			return "", false, fmt.Errorf("query setting %q: %w", k, err)
		}
	}
	return "", false, nil
}
