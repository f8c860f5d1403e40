package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goalixa/Goalixa/internal/engine"
)

// AlreadyRunningError reports a start attempt on a task that already
// has an open entry.
type AlreadyRunningError struct {
	TaskID  int64
	EntryID string
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("task %d already has a running entry (%s)", e.TaskID, e.EntryID)
}

// NotFoundError reports a write targeting a row that does not exist or
// belongs to another user.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// CreateProject inserts a project and returns its ID.
func (s *Store) CreateProject(ctx context.Context, userID int64, name string, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (user_id, name, created_at) VALUES (?, ?, ?)
	`, userID, name, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	return res.LastInsertId()
}

// CreateLabel inserts a label and returns its ID.
func (s *Store) CreateLabel(ctx context.Context, userID int64, name, color string, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO labels (user_id, name, color, created_at) VALUES (?, ?, ?, ?)
	`, userID, name, color, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("insert label: %w", err)
	}
	return res.LastInsertId()
}

// CreateTask inserts a task and returns its ID. projectID 0 means no
// project.
func (s *Store) CreateTask(ctx context.Context, userID int64, name string, projectID int64, now time.Time) (int64, error) {
	var project any
	if projectID != 0 {
		project = projectID
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, name, project_id, status, created_at)
		VALUES (?, ?, ?, 'active', ?)
	`, userID, name, project, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return res.LastInsertId()
}

// AssignLabel attaches a label to a task. Re-assigning is a no-op.
func (s *Store) AssignLabel(ctx context.Context, userID, taskID, labelID int64) error {
	if err := s.requireTask(ctx, userID, taskID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO task_labels (task_id, label_id) VALUES (?, ?)
	`, taskID, labelID)
	if err != nil {
		return fmt.Errorf("assign label: %w", err)
	}
	return nil
}

// CompleteTask marks a task done and stamps completed_at.
func (s *Store) CompleteTask(ctx context.Context, userID, taskID int64, now time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET status = 'done', completed_at = ?
		WHERE id = ? AND user_id = ?
	`, formatTime(now), taskID, userID)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return requireAffected(res, "task", taskID)
}

// StartEntry opens a new time entry for the task. At most one entry
// per task may be open; starting a task that is already running
// returns AlreadyRunningError with the open entry's ID.
func (s *Store) StartEntry(ctx context.Context, userID, taskID int64, now time.Time) (string, error) {
	if err := s.requireTask(ctx, userID, taskID); err != nil {
		return "", err
	}

	var openID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM time_entries
		WHERE user_id = ? AND task_id = ? AND ended_at IS NULL
	`, userID, taskID).Scan(&openID)
	switch {
	case err == nil:
		return "", &AlreadyRunningError{TaskID: taskID, EntryID: openID}
	case err != sql.ErrNoRows:
		return "", fmt.Errorf("check open entry: %w", err)
	}

	id := s.newID()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO time_entries (id, user_id, task_id, started_at, ended_at)
		VALUES (?, ?, ?, ?, NULL)
	`, id, userID, taskID, formatTime(now))
	if err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}
	return id, nil
}

// StopEntry closes all open entries for the task at now and returns
// how many were closed. Zero is not an error; stopping an idle task is
// a no-op.
func (s *Store) StopEntry(ctx context.Context, userID, taskID int64, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE time_entries SET ended_at = ?
		WHERE user_id = ? AND task_id = ? AND ended_at IS NULL
	`, formatTime(now), userID, taskID)
	if err != nil {
		return 0, fmt.Errorf("stop entry: %w", err)
	}
	return res.RowsAffected()
}

// CloseEntry sets an explicit end on a single open entry. Used to
// apply reconciliation proposals; closed entries are left untouched.
func (s *Store) CloseEntry(ctx context.Context, userID int64, entryID string, end time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE time_entries SET ended_at = ?
		WHERE user_id = ? AND id = ? AND ended_at IS NULL
	`, formatTime(end), userID, entryID)
	if err != nil {
		return fmt.Errorf("close entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entry %s not open", entryID)
	}
	return nil
}

// CreateHabit inserts a habit and returns its ID.
func (s *Store) CreateHabit(ctx context.Context, userID int64, name, frequency, timeOfDay, notes string, now time.Time) (int64, error) {
	if frequency == "" {
		frequency = "daily"
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (user_id, name, frequency, time_of_day, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, name, frequency, timeOfDay, notes, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("insert habit: %w", err)
	}
	return res.LastInsertId()
}

// LogHabit records a completion for the given date. Logging the same
// date twice is a no-op.
func (s *Store) LogHabit(ctx context.Context, userID, habitID int64, date engine.Date, now time.Time) error {
	if err := s.requireHabit(ctx, userID, habitID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO habit_logs (habit_id, log_date, created_at)
		VALUES (?, ?, ?)
	`, habitID, date.String(), formatTime(now))
	if err != nil {
		return fmt.Errorf("log habit: %w", err)
	}
	return nil
}

// UnlogHabit removes a completion for the given date.
func (s *Store) UnlogHabit(ctx context.Context, userID, habitID int64, date engine.Date) error {
	if err := s.requireHabit(ctx, userID, habitID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM habit_logs WHERE habit_id = ? AND log_date = ?
	`, habitID, date.String())
	if err != nil {
		return fmt.Errorf("unlog habit: %w", err)
	}
	return nil
}

// ReminderInput carries the fields for a new reminder.
type ReminderInput struct {
	Title    string
	Notes    string
	Date     string // "2006-01-02", may be empty
	Time     string // "15:04", may be empty
	Interval string // none, daily, weekly, monthly
	Days     string // "mon,thu", weekly only
	Priority string
	Toast    bool
	System   bool
	Sound    bool
}

// CreateReminder inserts a reminder and returns its ID. Schedule
// fields are stored as given; parsing happens on read so a bad value
// degrades to the engine's defaults instead of blocking creation.
func (s *Store) CreateReminder(ctx context.Context, userID int64, in ReminderInput, now time.Time) (int64, error) {
	if in.Interval == "" {
		in.Interval = "none"
	}
	if in.Priority == "" {
		in.Priority = "normal"
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders
			(user_id, title, notes, remind_date, remind_time,
			 repeat_interval, repeat_days, priority,
			 channel_toast, channel_system, play_sound, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
	`, userID, in.Title, in.Notes, in.Date, in.Time,
		in.Interval, in.Days, in.Priority,
		boolInt(in.Toast), boolInt(in.System), boolInt(in.Sound), formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("insert reminder: %w", err)
	}
	return res.LastInsertId()
}

// SetReminderActive pauses or resumes a reminder.
func (s *Store) SetReminderActive(ctx context.Context, userID, reminderID int64, active bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reminders SET is_active = ? WHERE id = ? AND user_id = ?
	`, boolInt(active), reminderID, userID)
	if err != nil {
		return fmt.Errorf("set reminder active: %w", err)
	}
	return requireAffected(res, "reminder", reminderID)
}

// GoalInput carries the fields for a new goal.
type GoalInput struct {
	Name          string
	Description   string
	Priority      string
	TargetDate    string // "2006-01-02", may be empty
	TargetSeconds int64
	ProjectIDs    []int64
}

// CreateGoal inserts a goal with its project links in one transaction
// and returns the goal ID.
func (s *Store) CreateGoal(ctx context.Context, userID int64, in GoalInput, now time.Time) (int64, error) {
	if in.Priority == "" {
		in.Priority = "medium"
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin goal insert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO goals (user_id, name, description, status, priority, target_date, target_seconds, created_at)
		VALUES (?, ?, ?, 'active', ?, ?, ?, ?)
	`, userID, in.Name, in.Description, in.Priority, in.TargetDate, in.TargetSeconds, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	goalID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, projectID := range in.ProjectIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO goal_projects (goal_id, project_id) VALUES (?, ?)
		`, goalID, projectID); err != nil {
			return 0, fmt.Errorf("link goal project: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit goal insert: %w", err)
	}
	return goalID, nil
}

// SetSetting writes a settings value under the user-scoped key.
// userID 0 writes the global key.
func (s *Store) SetSetting(ctx context.Context, userID int64, key, value string) error {
	k := key
	if userID != 0 {
		k = fmt.Sprintf("user:%d:%s", userID, key)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, k, value)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", k, err)
	}
	return nil
}

func (s *Store) requireTask(ctx context.Context, userID, taskID int64) error {
	return s.requireRow(ctx, "tasks", "task", userID, taskID)
}

func (s *Store) requireHabit(ctx context.Context, userID, habitID int64) error {
	return s.requireRow(ctx, "habits", "habit", userID, habitID)
}

func (s *Store) requireRow(ctx context.Context, table, kind string, userID, id int64) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? AND user_id = ?", table),
		id, userID).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return &NotFoundError{Kind: kind, ID: id}
	case err != nil:
		return fmt.Errorf("check %s: %w", kind, err)
	}
	return nil
}

func requireAffected(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
