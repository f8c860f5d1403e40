package store

import (
	"time"

	"github.com/goalixa/Goalixa/internal/engine"
)

// Project is a persisted project row.
type Project struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Label is a persisted label row.
type Label struct {
	ID        int64
	Name      string
	Color     string
	CreatedAt time.Time
}

// Task is a persisted task row. ProjectName is joined in for display;
// it is empty when the task has no project.
type Task struct {
	ID          int64
	Name        string
	ProjectID   int64
	ProjectName string
	Status      string
	CreatedAt   time.Time
}

// Habit is a persisted habit row.
type Habit struct {
	ID        int64
	Name      string
	Frequency string
	TimeOfDay string
	Notes     string
	CreatedAt time.Time
}

// Reminder is a persisted reminder with its schedule fields already
// parsed into an engine rule. Raw fields that fail to parse degrade
// inside the rule (zero anchor date, empty weekday set) instead of
// failing the fetch.
type Reminder struct {
	ID       int64
	Title    string
	Notes    string
	Priority string
	Rule     engine.ReminderRule

	// Delivery channels (original schema: channel_toast,
	// channel_system, play_sound).
	Toast  bool
	System bool
	Sound  bool

	CreatedAt time.Time
}

// Goal is a persisted goal row plus its linked project IDs.
type Goal struct {
	ID            int64
	Name          string
	Description   string
	Status        string
	Priority      string
	TargetDate    engine.Date // zero when unset
	TargetSeconds int64
	ProjectIDs    []int64
	CreatedAt     time.Time
}
