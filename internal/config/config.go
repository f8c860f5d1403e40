package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/goalixa/Goalixa/internal/engine"
)

// Config holds settings from ~/.config/goalixa/config.yaml.
type Config struct {
	// Timezone is an IANA zone name used for day boundaries and
	// reminder schedules. Unknown names fall back to UTC.
	Timezone string `yaml:"timezone"`

	// DBPath overrides the default database location.
	DBPath string `yaml:"db_path"`

	// MaxEntryHours caps a single tracked session; longer open entries
	// get a reconciliation proposal. 0 disables the cap.
	MaxEntryHours int `yaml:"max_entry_hours"`

	// ReminderPollMinutes is how often the dashboard rechecks reminder
	// schedules.
	ReminderPollMinutes int `yaml:"reminder_poll_minutes"`
}

func defaults() Config {
	return Config{
		Timezone:            "UTC",
		MaxEntryHours:       12,
		ReminderPollMinutes: 1,
	}
}

// Load reads the config file, or defaults when GOALIXA_CONFIG is
// unset and no file exists at the standard path. Returns defaults on
// any error (missing file, bad YAML); tracking must work out of the
// box.
func Load() Config {
	path := os.Getenv("GOALIXA_CONFIG")
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return defaults()
		}
		path = filepath.Join(dir, "goalixa", "config.yaml")
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates a specific config file.
func LoadFrom(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults()
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaults()
	}
	return sanitize(cfg)
}

// sanitize clamps out-of-range values back to usable ones instead of
// rejecting the file.
func sanitize(cfg Config) Config {
	// ResolveZone never errors; it canonicalizes unknown zones to UTC.
	cfg.Timezone, _ = engine.ResolveZone(cfg.Timezone)
	if cfg.MaxEntryHours < 0 || cfg.MaxEntryHours > 240 {
		cfg.MaxEntryHours = defaults().MaxEntryHours
	}
	if cfg.ReminderPollMinutes < 1 || cfg.ReminderPollMinutes > 240 {
		cfg.ReminderPollMinutes = defaults().ReminderPollMinutes
	}
	return cfg
}
