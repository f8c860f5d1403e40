package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/goalixa/Goalixa/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DBPath  string
	User    int64

	// Now overrides the wall clock (for testing). If nil, time.Now is
	// used. Each command reads it once; every computation in that
	// command sees the same instant.
	Now func() time.Time

	// Config overrides file-based config loading (for testing).
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the Goalixa CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

// newRootCommand wires the command tree onto pre-seeded options.
// Tests seed Now, Config and DBPath for determinism.
func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goalixa",
		Short: "Goalixa - time tracking, habits, reminders, goals",
		Long: `Goalixa tracks time against tasks and projects, keeps habit
streaks, schedules reminders, and measures progress toward goals.

All computation is timezone-aware: day boundaries follow the configured
IANA zone, including DST transitions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	if opts.User == 0 {
		opts.User = 1
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", opts.DBPath, "path to SQLite database (default: config, then user config dir)")
	cmd.PersistentFlags().Int64Var(&opts.User, "user", opts.User, "user id to operate as")

	// Add subcommands
	cmd.AddCommand(NewProjectCommand(opts))
	cmd.AddCommand(NewTaskCommand(opts))
	cmd.AddCommand(NewLabelCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewHabitCommand(opts))
	cmd.AddCommand(NewRemindCommand(opts))
	cmd.AddCommand(NewGoalCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig returns the injected test config or loads from disk.
func (o *RootOptions) loadConfig() config.Config {
	if o.Config != nil {
		return *o.Config
	}
	return config.Load()
}

// now returns the command's single current instant.
func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// databasePath resolves the database location: --db flag, then config,
// then the user config dir.
func (o *RootOptions) databasePath(cfg config.Config) (string, error) {
	if o.DBPath != "" {
		return o.DBPath, nil
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	dbDir := filepath.Join(dir, "goalixa")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return filepath.Join(dbDir, "goalixa.db"), nil
}
