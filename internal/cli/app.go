package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/goalixa/Goalixa/internal/config"
	"github.com/goalixa/Goalixa/internal/engine"
	"github.com/goalixa/Goalixa/internal/store"
)

// App bundles everything a command invocation needs: the open store,
// the resolved timezone, the acting user, and the single "now" instant
// every computation in the invocation shares.
type App struct {
	Store    *store.Store
	Cfg      config.Config
	Zone     *time.Location
	ZoneName string
	User     int64
	Now      time.Time
}

// openApp opens the database and resolves the session timezone.
// Timezone precedence: the user's stored setting, then config, then
// UTC. An unknown zone name anywhere degrades to UTC rather than
// failing the command.
func openApp(ctx context.Context, opts *RootOptions) (*App, error) {
	cfg := opts.loadConfig()

	path, err := opts.databasePath(cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to resolve database path", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	zoneName := cfg.Timezone
	if stored, ok, err := st.Setting(ctx, opts.User, "timezone"); err == nil && ok {
		zoneName = stored
	}
	name, loc := engine.ResolveZone(zoneName)

	return &App{
		Store:    st,
		Cfg:      cfg,
		Zone:     loc,
		ZoneName: name,
		User:     opts.User,
		Now:      opts.now(),
	}, nil
}

// Close releases the database.
func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
}

// Today is the current date in the session timezone.
func (a *App) Today() engine.Date {
	return engine.LocalDate(a.Now, a.Zone)
}

// formatter builds the output formatter for a command invocation.
func formatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
