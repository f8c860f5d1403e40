// Package store provides durable storage for Goalixa entities.
//
// The store is a collaborator of the temporal engine, not part of it:
// it fetches raw rows (time entries, habit logs, reminder rules,
// settings) scoped to a user and window, converts them to engine
// values, and persists the plain results the engine hands back. All
// temporal arithmetic lives in internal/engine; the store's queries
// only pre-filter ("all entries overlapping [a,b)") so reports don't
// load a user's entire history.
//
// STORAGE MODEL:
//
// SQLite with WAL mode and a single-writer connection pool. Timestamps
// are stored as RFC 3339 UTC strings; local calendar dates (habit logs,
// reminder anchors) as ISO "2006-01-02" strings. Rows with malformed
// timestamps are skipped on read rather than failing the query - the
// engine's degrade-never-abort policy starts here.
//
// Every method takes the acting user's ID explicitly. The store holds
// no ambient "current user" state.
package store
