// Package store persists alignment runs in SQLite so results can be listed
// and fetched again from the CLI and the HTTP API.
//
// The database lives at <state_dir>/runs.db. Schema creation is serialized
// across processes with a lock file next to it; all writes retry briefly
// when SQLite reports the database as busy.
package store
