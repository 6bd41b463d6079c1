// Package clipstore persists clips in SQLite.
//
// A Store owns one database file opened in WAL mode with a busy timeout.
// Writes that hit SQLITE_BUSY are retried with a short backoff. Tags are
// stored as JSON text so tag filters can use json_each.
//
// The schema is created on first open and versioned in schema_version; a
// database written by a different schema version is rejected with
// ErrSchemaMismatch.
package clipstore
