// Package sqlite provides a SQLite-based implementation of the driven storage
// ports, selected with state.backend = "sqlite".
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. One database connection backs every store:
//
//   - FingerprintStore: the fingerprint snapshot, replaced in one transaction
//   - RunStateStore: the single sync workflow record
//   - RunHistoryStore: pipeline run reports
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// The database is stored at <data_dir>/helpsync.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store runs SQLite in WAL
// mode with a busy timeout.
package sqlite
