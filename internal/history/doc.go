// Package history persists completed runs to a local SQLite database.
//
// The store is strictly observational: recording is best-effort and a
// recording failure never changes a run's outcome. The default database
// lives under the user cache directory so a workspace checkout stays
// clean.
package history
