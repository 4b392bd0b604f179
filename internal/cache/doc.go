// Package cache persists resolved player records in SQLite so repeated runs
// skip names resolved recently.
//
// Rows are keyed by the input name exactly as given and written with
// INSERT OR REPLACE, so the last write wins. Freshness is checked on read
// against the configured TTL; stale rows stay on disk until overwritten or
// removed through the cache commands. Schema changes bump schemaVersion in
// schema.go; users clear the cache to adopt the new schema.
package cache
