// Package store keeps an opt-in SQLite history of harness runs.
//
// Each run gets a row in runs, keyed by a UUIDv7 so that ids sort by
// creation time, and one row per completed test in results. Rows are never
// updated: a second write for the same (run_id, seq) is an error.
//
// The base tables live in schema.sql. Later changes are appended to the
// upgrades list in store.go and tracked with PRAGMA user_version, so an
// older history file is brought forward the next time it is opened.
//
// Nothing in the store is read back by the harness; history only serves
// the `history` command.
package store
