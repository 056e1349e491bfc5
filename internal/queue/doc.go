// Package queue persists pipeline jobs in SQLite and enforces the
// one-live-run-per-name policy through run tokens.
package queue
