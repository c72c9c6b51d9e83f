// Package stores persists lesson attempts in SQLite (WAL mode, embedded
// migrations) so learners can review their progress across sessions.
package stores
