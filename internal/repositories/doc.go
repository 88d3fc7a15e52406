// Package repositories persists the single client session between runs.
//
// Implementations:
//   - [SessionRepository] : SQLite-backed, survives restarts
//   - [MemorySessionStore] : process-lifetime only, used when no database is configured and in tests
//
// Both hold at most one session. Save replaces whatever was stored, and Load returns [shared.ErrNoSession] when empty.
// A row that fails [models.Session.Validate] on load is deleted and reported as [shared.ErrNoSession], so a
// half-written record is never handed back as a live session.
package repositories
