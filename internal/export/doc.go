// Package export assembles the in-memory data model for one Letterboxd export
// profile.
//
// A Repository reads the users manifest and every per-category CSV file
// through an afero filesystem. Category loads run concurrently and fail
// independently: a missing or unreadable file yields an empty collection and
// a log line, never an aborted load. Once all loads settle the repository
// resolves the display name and favorite films, and snapshots the diary so a
// live-feed merge can later be undone exactly.
//
// Bundle also carries the derived dashboard figures (counts, average rating,
// monthly activity, rating distribution, and the watched/diary join).
package export
