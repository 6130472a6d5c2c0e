// Package prefs persists per-profile user preferences in SQLite.
//
// The store keeps two flags today: whether live data is enabled for a
// profile, and the global choice to silence enrichment notices. Values are
// stored as text under (profile, key) so new flags need no schema change.
package prefs
