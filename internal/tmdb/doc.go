// Package tmdb resolves film titles to poster metadata from The Movie Database.
//
// Client is the thin HTTP search client. Enricher layers the dashboard policy
// on top: a placeholder or missing API key short-circuits every lookup, a
// movie search falls back to a TV search, and failures are classified into
// invalid-key and connectivity outcomes that flip the enricher offline and
// raise a notification. Definitive outcomes are written once to an injected
// Cache, and concurrent lookups of the same key share one request.
//
// Posters builds image URLs and the deterministic fallback artwork used while
// offline.
package tmdb
