// Package services defines shared utilities consumed by the dashboard core and
// its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp profile IDs, view names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so partial loads, offline
//     enrichment, and feed outages can be classified with errors.Is.
//
// Use these helpers when wiring new components so failure reporting stays
// uniform across the repository.
package services
