// Package feed reads a Letterboxd member's public activity feed.
//
// The feed is fetched through a relay that wraps the target URL in a JSON
// envelope and may base64-encode the document. Relay responses are validated
// as XML before gofeed parses them as RSS or Atom. Each item is classified by
// activity type and run through an ordered chain of film extraction
// strategies, starting with the letterboxd namespace fields and ending with a
// title derived from the film URL slug.
//
// Parsed feeds are cached per username for a short TTL. Only entries with an
// explicit watched date qualify as diary candidates unless the client runs in
// permissive mode.
package feed
