// Package notifications delivers dashboard outage notices via pluggable
// notifiers.
//
// The ntfy implementation publishes to the topic URL configured in
// config.toml. Without a topic, notices become structured WARN log lines.
// RateLimited wraps either one so a flapping catalog or feed produces at most
// one notice per interval, or per session, and nothing once the user has
// dismissed them.
//
// Callers depend only on the small Service interface.
package notifications
