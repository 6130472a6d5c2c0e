// Package logging assembles structured slog loggers and formatting helpers used
// across filmdash.
//
// It owns the console/JSON handlers and the optional rotated log file, and
// exposes context-aware helpers so components automatically tag log lines with
// profile IDs, view names, and session correlation IDs. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
