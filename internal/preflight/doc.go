// Package preflight provides readiness checks for the paths and external
// services filmdash depends on.
//
// The CLI "filmdash status" command runs RunAll and prints one row per check.
// Optional services report Passed with a "disabled" detail when they are not
// configured, so a dashboard without a TMDB key still reads as healthy.
package preflight
