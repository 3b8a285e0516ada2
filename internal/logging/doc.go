// Package logging assembles structured slog loggers and formatting helpers used
// across forcealign.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so alignment code can tag log
// lines with run IDs, segment indices, and correlation IDs. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Logs default to stderr so that command output written to stdout stays
// machine readable.
package logging
