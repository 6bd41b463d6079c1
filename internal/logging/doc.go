// Package logging assembles structured slog loggers and formatting helpers used
// across cliptag.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so analysis code can tag log
// lines with clip IDs, tiers, and request correlation IDs. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
