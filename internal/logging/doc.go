// Package logging assembles the structured slog loggers used across the
// aggregator.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes context-aware helpers so scan code can automatically tag log lines
// with run IDs and the archive currently being processed. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
