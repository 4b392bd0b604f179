// Package logging assembles structured slog loggers and formatting helpers used
// across playervalue.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so resolver code can tag log
// lines with the run ID, the player being resolved, and the current stage. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape and routing as the rest of the tool.
package logging
