// Package main hosts the playervalue CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration, wires the browser pool, result
// cache, metrics and logging together, and hands a list of names to the
// resolver service. Output is rendered as CSV, JSON or a terminal table.
// Cache and config subcommands cover inspection and scaffolding, and check
// runs the preflight probes before a long batch.
//
// Keep this package lean: resolution behaviour belongs in internal/resolver,
// and commands here only translate flags into calls and results into output.
package main
