// Package metrics records resolver activity in a private prometheus registry.
//
// Nothing is served over HTTP. When a textfile path is configured the registry
// is written once at the end of a run for a node exporter textfile collector.
// A nil *Recorder is valid and discards everything.
package metrics
