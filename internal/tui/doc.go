// Package tui implements the terminal watch view for a running conductor.
// It renders the worker pool, the ingested item log, and the live event
// stream, and accepts goals for on-demand planning.
package tui
