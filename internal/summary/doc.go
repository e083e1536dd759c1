// Package summary generates the short and comprehensive summaries for a
// transcript and defensively parses the model's JSON output.
package summary
