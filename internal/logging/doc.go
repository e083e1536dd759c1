// Package logging constructs the application's slog loggers.
//
// Format "auto" picks a human-readable text handler when stdout is a
// terminal and JSON otherwise. WithContext threads cycle and video
// correlation ids from the context into every record so one grep follows a
// cycle across components.
package logging
