// Package logging constructs the application slog logger with console and
// JSON handlers and provides attribute helpers plus context-derived fields.
package logging
