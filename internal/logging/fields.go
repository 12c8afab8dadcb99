package logging

import (
	"log/slog"
	"time"
)

// Common field names for consistent logging across packages.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldSource    = "source"
	FieldEvents    = "events"
	FieldSessions  = "sessions"
	FieldErrors    = "errors"
	FieldResidual  = "residual"
	FieldWorkers   = "workers"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
)

// Component returns a slog attribute for the engine component name.
func Component(name string) slog.Attr {
	return slog.String(FieldComponent, name)
}

// RunID returns a slog attribute for the ingest run identifier.
func RunID(id string) slog.Attr {
	return slog.String(FieldRunID, id)
}

// Source returns a slog attribute for the input source path.
func Source(path string) slog.Attr {
	return slog.String(FieldSource, path)
}

// Events returns a slog attribute for an event count.
func Events(n int) slog.Attr {
	return slog.Int(FieldEvents, n)
}

// Sessions returns a slog attribute for a session count.
func Sessions(n int) slog.Attr {
	return slog.Int(FieldSessions, n)
}

// Errors returns a slog attribute for an error count.
func Errors(n int) slog.Attr {
	return slog.Int(FieldErrors, n)
}

// Residual returns a slog attribute for a residual-event count.
func Residual(n int) slog.Attr {
	return slog.Int(FieldResidual, n)
}

// Workers returns a slog attribute for a worker-pool size.
func Workers(n int) slog.Attr {
	return slog.Int(FieldWorkers, n)
}

// Duration returns a slog attribute for a duration in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(FieldDuration, d.Milliseconds())
}

// Err returns a slog attribute for an error value.
func Err(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
