package model

import "time"

// SourceError records one input source that could not be opened or read.
// Failing sources do not abort ingestion of the remaining sources.
type SourceError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// IngestSummary is the aggregate outcome of one open or append operation.
// Per-record and per-source problems are counted here instead of being
// raised individually.
type IngestSummary struct {
	RunID   string   `json:"run_id"`
	Append  bool     `json:"append,omitempty"`
	Sources []string `json:"sources"`

	EventCount    int `json:"event_count"`
	SessionCount  int `json:"session_count"`
	ResidualCount int `json:"residual_count"`
	ErrorCount    int `json:"error_count"`

	// Diagnostics holds the first N parse errors; ErrorCount is the full
	// count.
	Diagnostics  []ParseError  `json:"diagnostics,omitempty"`
	SourceErrors []SourceError `json:"source_errors,omitempty"`

	Duration time.Duration `json:"duration"`
}
