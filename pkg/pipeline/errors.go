package pipeline

import "errors"

// Common errors returned by the pipeline.
var (
	// ErrNoFormat is returned when no timestamp format is configured.
	ErrNoFormat = errors.New("timestamp format is required")

	// ErrNoFormatter is returned when no output formatter is configured.
	ErrNoFormatter = errors.New("output formatter is required")

	// ErrNoOutput is returned when no output writer is configured.
	ErrNoOutput = errors.New("output writer is required")
)
