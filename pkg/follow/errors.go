package follow

import "errors"

// Common errors returned by the follower.
var (
	// ErrNoPaths is returned when no files are given to follow.
	ErrNoPaths = errors.New("no files to follow")

	// ErrNoFormat is returned when no timestamp format is configured.
	ErrNoFormat = errors.New("timestamp format is required")

	// ErrNoFormatter is returned when no output formatter is configured.
	ErrNoFormatter = errors.New("output formatter is required")

	// ErrNoOutput is returned when no output writer is configured.
	ErrNoOutput = errors.New("output writer is required")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("follower already running")
)
