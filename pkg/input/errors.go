package input

import "errors"

// Common errors returned by the input package.
var (
	// ErrSourceNotFound is returned when a named input file does not
	// exist.
	ErrSourceNotFound = errors.New("input file not found")

	// ErrSourceIsDirectory is returned when a named input is a
	// directory.
	ErrSourceIsDirectory = errors.New("input is a directory")
)
