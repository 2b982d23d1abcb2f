package timefmt

import "errors"

// Common errors returned when compiling format patterns.
var (
	// ErrUnsupportedSpecifier is returned when a pattern uses a
	// specifier outside the supported set.
	ErrUnsupportedSpecifier = errors.New("unsupported format specifier")

	// ErrIncompleteFormat is returned when a pattern does not carry
	// enough information to construct a full date/time.
	ErrIncompleteFormat = errors.New("not enough information in date/time format")
)
