package bucket

import "errors"

// ErrInvalidGranularity is returned when a granularity spec is
// malformed: missing or unrecognized unit, non-positive count, or
// leading/trailing garbage.
var ErrInvalidGranularity = errors.New("invalid granularity")
