package reader

import "errors"

// Common errors returned by the reader.
var (
	// ErrFileNotFound is returned when a followed file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrLineTooLong is returned when a line exceeds the maximum
	// length.
	ErrLineTooLong = errors.New("line exceeds maximum length")

	// ErrReaderClosed is returned when using a closed reader.
	ErrReaderClosed = errors.New("reader is closed")
)
