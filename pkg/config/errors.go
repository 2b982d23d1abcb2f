package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrInvalidGranularity is returned when the granularity does not
	// parse as a bucket size.
	ErrInvalidGranularity = errors.New("invalid granularity: must be <number><s|m|h>")

	// ErrInvalidMatchIndex is returned when the match index is negative.
	ErrInvalidMatchIndex = errors.New("invalid match index: must be >= 0")

	// ErrInvalidDisplayFormat is returned when the output format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be csv, json, or table")

	// ErrInvalidDebounceInterval is returned when the debounce interval is <= 0.
	ErrInvalidDebounceInterval = errors.New("invalid debounce interval: must be > 0")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
