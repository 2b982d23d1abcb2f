// Package display renders bucket counts for output.
//
// It supports csv rows (the default, one "timestamp,count" line per
// bucket), JSON, and a human-readable table. The bucket start instant
// is rendered as "2006-01-02 15:04:05 UTC": fixed width and
// lexicographically sortable in ascending-timestamp order.
package display

import (
	"io"

	"github.com/tbuck/tbuck/pkg/aggregator"
)

// TimeLayout is the rendering layout for bucket start instants.
const TimeLayout = "2006-01-02 15:04:05"

// Format represents an output format.
type Format string

const (
	// FormatCSV renders one "timestamp,count" row per bucket.
	FormatCSV Format = "csv"

	// FormatJSON renders buckets as JSON.
	FormatJSON Format = "json"

	// FormatTable renders an aligned, human-readable table.
	FormatTable Format = "table"
)

// Valid reports whether f names a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatTable:
		return true
	default:
		return false
	}
}

// Formatter renders bucket counts.
type Formatter interface {
	// FormatBucket renders a single bucket row. Used by streaming
	// emission, where buckets appear one at a time.
	FormatBucket(w io.Writer, b aggregator.Bucket) error

	// FormatBuckets renders a complete ordered sequence of buckets.
	FormatBuckets(w io.Writer, buckets []aggregator.Bucket) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format. Default: FormatCSV.
	Format Format
}

// New creates a formatter based on configuration.
func New(cfg Config) Formatter {
	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatTable:
		return &tableFormatter{config: cfg}
	case FormatCSV:
		fallthrough
	default:
		return &csvFormatter{config: cfg}
	}
}
