// Package reader provides line reading for the aggregation pipeline:
// a scanning helper for one-shot reads, and an incremental Reader that
// resumes from a persisted per-file offset for follow mode.
//
// Example usage:
//
//	r, err := reader.New(reader.Config{
//	    PositionStore: reader.NewMemoryPositionStore(),
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	lines, err := r.ReadNew(ctx, "/var/log/app.log")
package reader

import "context"

// PositionStore persists per-file read offsets so follow mode can
// resume where it left off.
type PositionStore interface {
	// GetPosition retrieves the last read offset for a file. Returns 0
	// when no offset is stored (start from the beginning).
	GetPosition(path string) (int64, error)

	// SetPosition stores the read offset for a file.
	SetPosition(path string, offset int64) error

	// Close releases store resources.
	Close() error
}

// Reader reads new lines from growing files.
type Reader interface {
	// ReadNew returns the complete lines appended to the file since
	// the stored offset, and advances the offset past them. A file
	// shorter than the stored offset is treated as truncated and read
	// from the beginning again.
	ReadNew(ctx context.Context, path string) ([]string, error)

	// Reset moves the stored offset for a file back to the beginning.
	Reset(path string) error

	// Close closes the reader. The position store is owned by the
	// caller and stays open.
	Close() error
}

// Config contains reader configuration.
type Config struct {
	// PositionStore persists file read offsets. Required.
	PositionStore PositionStore

	// MaxLineLength caps a single line's length in bytes.
	// Default: 1MB.
	MaxLineLength int
}
