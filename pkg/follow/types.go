// Package follow provides live aggregation of growing log files. It
// combines the incremental reader with the file system watcher: each
// followed file is caught up once at startup, then re-read whenever
// the watcher reports a change, feeding a stream aggregator that
// writes rows as buckets close.
package follow

import (
	"context"
	"io"

	"github.com/tbuck/tbuck/pkg/aggregator"
	"github.com/tbuck/tbuck/pkg/display"
	"github.com/tbuck/tbuck/pkg/timefmt"
)

// Follower tails log files and emits bucketed counts.
type Follower interface {
	// Run blocks until the context is cancelled or aggregation fails.
	// On cancellation the open bucket is flushed and Run returns nil.
	// A non-monotonic timestamp under the fail policy aborts the run
	// without flushing.
	Run(ctx context.Context) error
}

// Config contains follower configuration.
type Config struct {
	// Paths are the log files to follow. Required.
	Paths []string

	// Format is the compiled timestamp pattern. Required.
	Format *timefmt.Format

	// MatchIndex selects which timestamp match on a line to bucket by
	// (0-based).
	MatchIndex int

	// Aggregation configures bucket size, gap filling, direction, and
	// the non-monotonic input policy.
	Aggregation aggregator.Config

	// Formatter renders buckets. Required.
	Formatter display.Formatter

	// Out receives the rendered output. Required.
	Out io.Writer
}
