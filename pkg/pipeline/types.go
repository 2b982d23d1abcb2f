// Package pipeline runs the one-shot aggregation: read each input
// source front to back, extract timestamps, bucket the counts, and
// write the result.
//
// Example usage:
//
//	format, _ := timefmt.Compile("%F %T")
//	p, err := pipeline.New(pipeline.Config{
//	    Format:      format,
//	    Aggregation: aggregator.Config{Granularity: g, FillGaps: true},
//	    Formatter:   display.New(display.Config{Format: display.FormatCSV}),
//	    Out:         os.Stdout,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := p.Run(ctx, sources); err != nil {
//	    log.Fatal(err)
//	}
package pipeline

import (
	"context"
	"io"

	"github.com/tbuck/tbuck/pkg/aggregator"
	"github.com/tbuck/tbuck/pkg/display"
	"github.com/tbuck/tbuck/pkg/input"
	"github.com/tbuck/tbuck/pkg/timefmt"
)

// Pipeline aggregates a fixed set of input sources.
type Pipeline interface {
	// Run reads every source in order and writes the bucketed counts
	// to the configured output. In batch mode all sources are consumed
	// before anything is written; in stream mode rows are written as
	// buckets close. Cancelling the context stops reading and flushes
	// what has been aggregated so far.
	Run(ctx context.Context, sources []input.Source) error
}

// Config contains pipeline configuration.
type Config struct {
	// Format is the compiled timestamp pattern. Required.
	Format *timefmt.Format

	// MatchIndex selects which timestamp match on a line to bucket by
	// (0-based).
	MatchIndex int

	// Aggregation configures bucket size, gap filling, direction, and
	// the non-monotonic input policy.
	Aggregation aggregator.Config

	// Stream selects incremental output: rows are emitted as buckets
	// close instead of after all input is read.
	Stream bool

	// Formatter renders buckets. Required.
	Formatter display.Formatter

	// Out receives the rendered output. Required.
	Out io.Writer
}
