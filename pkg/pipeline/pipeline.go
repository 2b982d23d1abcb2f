package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/tbuck/tbuck/pkg/aggregator"
	"github.com/tbuck/tbuck/pkg/input"
	"github.com/tbuck/tbuck/pkg/logger"
	"github.com/tbuck/tbuck/pkg/reader"
)

// pipeline implements the Pipeline interface.
type pipeline struct {
	config Config
	logger logger.Logger
}

// New creates a pipeline for the given configuration.
func New(cfg Config, log logger.Logger) (Pipeline, error) {
	if cfg.Format == nil {
		return nil, ErrNoFormat
	}
	if cfg.Formatter == nil {
		return nil, ErrNoFormatter
	}
	if cfg.Out == nil {
		return nil, ErrNoOutput
	}

	return &pipeline{
		config: cfg,
		logger: log,
	}, nil
}

// Run implements Pipeline.Run.
func (p *pipeline) Run(ctx context.Context, sources []input.Source) error {
	if p.config.Stream {
		return p.runStream(ctx, sources)
	}
	return p.runBatch(ctx, sources)
}

// runBatch aggregates everything in memory, then writes the full
// result once.
func (p *pipeline) runBatch(ctx context.Context, sources []input.Source) error {
	agg := aggregator.NewBatch(p.config.Aggregation)

	matched, skipped := 0, 0
	for _, src := range sources {
		err := p.eachSourceLine(ctx, src, func(line string) error {
			ts, ok := p.config.Format.Extract(line, p.config.MatchIndex)
			if !ok {
				skipped++
				return nil
			}
			matched++
			agg.Add(ts)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		if errors.Is(err, context.Canceled) {
			break
		}
	}

	p.logger.Debug("batch aggregation complete",
		"matched", matched,
		"skipped", skipped,
		"buckets", len(agg.Buckets()))

	return p.config.Formatter.FormatBuckets(p.config.Out, agg.Buckets())
}

// runStream writes each bucket as soon as it closes. Non-monotonic
// input under the fail policy aborts without flushing the open bucket.
func (p *pipeline) runStream(ctx context.Context, sources []input.Source) error {
	agg := aggregator.NewStream(p.config.Aggregation, func(b aggregator.Bucket) error {
		return p.config.Formatter.FormatBucket(p.config.Out, b)
	}, p.logger)

	matched, skipped := 0, 0
	for _, src := range sources {
		err := p.eachSourceLine(ctx, src, func(line string) error {
			ts, ok := p.config.Format.Extract(line, p.config.MatchIndex)
			if !ok {
				skipped++
				return nil
			}
			matched++
			return agg.Add(ts)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		if errors.Is(err, context.Canceled) {
			break
		}
	}

	p.logger.Debug("stream aggregation complete",
		"matched", matched,
		"skipped", skipped)

	return agg.Flush()
}

// eachSourceLine opens src and runs fn over its lines.
func (p *pipeline) eachSourceLine(ctx context.Context, src input.Source, fn func(string) error) error {
	rc, err := src.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src.Name(), err)
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			p.logger.Error("failed to close source",
				"source", src.Name(),
				"error", closeErr)
		}
	}()

	if err := reader.EachLine(ctx, rc, fn); err != nil {
		if errors.Is(err, context.Canceled) {
			p.logger.Debug("reading interrupted", "source", src.Name())
			return err
		}
		if errors.Is(err, aggregator.ErrNonMonotonicInput) {
			return err
		}
		return fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}

	return nil
}
