package follow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tbuck/tbuck/pkg/aggregator"
	"github.com/tbuck/tbuck/pkg/logger"
	"github.com/tbuck/tbuck/pkg/reader"
	"github.com/tbuck/tbuck/pkg/watcher"
)

// follower implements the Follower interface.
type follower struct {
	config  Config
	logger  logger.Logger
	watcher watcher.Watcher
	reader  reader.Reader

	mu      sync.Mutex
	running bool
}

// New creates a follower for the given configuration.
func New(cfg Config, w watcher.Watcher, r reader.Reader, log logger.Logger) (Follower, error) {
	if len(cfg.Paths) == 0 {
		return nil, ErrNoPaths
	}
	if cfg.Format == nil {
		return nil, ErrNoFormat
	}
	if cfg.Formatter == nil {
		return nil, ErrNoFormatter
	}
	if cfg.Out == nil {
		return nil, ErrNoOutput
	}

	return &follower{
		config:  cfg,
		logger:  log,
		watcher: w,
		reader:  r,
	}, nil
}

// Run implements Follower.Run.
func (f *follower) Run(ctx context.Context) error {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return ErrAlreadyRunning
	}
	f.running = true
	f.mu.Unlock()

	agg := aggregator.NewStream(f.config.Aggregation, func(b aggregator.Bucket) error {
		return f.config.Formatter.FormatBucket(f.config.Out, b)
	}, f.logger)

	// Catch up on content written before the follower started.
	for _, path := range f.config.Paths {
		if err := f.consume(ctx, path, agg); err != nil {
			return err
		}
	}

	if err := f.watcher.Start(ctx, f.config.Paths); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	f.logger.Info("following files", "count", len(f.config.Paths))

	// Events and errors are consumed on this goroutine, so the stream
	// aggregator never sees concurrent access.
	for {
		select {
		case <-ctx.Done():
			f.logger.Debug("follow stopped", "reason", ctx.Err())
			return agg.Flush()

		case event, ok := <-f.watcher.Events():
			if !ok {
				f.logger.Warn("watcher events channel closed")
				return agg.Flush()
			}

			if err := f.handleEvent(ctx, event, agg); err != nil {
				return err
			}

		case err, ok := <-f.watcher.Errors():
			if !ok {
				f.logger.Warn("watcher errors channel closed")
				return agg.Flush()
			}

			f.logger.Error("watcher error", "error", err)
		}
	}
}

// handleEvent processes a single file change event.
func (f *follower) handleEvent(ctx context.Context, event watcher.Event, agg aggregator.Stream) error {
	f.logger.Debug("file change detected",
		"path", event.Path,
		"op", event.Op)

	switch event.Op {
	case watcher.OpRemove, watcher.OpRename:
		// The file may come back under the same name (log rotation);
		// start over from the beginning when it does.
		if err := f.reader.Reset(event.Path); err != nil {
			f.logger.Warn("failed to reset position",
				"path", event.Path,
				"error", err)
		}
		return nil

	case watcher.OpChmod:
		return nil

	default:
		return f.consume(ctx, event.Path, agg)
	}
}

// consume reads new lines from path and feeds them to the aggregator.
func (f *follower) consume(ctx context.Context, path string, agg aggregator.Stream) error {
	lines, err := f.reader.ReadNew(ctx, path)
	if err != nil {
		if errors.Is(err, reader.ErrFileNotFound) {
			f.logger.Debug("file not present yet", "path", path)
			return nil
		}
		f.logger.Warn("failed to read file",
			"path", path,
			"error", err)
		return nil
	}

	matched, skipped := 0, 0
	for _, line := range lines {
		ts, ok := f.config.Format.Extract(line, f.config.MatchIndex)
		if !ok {
			skipped++
			continue
		}
		matched++

		if err := agg.Add(ts); err != nil {
			return err
		}
	}

	if matched > 0 || skipped > 0 {
		f.logger.Debug("consumed lines",
			"path", path,
			"matched", matched,
			"skipped", skipped)
	}

	return nil
}
