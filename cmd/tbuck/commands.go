package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tbuck/tbuck/pkg/aggregator"
	"github.com/tbuck/tbuck/pkg/bucket"
	"github.com/tbuck/tbuck/pkg/config"
	"github.com/tbuck/tbuck/pkg/display"
	"github.com/tbuck/tbuck/pkg/follow"
	"github.com/tbuck/tbuck/pkg/input"
	"github.com/tbuck/tbuck/pkg/logger"
	"github.com/tbuck/tbuck/pkg/pipeline"
	"github.com/tbuck/tbuck/pkg/reader"
	"github.com/tbuck/tbuck/pkg/timefmt"
	"github.com/tbuck/tbuck/pkg/watcher"
)

// bucketCommand runs the aggregation, one-shot or following.
type bucketCommand struct {
	opts *cliOptions
}

// Execute runs the command.
func (c *bucketCommand) Execute() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	format, err := timefmt.Compile(c.opts.pattern)
	if err != nil {
		return fmt.Errorf("invalid format pattern: %w", err)
	}
	log.Debug("compiled timestamp pattern", "pattern", format.Pattern())

	granularity, err := bucket.Parse(cfg.Granularity)
	if err != nil {
		return fmt.Errorf("invalid granularity: %w", err)
	}

	aggCfg := aggregator.Config{
		Granularity: granularity,
		FillGaps:    !cfg.NoFill,
		Direction:   aggregator.Ascending,
		OnViolation: aggregator.PolicyFail,
	}
	if c.opts.descending {
		aggCfg.Direction = aggregator.Descending
	}
	if c.opts.tolerant {
		aggCfg.OnViolation = aggregator.PolicyDiscard
	}

	formatter := display.New(display.Config{
		Format: display.Format(cfg.Display.Format),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.opts.follow {
		return c.runFollow(ctx, cfg, log, format, aggCfg, formatter)
	}

	sources, err := input.Resolve(c.opts.files, log)
	if err != nil {
		return err
	}

	p, err := pipeline.New(pipeline.Config{
		Format:      format,
		MatchIndex:  cfg.MatchIndex,
		Aggregation: aggCfg,
		Stream:      c.opts.stream,
		Formatter:   formatter,
		Out:         os.Stdout,
	}, log)
	if err != nil {
		return err
	}

	return p.Run(ctx, sources)
}

// loadConfig loads configuration and overlays command line flags.
func (c *bucketCommand) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if c.opts.configPath != "" {
		cfg, err = config.LoadFromFile(c.opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlags(cfg, c.opts)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFlags overlays command line flags onto the loaded configuration.
// Flags beat file and environment values.
func applyFlags(cfg *config.Config, opts *cliOptions) {
	if opts.granularity != "" {
		cfg.Granularity = opts.granularity
	}
	if opts.matchIndex >= 0 {
		cfg.MatchIndex = opts.matchIndex
	}
	if opts.noFill {
		cfg.NoFill = true
	}
	if opts.format != "" {
		cfg.Display.Format = opts.format
	}
	if opts.persist && cfg.Follow.PositionsDB == "" {
		cfg.Follow.PositionsDB = config.DefaultPositionsDBPath()
	}
}

// runFollow wires up the live aggregation path.
func (c *bucketCommand) runFollow(
	ctx context.Context,
	cfg *config.Config,
	log logger.Logger,
	format *timefmt.Format,
	aggCfg aggregator.Config,
	formatter display.Formatter,
) error {
	var store reader.PositionStore
	var err error

	if cfg.Follow.PositionsDB != "" {
		store, err = reader.NewBoltPositionStore(cfg.Follow.PositionsDB)
		if err != nil {
			return fmt.Errorf("failed to open positions db: %w", err)
		}
	} else {
		store = reader.NewMemoryPositionStore()
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error("failed to close position store", "error", closeErr)
		}
	}()

	r, err := reader.New(reader.Config{
		PositionStore: store,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize reader: %w", err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil {
			log.Error("failed to close reader", "error", closeErr)
		}
	}()

	w, err := watcher.New(watcher.Config{
		DebounceInterval: cfg.Follow.DebounceInterval,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize watcher: %w", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			log.Error("failed to close watcher", "error", closeErr)
		}
	}()

	f, err := follow.New(follow.Config{
		Paths:       c.opts.files,
		Format:      format,
		MatchIndex:  cfg.MatchIndex,
		Aggregation: aggCfg,
		Formatter:   formatter,
		Out:         os.Stdout,
	}, w, r, log)
	if err != nil {
		return err
	}

	return f.Run(ctx)
}
