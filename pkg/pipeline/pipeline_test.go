package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbuck/tbuck/pkg/aggregator"
	"github.com/tbuck/tbuck/pkg/bucket"
	"github.com/tbuck/tbuck/pkg/display"
	"github.com/tbuck/tbuck/pkg/input"
	"github.com/tbuck/tbuck/pkg/logger"
	"github.com/tbuck/tbuck/pkg/timefmt"
)

func writeSource(t *testing.T, lines string) input.Source {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.log")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0600))
	return input.File(path)
}

func newPipeline(t *testing.T, cfg Config) (Pipeline, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	cfg.Out = out

	if cfg.Format == nil {
		format, err := timefmt.Compile("%F %T")
		require.NoError(t, err)
		cfg.Format = format
	}
	if cfg.Formatter == nil {
		cfg.Formatter = display.New(display.Config{Format: display.FormatCSV})
	}
	if cfg.Aggregation.Granularity.IsZero() {
		g, err := bucket.Parse("1m")
		require.NoError(t, err)
		cfg.Aggregation.Granularity = g
	}

	p, err := New(cfg, logger.Noop())
	require.NoError(t, err)

	return p, out
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	format, err := timefmt.Compile("%F %T")
	require.NoError(t, err)
	formatter := display.New(display.Config{Format: display.FormatCSV})
	out := &bytes.Buffer{}

	_, err = New(Config{Formatter: formatter, Out: out}, logger.Noop())
	assert.ErrorIs(t, err, ErrNoFormat)

	_, err = New(Config{Format: format, Out: out}, logger.Noop())
	assert.ErrorIs(t, err, ErrNoFormatter)

	_, err = New(Config{Format: format, Formatter: formatter}, logger.Noop())
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestRunBatch(t *testing.T) {
	t.Parallel()

	src := writeSource(t, `2019-03-14 12:01:00 GET /a
2019-03-14 12:01:10 GET /b
2019-03-14 12:01:20 GET /c
2019-03-14 12:03:05 GET /d
`)

	p, out := newPipeline(t, Config{
		Aggregation: aggregator.Config{FillGaps: true},
	})

	require.NoError(t, p.Run(context.Background(), []input.Source{src}))

	want := "2019-03-14 12:01:00 UTC,3\n" +
		"2019-03-14 12:02:00 UTC,0\n" +
		"2019-03-14 12:03:00 UTC,1\n"
	assert.Equal(t, want, out.String())
}

func TestRunBatchNoFill(t *testing.T) {
	t.Parallel()

	src := writeSource(t, `2019-03-14 12:01:00 GET /a
2019-03-14 12:03:05 GET /b
`)

	p, out := newPipeline(t, Config{})

	require.NoError(t, p.Run(context.Background(), []input.Source{src}))

	want := "2019-03-14 12:01:00 UTC,1\n" +
		"2019-03-14 12:03:00 UTC,1\n"
	assert.Equal(t, want, out.String())
}

func TestRunBatchSkipsUnmatchedLines(t *testing.T) {
	t.Parallel()

	src := writeSource(t, `2019-03-14 12:01:00 GET /a
no timestamp on this line
2019-03-14 12:01:30 GET /b
`)

	p, out := newPipeline(t, Config{})

	require.NoError(t, p.Run(context.Background(), []input.Source{src}))
	assert.Equal(t, "2019-03-14 12:01:00 UTC,2\n", out.String())
}

func TestRunBatchMultipleSources(t *testing.T) {
	t.Parallel()

	a := writeSource(t, "2019-03-14 12:01:00 GET /a\n")
	b := writeSource(t, "2019-03-14 12:01:30 GET /b\n2019-03-14 12:02:10 GET /c\n")

	p, out := newPipeline(t, Config{})

	require.NoError(t, p.Run(context.Background(), []input.Source{a, b}))

	want := "2019-03-14 12:01:00 UTC,2\n" +
		"2019-03-14 12:02:00 UTC,1\n"
	assert.Equal(t, want, out.String())
}

func TestRunStream(t *testing.T) {
	t.Parallel()

	src := writeSource(t, `2019-03-14 12:01:00 GET /a
2019-03-14 12:01:10 GET /b
2019-03-14 12:02:30 GET /c
`)

	p, out := newPipeline(t, Config{Stream: true})

	require.NoError(t, p.Run(context.Background(), []input.Source{src}))

	want := "2019-03-14 12:01:00 UTC,2\n" +
		"2019-03-14 12:02:00 UTC,1\n"
	assert.Equal(t, want, out.String())
}

func TestRunStreamFill(t *testing.T) {
	t.Parallel()

	src := writeSource(t, `2019-03-14 12:01:00 GET /a
2019-03-14 12:04:10 GET /b
`)

	p, out := newPipeline(t, Config{
		Stream:      true,
		Aggregation: aggregator.Config{FillGaps: true},
	})

	require.NoError(t, p.Run(context.Background(), []input.Source{src}))

	want := "2019-03-14 12:01:00 UTC,1\n" +
		"2019-03-14 12:02:00 UTC,0\n" +
		"2019-03-14 12:03:00 UTC,0\n" +
		"2019-03-14 12:04:00 UTC,1\n"
	assert.Equal(t, want, out.String())
}

func TestRunStreamNonMonotonicFails(t *testing.T) {
	t.Parallel()

	src := writeSource(t, `2019-03-14 12:02:00 GET /a
2019-03-14 12:01:00 GET /b
`)

	p, out := newPipeline(t, Config{Stream: true})

	err := p.Run(context.Background(), []input.Source{src})
	require.Error(t, err)
	assert.ErrorIs(t, err, aggregator.ErrNonMonotonicInput)

	var nmErr *aggregator.NonMonotonicError
	require.True(t, errors.As(err, &nmErr))

	// The open bucket is not flushed after a violation.
	assert.Empty(t, out.String())
}

func TestRunStreamTolerant(t *testing.T) {
	t.Parallel()

	src := writeSource(t, `2019-03-14 12:02:00 GET /a
2019-03-14 12:01:00 GET /b
2019-03-14 12:02:30 GET /c
`)

	p, out := newPipeline(t, Config{
		Stream: true,
		Aggregation: aggregator.Config{
			OnViolation: aggregator.PolicyDiscard,
		},
	})

	require.NoError(t, p.Run(context.Background(), []input.Source{src}))
	assert.Equal(t, "2019-03-14 12:02:00 UTC,2\n", out.String())
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	src := writeSource(t, "2019-03-14 12:01:00 GET /a\n")

	p, out := newPipeline(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Cancellation ends the run gracefully with whatever was
	// aggregated before the stop.
	require.NoError(t, p.Run(ctx, []input.Source{src}))
	assert.Empty(t, out.String())
}

func TestRunEmptyInput(t *testing.T) {
	t.Parallel()

	src := writeSource(t, "")

	p, out := newPipeline(t, Config{
		Aggregation: aggregator.Config{FillGaps: true},
	})

	require.NoError(t, p.Run(context.Background(), []input.Source{src}))
	assert.Empty(t, out.String())
}
