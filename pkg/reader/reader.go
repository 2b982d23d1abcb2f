package reader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tbuck/tbuck/pkg/logger"
)

// defaultMaxLineLength caps scanned lines at 1MB.
const defaultMaxLineLength = 1024 * 1024

// EachLine calls fn for every line of r in order, stopping early when
// fn or the context reports an error. Used by the one-shot pipeline,
// where sources are read exactly once front to back.
func EachLine(ctx context.Context, r io.Reader, fn func(line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), defaultMaxLineLength)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// reader implements the Reader interface.
type reader struct {
	store  PositionStore
	logger logger.Logger
	config Config

	mu     sync.Mutex
	closed bool
}

// New creates an incremental reader backed by the given position store.
func New(cfg Config, log logger.Logger) (Reader, error) {
	if cfg.PositionStore == nil {
		return nil, fmt.Errorf("position store is required")
	}
	if cfg.MaxLineLength == 0 {
		cfg.MaxLineLength = defaultMaxLineLength
	}

	return &reader{
		store:  cfg.PositionStore,
		logger: log,
		config: cfg,
	}, nil
}

// ReadNew implements Reader.ReadNew.
func (r *reader) ReadNew(ctx context.Context, path string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrReaderClosed
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	offset, err := r.store.GetPosition(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if offset > info.Size() {
		r.logger.Warn("file was truncated, resetting offset",
			"path", path,
			"old_offset", offset,
			"file_size", info.Size())
		offset = 0
	}

	if offset == info.Size() {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			r.logger.Error("failed to close file", "path", path, "error", closeErr)
		}
	}()

	if offset > 0 {
		if _, seekErr := f.Seek(offset, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("failed to seek to offset %d: %w", offset, seekErr)
		}
	}

	lines, newOffset, err := scanComplete(f, offset, r.config.MaxLineLength)
	if err != nil {
		return nil, err
	}

	if err := r.store.SetPosition(path, newOffset); err != nil {
		// The read succeeded; a failed position write only means the
		// same lines may be re-read after a restart.
		r.logger.Error("failed to update position",
			"path", path,
			"offset", newOffset,
			"error", err)
	}

	r.logger.Debug("read complete",
		"path", path,
		"lines", len(lines),
		"new_offset", newOffset)

	return lines, nil
}

// Reset implements Reader.Reset.
func (r *reader) Reset(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrReaderClosed
	}

	if err := r.store.SetPosition(path, 0); err != nil {
		return fmt.Errorf("failed to reset position: %w", err)
	}
	return nil
}

// Close implements Reader.Close.
func (r *reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	return nil
}

// scanComplete reads newline-terminated lines starting at offset and
// returns them with the offset just past the last terminator. A
// trailing partial line (no newline yet) is left for the next read so
// a half-written entry is never handed to the extractor.
func scanComplete(f io.Reader, offset int64, maxLine int) ([]string, int64, error) {
	br := bufio.NewReaderSize(f, 64*1024)

	var lines []string
	for {
		line, err := br.ReadString('\n')
		if err == io.EOF {
			// Partial line, not consumed.
			return lines, offset, nil
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read error: %w", err)
		}
		if len(line) > maxLine {
			return nil, 0, fmt.Errorf("%w: %d bytes", ErrLineTooLong, len(line))
		}

		offset += int64(len(line))
		lines = append(lines, line[:len(line)-1])
	}
}
