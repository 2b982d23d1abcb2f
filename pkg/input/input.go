// Package input resolves command-line arguments into ordered line
// sources. Input files are read in argument order, conceptually
// concatenated; no arguments means standard input.
package input

import (
	"fmt"
	"io"
	"os"

	"github.com/tbuck/tbuck/pkg/logger"
)

// Source is one readable input: a file path or standard input.
type Source struct {
	path  string
	stdin bool
}

// Stdin returns the standard input source.
func Stdin() Source {
	return Source{stdin: true}
}

// File returns a source for the given path.
func File(path string) Source {
	return Source{path: path}
}

// Name returns a human-readable name for the source.
func (s Source) Name() string {
	if s.stdin {
		return "stdin"
	}
	return s.path
}

// Path returns the file path, or "" for standard input.
func (s Source) Path() string {
	return s.path
}

// IsStdin reports whether the source is standard input.
func (s Source) IsStdin() bool {
	return s.stdin
}

// Open returns a reader for the source. Closing the returned reader
// never closes the real standard input.
func (s Source) Open() (io.ReadCloser, error) {
	if s.stdin {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	return f, nil
}

// Resolve maps arguments to sources, preserving argument order. With no
// arguments it returns the single standard input source. Every named
// file must exist and be a regular file.
func Resolve(args []string, log logger.Logger) ([]Source, error) {
	if len(args) == 0 {
		log.Debug("no input files, reading standard input")
		return []Source{Stdin()}, nil
	}

	sources := make([]Source, 0, len(args))
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, arg)
			}
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrSourceIsDirectory, arg)
		}
		sources = append(sources, File(arg))
	}

	log.Debug("resolved input sources", "count", len(sources))
	return sources, nil
}
