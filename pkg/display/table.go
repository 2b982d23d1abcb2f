package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tbuck/tbuck/pkg/aggregator"
)

// defaultWidth is used when the writer is not a terminal.
const defaultWidth = 80

// tableFormatter renders an aligned, human-readable table.
type tableFormatter struct {
	config Config
}

// FormatBucket implements Formatter.FormatBucket.
func (f *tableFormatter) FormatBucket(w io.Writer, b aggregator.Bucket) error {
	_, err := fmt.Fprintf(w, "%-23s  %10d\n", b.Start.UTC().Format(TimeLayout)+" UTC", b.Count)
	return err
}

// FormatBuckets implements Formatter.FormatBuckets.
func (f *tableFormatter) FormatBuckets(w io.Writer, buckets []aggregator.Bucket) error {
	width := terminalWidth(w)
	if width > defaultWidth {
		width = defaultWidth
	}

	if _, err := fmt.Fprintf(w, "%-23s  %10s\n", "BUCKET", "COUNT"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", width)); err != nil {
		return err
	}

	for _, b := range buckets {
		if err := f.FormatBucket(w, b); err != nil {
			return err
		}
	}

	return nil
}

// terminalWidth returns the width of w when it is a terminal, or the
// default width otherwise.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}

	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
