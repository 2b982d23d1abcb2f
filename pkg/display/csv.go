package display

import (
	"fmt"
	"io"

	"github.com/tbuck/tbuck/pkg/aggregator"
)

// csvFormatter renders "timestamp,count" rows.
type csvFormatter struct {
	config Config
}

// FormatBucket implements Formatter.FormatBucket.
func (f *csvFormatter) FormatBucket(w io.Writer, b aggregator.Bucket) error {
	_, err := fmt.Fprintf(w, "%s UTC,%d\n", b.Start.UTC().Format(TimeLayout), b.Count)
	return err
}

// FormatBuckets implements Formatter.FormatBuckets.
func (f *csvFormatter) FormatBuckets(w io.Writer, buckets []aggregator.Bucket) error {
	for _, b := range buckets {
		if err := f.FormatBucket(w, b); err != nil {
			return err
		}
	}
	return nil
}
