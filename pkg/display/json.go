package display

import (
	"encoding/json"
	"io"

	"github.com/tbuck/tbuck/pkg/aggregator"
)

// jsonFormatter renders buckets as JSON.
type jsonFormatter struct {
	config Config
}

// row is the wire shape of one bucket.
type row struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

func toRow(b aggregator.Bucket) row {
	return row{
		Bucket: b.Start.UTC().Format(TimeLayout) + " UTC",
		Count:  b.Count,
	}
}

// FormatBucket implements Formatter.FormatBucket. Streaming emission
// produces one JSON object per line.
func (f *jsonFormatter) FormatBucket(w io.Writer, b aggregator.Bucket) error {
	return json.NewEncoder(w).Encode(toRow(b))
}

// FormatBuckets implements Formatter.FormatBuckets.
func (f *jsonFormatter) FormatBuckets(w io.Writer, buckets []aggregator.Bucket) error {
	rows := make([]row, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, toRow(b))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
