package aggregator

import (
	"sort"
	"time"
)

// batch implements the Batch interface.
//
// Counts live in a map keyed by the bucket start's unix seconds:
// Truncate always yields second-aligned UTC instants, so the unix value
// identifies a bucket exactly and avoids the pitfalls of time.Time as a
// map key.
type batch struct {
	cfg    Config
	counts map[int64]int
	total  int
}

// NewBatch creates a batch aggregator.
func NewBatch(cfg Config) Batch {
	return &batch{
		cfg:    cfg.withDefaults(),
		counts: make(map[int64]int),
	}
}

// Add implements Batch.Add.
func (b *batch) Add(t time.Time) {
	key := b.cfg.Granularity.Truncate(t).Unix()
	b.counts[key]++
	b.total++
}

// Buckets implements Batch.Buckets.
func (b *batch) Buckets() []Bucket {
	if len(b.counts) == 0 {
		return []Bucket{}
	}

	keys := make([]int64, 0, len(b.counts))
	for key := range b.counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var out []Bucket
	if b.cfg.FillGaps {
		// Every multiple of the granularity from min to max inclusive,
		// substituting 0 for absent keys.
		step := b.cfg.Granularity.Seconds()
		out = make([]Bucket, 0, (keys[len(keys)-1]-keys[0])/step+1)
		for key := keys[0]; key <= keys[len(keys)-1]; key += step {
			out = append(out, Bucket{
				Start: time.Unix(key, 0).UTC(),
				Count: b.counts[key],
			})
		}
	} else {
		out = make([]Bucket, 0, len(keys))
		for _, key := range keys {
			out = append(out, Bucket{
				Start: time.Unix(key, 0).UTC(),
				Count: b.counts[key],
			})
		}
	}

	if b.cfg.Direction == Descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}

	return out
}

// Total implements Batch.Total.
func (b *batch) Total() int {
	return b.total
}

// Reset implements Batch.Reset.
func (b *batch) Reset() {
	b.counts = make(map[int64]int)
	b.total = 0
}
