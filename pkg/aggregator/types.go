// Package aggregator assigns timestamps to fixed-width time buckets and
// counts entries per bucket.
//
// Two modes are provided. The batch aggregator collects every timestamp
// first and drains an ordered, optionally gap-filled sequence of bucket
// counts at the end. The stream aggregator keeps a single open bucket
// and emits each bucket's final count as soon as an arriving timestamp
// proves the bucket closed, under a declared monotonic arrival
// direction.
//
// Example usage:
//
//	agg := aggregator.NewBatch(aggregator.Config{
//	    Granularity: g,
//	    FillGaps:    true,
//	})
//	for _, ts := range timestamps {
//	    agg.Add(ts)
//	}
//	for _, b := range agg.Buckets() {
//	    fmt.Printf("%s,%d\n", b.Start, b.Count)
//	}
package aggregator

import (
	"time"

	"github.com/tbuck/tbuck/pkg/bucket"
)

// Direction is the ordering of bucket output (batch mode) or the
// declared arrival order of timestamps (stream mode).
type Direction string

const (
	// Ascending means earlier timestamps first, the usual order of log
	// files.
	Ascending Direction = "ascending"

	// Descending means later timestamps first.
	Descending Direction = "descending"
)

// ViolationPolicy decides what the stream aggregator does with an entry
// whose bucket regresses behind the open bucket.
type ViolationPolicy string

const (
	// PolicyFail aborts the aggregation with a NonMonotonicError.
	PolicyFail ViolationPolicy = "fail"

	// PolicyDiscard silently drops the offending entry.
	PolicyDiscard ViolationPolicy = "discard"
)

// Bucket pairs a bucket's start instant with the number of entries that
// fell inside it.
type Bucket struct {
	// Start is the bucket's start instant, an exact multiple of the
	// granularity from the Unix epoch.
	Start time.Time

	// Count is the number of entries in [Start, Start+granularity).
	Count int
}

// EmitFunc receives each closed bucket from the stream aggregator.
type EmitFunc func(Bucket) error

// Batch aggregates a finite sequence of timestamps and drains ordered
// bucket counts at the end.
type Batch interface {
	// Add assigns a timestamp to its bucket and increments the count.
	Add(t time.Time)

	// Buckets returns the (start, count) pairs ordered by the
	// configured direction. With FillGaps set, every bucket between the
	// minimum and maximum observed bucket appears, absent ones with
	// count 0. Zero added timestamps yields an empty slice.
	Buckets() []Bucket

	// Total returns the number of timestamps added so far.
	Total() int

	// Reset clears all aggregated data.
	Reset()
}

// Stream aggregates timestamps online, emitting each bucket as soon as
// arrival order proves no more entries can land in it.
type Stream interface {
	// Add feeds one timestamp. It may emit the previously open bucket
	// (plus intervening zero-count buckets when filling) before opening
	// a new one. Under PolicyFail a regressing entry returns a
	// NonMonotonicError; buckets already emitted stand.
	Add(t time.Time) error

	// Flush emits the currently open bucket, if any. Call once at end
	// of input. No gaps are filled past the last bucket, since no
	// future bound exists. Safe to call when nothing is open.
	Flush() error
}

// Config contains aggregation policy. Constructed once, read-only for
// the aggregation's lifetime.
type Config struct {
	// Granularity is the fixed bucket width. Required.
	Granularity bucket.Granularity

	// FillGaps enables zero-count rows for buckets with no entries.
	FillGaps bool

	// Direction orders batch output and declares stream arrival order.
	// Default: Ascending.
	Direction Direction

	// OnViolation is the stream aggregator's reaction to entries that
	// regress behind the open bucket. Ignored in batch mode.
	// Default: PolicyFail.
	OnViolation ViolationPolicy
}

// withDefaults fills in the zero-value policy fields.
func (c Config) withDefaults() Config {
	if c.Direction == "" {
		c.Direction = Ascending
	}
	if c.OnViolation == "" {
		c.OnViolation = PolicyFail
	}
	return c
}
