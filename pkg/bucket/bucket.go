// Package bucket provides the fixed-width time bucket primitives: a
// Granularity value type parsed from compact specs like "30s", "1m" or
// "2h", and the key function that maps an absolute timestamp to the
// start instant of the bucket containing it.
//
// Bucket starts are exact multiples of the granularity counted from the
// Unix epoch, so for every timestamp t and granularity g:
//
//	Truncate(t) <= t < Truncate(t) + g
//
// Example usage:
//
//	g, err := bucket.Parse("30s")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	key := g.Truncate(ts) // start of the bucket containing ts
package bucket

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Granularity is a fixed bucket width. The unit suffix fixes the
// multiplier at parse time only; the stored representation is always
// whole seconds. The zero value is invalid; construct via Parse.
type Granularity struct {
	seconds int64
}

// Parse parses a compact granularity spec of the form
// "<positive-integer><unit>" with unit one of s, m or h.
//
// The spec must consist of exactly the integer and the unit: leading or
// trailing garbage is rejected, as are zero and negative counts.
//
// Returns ErrInvalidGranularity (wrapped with the offending spec) on
// any malformed input.
func Parse(spec string) (Granularity, error) {
	if len(spec) < 2 {
		return Granularity{}, fmt.Errorf("%w: %q", ErrInvalidGranularity, spec)
	}

	var unit int64
	switch spec[len(spec)-1] {
	case 's':
		unit = 1
	case 'm':
		unit = 60
	case 'h':
		unit = 3600
	default:
		return Granularity{}, fmt.Errorf("%w: %q: missing unit (s, m or h)", ErrInvalidGranularity, spec)
	}

	digits := spec[:len(spec)-1]
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n <= 0 || digits[0] == '+' {
		return Granularity{}, fmt.Errorf("%w: %q: count must be a positive integer", ErrInvalidGranularity, spec)
	}

	// The width in seconds must stay representable; an overflowing
	// count would wrap negative and break the positive-width invariant.
	if n > math.MaxInt64/unit {
		return Granularity{}, fmt.Errorf("%w: %q: count too large", ErrInvalidGranularity, spec)
	}

	return Granularity{seconds: n * unit}, nil
}

// Seconds returns the bucket width in whole seconds.
func (g Granularity) Seconds() int64 {
	return g.seconds
}

// Duration returns the bucket width as a time.Duration.
func (g Granularity) Duration() time.Duration {
	return time.Duration(g.seconds) * time.Second
}

// IsZero reports whether g is the invalid zero value.
func (g Granularity) IsZero() bool {
	return g.seconds == 0
}

// Truncate maps t to the start instant of the bucket containing it.
//
// The division floors toward negative infinity so the bucket invariant
// holds for pre-epoch timestamps as well. Equal inputs always yield
// bit-identical outputs (UTC, zero nanoseconds), so results are safe to
// use as mapping keys via Unix().
func (g Granularity) Truncate(t time.Time) time.Time {
	sec := t.Unix()
	q := sec / g.seconds
	if sec%g.seconds != 0 && sec < 0 {
		q--
	}
	return time.Unix(q*g.seconds, 0).UTC()
}

// Next returns the start of the bucket immediately after the one
// starting at key.
func (g Granularity) Next(key time.Time) time.Time {
	return key.Add(g.Duration())
}

// Prev returns the start of the bucket immediately before the one
// starting at key.
func (g Granularity) Prev(key time.Time) time.Time {
	return key.Add(-g.Duration())
}

// String returns the width in seconds, e.g. "90s".
func (g Granularity) String() string {
	return fmt.Sprintf("%ds", g.seconds)
}
