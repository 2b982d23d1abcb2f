package aggregator

import (
	"time"

	"github.com/tbuck/tbuck/pkg/logger"
)

// stream implements the Stream interface.
//
// State machine: Empty (no bucket open, initial) and Open(key, count).
// There is no terminal state; the caller drives termination by calling
// Flush when input ends.
type stream struct {
	cfg    Config
	emit   EmitFunc
	logger logger.Logger

	open  bool
	key   time.Time
	count int
}

// NewStream creates a stream aggregator that hands closed buckets to
// emit in output order.
func NewStream(cfg Config, emit EmitFunc, log logger.Logger) Stream {
	return &stream{
		cfg:    cfg.withDefaults(),
		emit:   emit,
		logger: log,
	}
}

// Add implements Stream.Add.
func (s *stream) Add(t time.Time) error {
	k := s.cfg.Granularity.Truncate(t)

	if !s.open {
		s.open = true
		s.key = k
		s.count = 1
		return nil
	}

	switch {
	case k.Equal(s.key):
		s.count++

	case s.ahead(k):
		// The open bucket can no longer receive entries: emit it, fill
		// the jump if configured, and reopen at the new key.
		if err := s.emit(Bucket{Start: s.key, Count: s.count}); err != nil {
			return err
		}
		if s.cfg.FillGaps {
			for n := s.step(s.key); !n.Equal(k); n = s.step(n) {
				if err := s.emit(Bucket{Start: n, Count: 0}); err != nil {
					return err
				}
			}
		}
		s.key = k
		s.count = 1

	default:
		// Regression relative to the declared direction.
		if s.cfg.OnViolation == PolicyDiscard {
			s.logger.Debug("discarded non-monotonic entry",
				"timestamp", t,
				"open_bucket", s.key)
			return nil
		}
		return &NonMonotonicError{Timestamp: t, Bucket: s.key}
	}

	return nil
}

// Flush implements Stream.Flush.
func (s *stream) Flush() error {
	if !s.open {
		return nil
	}
	s.open = false
	return s.emit(Bucket{Start: s.key, Count: s.count})
}

// ahead reports whether k is strictly ahead of the open bucket in the
// configured direction.
func (s *stream) ahead(k time.Time) bool {
	if s.cfg.Direction == Descending {
		return k.Before(s.key)
	}
	return k.After(s.key)
}

// step advances one bucket in the configured direction.
func (s *stream) step(key time.Time) time.Time {
	if s.cfg.Direction == Descending {
		return s.cfg.Granularity.Prev(key)
	}
	return s.cfg.Granularity.Next(key)
}
