package aggregator

import (
	"errors"
	"fmt"
	"time"
)

// ErrNonMonotonicInput is the sentinel wrapped by NonMonotonicError.
var ErrNonMonotonicInput = errors.New("non-monotonic input")

// NonMonotonicError reports a stream entry whose bucket regresses
// behind the open bucket under the declared arrival direction.
type NonMonotonicError struct {
	// Timestamp is the offending entry's timestamp.
	Timestamp time.Time

	// Bucket is the start of the bucket that was open when the entry
	// arrived.
	Bucket time.Time
}

// Error implements the error interface.
func (e *NonMonotonicError) Error() string {
	return fmt.Sprintf("%v: entry %s regresses behind open bucket %s",
		ErrNonMonotonicInput,
		e.Timestamp.Format(time.RFC3339),
		e.Bucket.Format(time.RFC3339))
}

// Unwrap makes errors.Is(err, ErrNonMonotonicInput) hold.
func (e *NonMonotonicError) Unwrap() error {
	return ErrNonMonotonicInput
}
