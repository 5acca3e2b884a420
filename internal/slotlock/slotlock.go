// Package slotlock serializes booking admissions per venue and date so the
// availability check and the reservation insert run as one critical section.
package slotlock

import (
	"context"
	"errors"
	"fmt"
)

// ErrLockTimeout is returned when a lock could not be obtained before the
// wait budget ran out.
var ErrLockTimeout = errors.New("slot lock wait timed out")

// Locker hands out mutual-exclusion tokens keyed by an arbitrary string.
// The returned release func must be called exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// VenueDateKey builds the lock key for one venue on one calendar date.
func VenueDateKey(venueID, date string) string {
	return fmt.Sprintf("slotlock:venue:%s:%s", venueID, date)
}
