package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/timeofday"
)

// activeReader lists the pending and confirmed reservations of a venue on
// one date.
type activeReader interface {
	ListActive(ctx context.Context, venueID string, date time.Time) ([]*Reservation, error)
}

// AvailabilityChecker decides whether a proposed window collides with an
// active reservation. The store narrows the set to one venue/day, so a
// linear scan is enough.
type AvailabilityChecker struct {
	repo activeReader
}

func NewAvailabilityChecker(repo activeReader) *AvailabilityChecker {
	return &AvailabilityChecker{repo: repo}
}

// HasConflict reports whether [start, end) overlaps any active reservation
// of venueID on date. A failed read is an error, never "available".
func (c *AvailabilityChecker) HasConflict(ctx context.Context, venueID string, date time.Time, start, end string) (bool, error) {
	reservations, err := c.repo.ListActive(ctx, venueID, date)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrAvailabilityCheckFailed, err)
	}

	for _, r := range reservations {
		if !r.Status.Active() {
			continue
		}
		if timeofday.Overlaps(start, end, r.StartTime, r.EndTime) {
			return true, nil
		}
	}
	return false, nil
}

// FreeSlots lists the free windows of venue hours [openTime, closeTime]
// on date.
func (c *AvailabilityChecker) FreeSlots(ctx context.Context, venueID string, date time.Time, openTime, closeTime string) ([]TimeSlot, error) {
	reservations, err := c.repo.ListActive(ctx, venueID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAvailabilityCheckFailed, err)
	}
	return CalculateAvailability(openTime, closeTime, reservations)
}

// CalculateAvailability subtracts active reservations from the opening
// hours and returns the remaining windows in order. It returns nil when the
// day is fully booked.
func CalculateAvailability(openTime, closeTime string, reservations []*Reservation) ([]TimeSlot, error) {
	if _, err := timeofday.ToMinutes(openTime); err != nil {
		return nil, err
	}
	if _, err := timeofday.ToMinutes(closeTime); err != nil {
		return nil, err
	}

	active := make([]*Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.Status.Active() {
			active = append(active, r)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].StartTime < active[j].StartTime
	})

	var slots []TimeSlot
	cursor := openTime
	for _, r := range active {
		if r.EndTime <= cursor {
			continue
		}
		if r.StartTime >= closeTime {
			break
		}
		if r.StartTime > cursor {
			slots = append(slots, TimeSlot{StartTime: cursor, EndTime: r.StartTime})
		}
		cursor = r.EndTime
	}
	if cursor < closeTime {
		slots = append(slots, TimeSlot{StartTime: cursor, EndTime: closeTime})
	}

	return slots, nil
}
