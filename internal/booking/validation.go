package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/timeofday"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

// MinSlotMinutes is the shortest bookable window.
const MinSlotMinutes = 15

// ValidationError names the first draft field that breaks a booking rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateDraft checks the draft against the venue in a fixed order and
// returns the first violation only, or nil when the draft is submittable.
// Dates before today's date are rejected.
func ValidateDraft(d *Draft, v *venue.Venue, today time.Time) error {
	if strings.TrimSpace(d.EventName) == "" {
		return invalid("event_name", "Event name is required")
	}

	if d.EventType == "" {
		return invalid("event_type", "Event type is required")
	}
	if !d.EventType.Valid() {
		return invalid("event_type", "Event type %q is not supported", string(d.EventType))
	}

	if d.MalformedDate != "" {
		return invalid("event_date", "Event date must be in YYYY-MM-DD format")
	}
	if d.EventDate.IsZero() {
		return invalid("event_date", "Event date is required")
	}
	if d.EventDate.Before(timeofday.DateOf(today)) {
		return invalid("event_date", "Event date cannot be in the past")
	}

	if err := checkWithinHours("start_time", "Start time", d.StartTime, v); err != nil {
		return err
	}
	if err := checkWithinHours("end_time", "End time", d.EndTime, v); err != nil {
		return err
	}

	if d.StartTime >= d.EndTime {
		return invalid("end_time", "Start time cannot be later than or equal to end time")
	}
	start, _ := timeofday.ToMinutes(d.StartTime)
	end, _ := timeofday.ToMinutes(d.EndTime)
	if end-start < MinSlotMinutes {
		return invalid("end_time", "Booking must be at least %d minutes long", MinSlotMinutes)
	}

	raw := strings.TrimSpace(d.GuestCount)
	if raw == "" {
		return invalid("guest_count", "Guest count is required")
	}
	guests, err := strconv.Atoi(raw)
	if err != nil {
		return invalid("guest_count", "Guest count must be a whole number")
	}
	if guests < 1 {
		return invalid("guest_count", "Guest count must be at least 1")
	}

	if v.CapacityMax != nil && int64(guests) > *v.CapacityMax {
		return invalid("guest_count", "Guest count cannot exceed the venue capacity of %d", *v.CapacityMax)
	}

	return nil
}

func checkWithinHours(field, label, hhmm string, v *venue.Venue) error {
	if hhmm == "" {
		return invalid(field, "%s is required", label)
	}
	if _, err := timeofday.ToMinutes(hhmm); err != nil {
		return invalid(field, "%s must be in HH:MM format", label)
	}
	if hhmm < v.OpenTime || hhmm > v.CloseTime {
		return invalid(field, "%s must be between %s and %s", label, v.OpenTime, v.CloseTime)
	}
	return nil
}
