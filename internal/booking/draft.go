package booking

import (
	"strconv"
	"strings"
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/timeofday"
	"github.com/nekogravitycat/venue-booking-backend/internal/pricing"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

// Draft is an in-progress reservation request for one venue. Its setters
// never fail; they only keep fields inside reachable values. Whether the
// draft can be submitted is decided fresh by ValidateDraft.
type Draft struct {
	EventName string
	EventType EventType
	EventDate time.Time // midnight UTC; zero means unset
	StartTime string    // HH:MM; empty means unset
	EndTime   string    // HH:MM; empty means unset
	// GuestCount holds the raw guest input so malformed text reaches
	// validation unchanged.
	GuestCount string
	// MalformedDate holds date text that could not be parsed; EventDate
	// is zero while it is set.
	MalformedDate string

	venue *venue.Venue
	quote pricing.RateQuote
}

// NewDraft starts an empty draft for v.
func NewDraft(v *venue.Venue) *Draft {
	return &Draft{venue: v}
}

func (d *Draft) Venue() *venue.Venue { return d.venue }

// Quote is the rate quote for the current event date.
func (d *Draft) Quote() pricing.RateQuote { return d.quote }

func (d *Draft) SetEventName(name string) { d.EventName = name }

func (d *Draft) SetEventType(t EventType) { d.EventType = t }

// SetEventDate stores the calendar date and recomputes the quote.
func (d *Draft) SetEventDate(date time.Time) {
	d.MalformedDate = ""
	if date.IsZero() {
		d.EventDate = time.Time{}
	} else {
		d.EventDate = timeofday.DateOf(date)
	}
	d.quote = pricing.Quote(d.venue, d.EventDate)
}

// SetEventDateText parses a YYYY-MM-DD date. Unparseable text clears the
// date and is kept for validation to report. Empty text unsets the date.
func (d *Draft) SetEventDateText(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		d.SetEventDate(time.Time{})
		return
	}
	date, err := timeofday.ParseDate(text)
	if err != nil {
		d.SetEventDate(time.Time{})
		d.MalformedDate = text
		return
	}
	d.SetEventDate(date)
}

// SetStartTime stores the start and clears an end time that no longer
// leaves MinSlotMinutes after it. The end is cleared, not clamped, so a
// shorter window than the user chose is never created silently.
func (d *Draft) SetStartTime(hhmm string) {
	d.StartTime = hhmm
	if d.EndTime == "" {
		return
	}
	lo, _, ok := d.EndTimeBounds()
	if !ok || d.EndTime < lo {
		d.EndTime = ""
	}
}

func (d *Draft) SetEndTime(hhmm string) { d.EndTime = hhmm }

// SetGuestCount floors n at 1 and caps it at the venue capacity.
func (d *Draft) SetGuestCount(n int) {
	if n < 1 {
		n = 1
	}
	if d.venue != nil && d.venue.CapacityMax != nil && int64(n) > *d.venue.CapacityMax {
		n = int(*d.venue.CapacityMax)
	}
	d.GuestCount = strconv.Itoa(n)
}

// StartTimeBounds is the range a start time may be picked from: opening
// time up to the last start that still fits MinSlotMinutes before closing.
func (d *Draft) StartTimeBounds() (lo, hi string, ok bool) {
	if d.venue == nil {
		return "", "", false
	}
	closing, err := timeofday.ToMinutes(d.venue.CloseTime)
	if err != nil {
		return "", "", false
	}
	latest := timeofday.FromMinutes(closing - MinSlotMinutes)
	if latest < d.venue.OpenTime {
		return "", "", false
	}
	return d.venue.OpenTime, latest, true
}

// EndTimeBounds is the range an end time may be picked from:
// [start + MinSlotMinutes, close], or [open, close] while no start is set.
// ok is false when the range is empty.
func (d *Draft) EndTimeBounds() (lo, hi string, ok bool) {
	if d.venue == nil {
		return "", "", false
	}
	lo, hi = d.venue.OpenTime, d.venue.CloseTime

	if d.StartTime != "" {
		start, err := timeofday.ToMinutes(d.StartTime)
		if err == nil {
			earliest := start + MinSlotMinutes
			if earliest >= timeofday.MinutesPerDay {
				return "", hi, false
			}
			lo = timeofday.FromMinutes(earliest)
		}
	}

	return lo, hi, lo <= hi
}

// Submittable reports whether the draft currently passes validation.
func (d *Draft) Submittable(today time.Time) bool {
	if d.venue == nil {
		return false
	}
	return ValidateDraft(d, d.venue, today) == nil
}
