// Package timeofday implements wall-clock arithmetic on zero-padded "HH:MM"
// strings. All values are venue-local; no timezone conversion is performed.
package timeofday

import (
	"fmt"
	"time"
)

const (
	// MinutesPerDay is the modulus used by AddMinutes.
	MinutesPerDay = 24 * 60

	// DateLayout is the wire format of calendar dates.
	DateLayout = "2006-01-02"
)

// MalformedTimeError reports a value that is not a valid "HH:MM" time of day.
// Seeing one at runtime means a caller skipped validation.
type MalformedTimeError struct {
	Value string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time of day %q, expected HH:MM", e.Value)
}

// ToMinutes parses "HH:MM" into minutes since midnight (0-1439).
func ToMinutes(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, &MalformedTimeError{Value: hhmm}
	}
	h, ok1 := twoDigits(hhmm[0], hhmm[1])
	m, ok2 := twoDigits(hhmm[3], hhmm[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, &MalformedTimeError{Value: hhmm}
	}
	return h*60 + m, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// FromMinutes formats minutes since midnight as "HH:MM", wrapping modulo 24h.
func FromMinutes(minutes int) string {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes adds delta minutes to hhmm, wrapping around midnight.
func AddMinutes(hhmm string, delta int) (string, error) {
	m, err := ToMinutes(hhmm)
	if err != nil {
		return "", err
	}
	return FromMinutes(m + delta), nil
}

// Clamp bounds hhmm into [min, max]. Lexicographic comparison is valid
// because the format is zero-padded.
func Clamp(hhmm, min, max string) string {
	if hhmm < min {
		return min
	}
	if hhmm > max {
		return max
	}
	return hhmm
}

// Overlaps reports whether the half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back windows do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// IsWeekend reports whether date falls on a Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Normalize accepts "HH:MM" or "HH:MM:SS" and returns the "HH:MM" form.
// Seconds must be zero.
func Normalize(s string) (string, error) {
	if len(s) == 8 && s[5] == ':' {
		if s[6:] != "00" {
			return "", &MalformedTimeError{Value: s}
		}
		s = s[:5]
	}
	if _, err := ToMinutes(s); err != nil {
		return "", &MalformedTimeError{Value: s}
	}
	return s, nil
}

// Display renders hhmm in 12-hour form, e.g. "20:00" -> "8:00 PM".
func Display(hhmm string) (string, error) {
	m, err := ToMinutes(hhmm)
	if err != nil {
		return "", err
	}
	t := time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC)
	return t.Format("3:04 PM"), nil
}

// ParseDate parses a "YYYY-MM-DD" calendar date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate is the inverse of ParseDate. The zero time formats as "".
func FormatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayout)
}

// DateOf truncates t to its calendar date in t's own location, returned as
// midnight UTC so dates compare with ==.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
