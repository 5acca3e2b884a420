// Package pricing computes the applicable rate and reservation deposit for a
// venue on a given date.
package pricing

import (
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/timeofday"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

// DepositPercent is the share of the applicable rate charged up front.
const DepositPercent = 10

// RateQuote is derived from a venue and a date. It is never persisted.
type RateQuote struct {
	ApplicableRate int64
	DepositAmount  int64
}

// Quote returns the rate that applies to date and the deposit due on it.
// A zero date (or nil venue) yields the zero quote.
func Quote(v *venue.Venue, date time.Time) RateQuote {
	if v == nil || date.IsZero() {
		return RateQuote{}
	}

	rate := v.Rate
	if v.PricingMode == venue.PricingSplit {
		if timeofday.IsWeekend(date) {
			rate = v.RateWeekend
		} else {
			rate = v.RateWeekday
		}
	}

	return RateQuote{
		ApplicableRate: rate,
		DepositAmount:  Deposit(rate),
	}
}

// Deposit rounds rate * DepositPercent / 100 half-up to whole currency units.
func Deposit(rate int64) int64 {
	if rate <= 0 {
		return 0
	}
	return (rate*DepositPercent + 50) / 100
}
