package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

func TestDraft_EndTimeBoundsFollowStart(t *testing.T) {
	v := testVenue()
	v.OpenTime, v.CloseTime = "08:00", "22:00"
	d := NewDraft(v)

	lo, hi, ok := d.EndTimeBounds()
	require.True(t, ok)
	assert.Equal(t, "08:00", lo)
	assert.Equal(t, "22:00", hi)

	d.SetStartTime("20:00")
	lo, hi, ok = d.EndTimeBounds()
	require.True(t, ok)
	assert.Equal(t, "20:15", lo)
	assert.Equal(t, "22:00", hi)
}

func TestDraft_StartTimeBounds(t *testing.T) {
	d := NewDraft(testVenue())

	lo, hi, ok := d.StartTimeBounds()
	require.True(t, ok)
	assert.Equal(t, "09:00", lo)
	assert.Equal(t, "21:45", hi)

	tiny := testVenue()
	tiny.OpenTime, tiny.CloseTime = "09:00", "09:10"
	_, _, ok = NewDraft(tiny).StartTimeBounds()
	assert.False(t, ok)
}

func TestDraft_SetStartTimeClearsUnreachableEnd(t *testing.T) {
	d := NewDraft(testVenue())
	d.SetStartTime("10:00")
	d.SetEndTime("11:00")

	d.SetStartTime("10:30")
	assert.Equal(t, "11:00", d.EndTime, "end still leaves the minimum length")

	d.SetStartTime("10:50")
	assert.Empty(t, d.EndTime, "end below start+15 is cleared, not clamped")
}

func TestDraft_SetStartTimeNearMidnightClearsEnd(t *testing.T) {
	v := testVenue()
	v.OpenTime, v.CloseTime = "00:00", "23:59"
	d := NewDraft(v)
	d.SetEndTime("23:59")

	d.SetStartTime("23:50")
	_, _, ok := d.EndTimeBounds()
	assert.False(t, ok)
	assert.Empty(t, d.EndTime)
}

func TestDraft_SetEventDateRecomputesQuote(t *testing.T) {
	v := testVenue()
	v.PricingMode = venue.PricingSplit
	v.RateWeekday, v.RateWeekend = 5000, 8000
	d := NewDraft(v)

	assert.Zero(t, d.Quote().ApplicableRate)

	d.SetEventDate(date(2025, 6, 7)) // Saturday
	assert.Equal(t, int64(8000), d.Quote().ApplicableRate)
	assert.Equal(t, int64(800), d.Quote().DepositAmount)

	d.SetEventDate(date(2025, 6, 9)) // Monday
	assert.Equal(t, int64(5000), d.Quote().ApplicableRate)
	assert.Equal(t, int64(500), d.Quote().DepositAmount)
}

func TestDraft_SetEventDateText(t *testing.T) {
	d := NewDraft(testVenue())

	d.SetEventDateText(" 2025-06-07 ")
	assert.Equal(t, date(2025, 6, 7), d.EventDate)
	assert.Empty(t, d.MalformedDate)
	assert.Equal(t, int64(1000), d.Quote().ApplicableRate)

	d.SetEventDateText("2025-13-45")
	assert.True(t, d.EventDate.IsZero())
	assert.Equal(t, "2025-13-45", d.MalformedDate)
	assert.Zero(t, d.Quote().ApplicableRate)

	d.SetEventDateText("")
	assert.True(t, d.EventDate.IsZero())
	assert.Empty(t, d.MalformedDate)

	d.SetEventDateText("nope")
	d.SetEventDate(date(2025, 6, 9))
	assert.Empty(t, d.MalformedDate, "a parsed date replaces the malformed text")
}

func TestDraft_SetGuestCountClamps(t *testing.T) {
	d := NewDraft(testVenue())

	d.SetGuestCount(0)
	assert.Equal(t, "1", d.GuestCount)

	d.SetGuestCount(-5)
	assert.Equal(t, "1", d.GuestCount)

	d.SetGuestCount(500)
	assert.Equal(t, "50", d.GuestCount)

	d.SetGuestCount(20)
	assert.Equal(t, "20", d.GuestCount)

	unlimited := testVenue()
	unlimited.CapacityMax = nil
	d = NewDraft(unlimited)
	d.SetGuestCount(500)
	assert.Equal(t, "500", d.GuestCount)
}

func TestDraft_Submittable(t *testing.T) {
	today := date(2025, 5, 20)
	d := NewDraft(testVenue())
	assert.False(t, d.Submittable(today))

	d.SetEventName("Ana's 30th")
	d.SetEventType(EventBirthday)
	d.SetEventDate(date(2025, 6, 1))
	d.SetStartTime("18:00")
	d.SetEndTime("21:00")
	d.SetGuestCount(30)
	assert.True(t, d.Submittable(today))
}
