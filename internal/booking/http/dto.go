package http

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/booking"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/timeofday"
	"github.com/nekogravitycat/venue-booking-backend/internal/pricing"
)

// GuestInput accepts a guest count sent either as a JSON number or as text.
// The raw text is kept so validation can report malformed input.
type GuestInput struct {
	Raw     string
	Numeric bool
}

func (g *GuestInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*g = GuestInput{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = GuestInput{Raw: s}
		return nil
	}
	*g = GuestInput{Raw: string(data), Numeric: true}
	return nil
}

// BookingRequest is the body of both submit and draft calls.
type BookingRequest struct {
	VenueID    string     `json:"venue_id" binding:"required,uuid"`
	EventName  string     `json:"event_name"`
	EventType  string     `json:"event_type"`
	EventDate  string     `json:"event_date"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	GuestCount GuestInput `json:"guest_count"`
}

// OutcomeResponse is the result of a submission.
type OutcomeResponse struct {
	Outcome       string `json:"outcome"`
	ReservationID string `json:"reservation_id,omitempty"`
	InvoiceURL    string `json:"invoice_url,omitempty"`
	Code          string `json:"code,omitempty"`
	Field         string `json:"field,omitempty"`
	Error         string `json:"error,omitempty"`
}

func NewOutcomeResponse(o booking.Outcome) OutcomeResponse {
	resp := OutcomeResponse{
		Outcome:       string(o.Kind),
		ReservationID: o.ReservationID,
		InvoiceURL:    o.InvoiceURL,
	}
	if o.Err != nil {
		resp.Code = booking.ErrorCode(o.Err)
		resp.Error = o.Reason()
		if vErr, ok := asValidationError(o.Err); ok {
			resp.Field = vErr.Field
		}
	}
	return resp
}

type BoundsResponse struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

func newBounds(lo, hi string, ok bool) *BoundsResponse {
	if !ok {
		return nil
	}
	return &BoundsResponse{Min: lo, Max: hi}
}

type QuoteResponse struct {
	ApplicableRate int64 `json:"applicable_rate"`
	DepositAmount  int64 `json:"deposit_amount"`
}

func NewQuoteResponse(q pricing.RateQuote) QuoteResponse {
	return QuoteResponse{ApplicableRate: q.ApplicableRate, DepositAmount: q.DepositAmount}
}

type ViolationResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DraftResponse is the state of a draft after replaying the caller's edits.
type DraftResponse struct {
	EventName   string             `json:"event_name"`
	EventType   string             `json:"event_type"`
	EventDate   string             `json:"event_date"`
	StartTime   string             `json:"start_time"`
	EndTime     string             `json:"end_time"`
	GuestCount  string             `json:"guest_count"`
	StartBounds *BoundsResponse    `json:"start_bounds"`
	EndBounds   *BoundsResponse    `json:"end_bounds"`
	Quote       QuoteResponse      `json:"quote"`
	Submittable bool               `json:"submittable"`
	Violation   *ViolationResponse `json:"violation"`
}

func NewDraftResponse(d *booking.Draft, violation error) DraftResponse {
	resp := DraftResponse{
		EventName:   d.EventName,
		EventType:   string(d.EventType),
		EventDate:   draftDate(d),
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		GuestCount:  d.GuestCount,
		StartBounds: newBounds(d.StartTimeBounds()),
		EndBounds:   newBounds(d.EndTimeBounds()),
		Quote:       NewQuoteResponse(d.Quote()),
		Submittable: violation == nil,
	}
	if vErr, ok := asValidationError(violation); ok {
		resp.Violation = &ViolationResponse{Field: vErr.Field, Message: vErr.Message}
	}
	return resp
}

func draftDate(d *booking.Draft) string {
	if d.MalformedDate != "" {
		return d.MalformedDate
	}
	return timeofday.FormatDate(d.EventDate)
}

type ReservationResponse struct {
	ID         string    `json:"id"`
	VenueID    string    `json:"venue_id"`
	UserID     string    `json:"user_id"`
	EventName  string    `json:"event_name"`
	EventType  string    `json:"event_type"`
	EventDate  string    `json:"event_date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	GuestCount int       `json:"guest_count"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewReservationResponse(r *booking.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:         r.ID,
		VenueID:    r.VenueID,
		UserID:     r.UserID,
		EventName:  r.EventName,
		EventType:  string(r.EventType),
		EventDate:  timeofday.FormatDate(r.EventDate),
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		GuestCount: r.GuestCount,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	VenueID   string `form:"venue_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	EventDate string `form:"event_date"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

type TimeSlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type AvailabilityResponse struct {
	VenueID string             `json:"venue_id"`
	Date    string             `json:"date"`
	Slots   []TimeSlotResponse `json:"slots"`
}

func NewAvailabilityResponse(venueID string, date time.Time, slots []booking.TimeSlot) AvailabilityResponse {
	items := make([]TimeSlotResponse, 0, len(slots))
	for _, s := range slots {
		items = append(items, TimeSlotResponse{StartTime: s.StartTime, EndTime: s.EndTime})
	}
	return AvailabilityResponse{
		VenueID: venueID,
		Date:    timeofday.FormatDate(date),
		Slots:   items,
	}
}

// guestNumber reports the guest count as an int when it was sent as a
// JSON integer.
func guestNumber(g GuestInput) (int, bool) {
	if !g.Numeric {
		return 0, false
	}
	n, err := strconv.Atoi(g.Raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
