package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/apperror"
)

// Rejection reasons surfaced by the admission protocol. Environmental
// failures carry a generic retry-later message.
var (
	ErrLoginRequired           = apperror.New(http.StatusUnauthorized, "Please log in to book this venue")
	ErrSlotUnavailable         = apperror.New(http.StatusConflict, "The selected time slot is already booked, please choose another time")
	ErrAvailabilityCheckFailed = apperror.New(http.StatusServiceUnavailable, "Something went wrong, please try again later")
	ErrPersistenceFailed       = apperror.New(http.StatusInternalServerError, "Something went wrong, please try again later")
	ErrNotificationFailed      = apperror.New(http.StatusBadGateway, "venue owner notification failed")
	ErrInvoiceCreationFailed   = apperror.New(http.StatusBadGateway, "Your booking is reserved but the payment invoice could not be created, please contact support")
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrVenueNotFound     = apperror.New(http.StatusNotFound, "venue not found")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "booking status cannot change that way")
	ErrInvalidInput      = apperror.New(http.StatusBadRequest, "invalid input parameters")
)

// ErrSlotTaken is returned by the store when an insert would overlap an
// active reservation of the same venue and date.
var ErrSlotTaken = errors.New("reservation overlaps an active reservation")

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// Active reports whether a reservation with this status holds its window.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

type EventType string

const (
	EventBirthday EventType = "birthday"
	EventWedding  EventType = "wedding"
	EventMeeting  EventType = "meeting"
	EventSeminar  EventType = "seminar"
	EventParty    EventType = "party"
	EventOther    EventType = "other"
)

// EventTypes lists the accepted event types in display order.
var EventTypes = []EventType{EventBirthday, EventWedding, EventMeeting, EventSeminar, EventParty, EventOther}

func (t EventType) Valid() bool {
	for _, v := range EventTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Reservation is a persisted booking of a venue window on one date. This
// package creates it as pending and never edits its window afterwards.
type Reservation struct {
	ID         string
	VenueID    string
	UserID     string
	EventName  string
	EventType  EventType
	EventDate  time.Time // midnight UTC
	StartTime  string    // HH:MM
	EndTime    string    // HH:MM
	GuestCount int
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Filter struct {
	UserID    string
	VenueID   string
	Status    string
	EventDate *time.Time
	Page      int
	PageSize  int
}

// TimeSlot is a free window on a venue's day.
type TimeSlot struct {
	StartTime string
	EndTime   string
}
