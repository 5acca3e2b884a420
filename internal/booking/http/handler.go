package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/venue-booking-backend/internal/auth"
	"github.com/nekogravitycat/venue-booking-backend/internal/booking"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/timeofday"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

// Submitter runs the admission protocol for one draft.
type Submitter interface {
	Submit(ctx context.Context, session *auth.Session, d *booking.Draft, v *venue.Venue) booking.Outcome
}

type Handler struct {
	service      booking.Service
	admission    Submitter
	venueService venue.Service
	now          func() time.Time
}

func NewHandler(service booking.Service, admission Submitter, venueService venue.Service) *Handler {
	return &Handler{
		service:      service,
		admission:    admission,
		venueService: venueService,
		now:          time.Now,
	}
}

func asValidationError(err error) (*booking.ValidationError, bool) {
	var vErr *booking.ValidationError
	if err != nil && errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// outcomeStatus picks the HTTP status for a submission outcome.
func outcomeStatus(o booking.Outcome) int {
	switch o.Kind {
	case booking.OutcomeRedirect:
		return http.StatusOK
	case booking.OutcomePartialSuccess:
		return http.StatusAccepted
	}
	if _, ok := asValidationError(o.Err); ok {
		return http.StatusBadRequest
	}
	return apperror.StatusCode(o.Err)
}

func (h *Handler) loadVenue(c *gin.Context, venueID string) (*venue.Venue, bool) {
	v, err := h.venueService.GetByID(c.Request.Context(), venueID)
	if err != nil {
		if errors.Is(err, venue.ErrNotFound) {
			response.Error(c, booking.ErrVenueNotFound)
			return nil, false
		}
		response.Error(c, err)
		return nil, false
	}
	return v, true
}

// Submit admits a booking for the caller. Identity is checked before the
// body is read, so an anonymous caller is always told to log in.
func (h *Handler) Submit(c *gin.Context) {
	session := auth.GetSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, NewOutcomeResponse(booking.Outcome{
			Kind: booking.OutcomeRejected,
			Err:  booking.ErrLoginRequired,
		}))
		return
	}

	var body BookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	v, ok := h.loadVenue(c, body.VenueID)
	if !ok {
		return
	}

	d := booking.NewDraft(v)
	d.SetEventName(body.EventName)
	d.SetEventType(booking.EventType(strings.TrimSpace(body.EventType)))
	d.SetEventDateText(body.EventDate)
	d.SetStartTime(strings.TrimSpace(body.StartTime))
	d.SetEndTime(strings.TrimSpace(body.EndTime))
	d.GuestCount = body.GuestCount.Raw

	o := h.admission.Submit(c.Request.Context(), session, d, v)
	if o.Err != nil && outcomeStatus(o) >= http.StatusInternalServerError {
		_ = c.Error(o.Err)
	}
	c.JSON(outcomeStatus(o), NewOutcomeResponse(o))
}

// Draft replays the caller's edits against a fresh draft and reports the
// resulting fields, pick ranges, quote and first violation.
func (h *Handler) Draft(c *gin.Context) {
	var body BookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	v, ok := h.loadVenue(c, body.VenueID)
	if !ok {
		return
	}

	d := booking.NewDraft(v)
	d.SetEventName(body.EventName)
	d.SetEventType(booking.EventType(strings.TrimSpace(body.EventType)))
	d.SetEventDateText(body.EventDate)
	if body.StartTime != "" {
		d.SetStartTime(strings.TrimSpace(body.StartTime))
	}
	if body.EndTime != "" {
		d.SetEndTime(strings.TrimSpace(body.EndTime))
	}
	if n, ok := guestNumber(body.GuestCount); ok {
		d.SetGuestCount(n)
	} else {
		d.GuestCount = body.GuestCount.Raw
	}

	c.JSON(http.StatusOK, NewDraftResponse(d, booking.ValidateDraft(d, v, h.now())))
}

func (h *Handler) List(c *gin.Context) {
	var query ListBookingsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	query.Normalize()

	filter := booking.Filter{
		VenueID:  query.VenueID,
		Status:   query.Status,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.EventDate != "" {
		date, err := timeofday.ParseDate(query.EventDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event_date must be YYYY-MM-DD"})
			return
		}
		filter.EventDate = &date
	}

	reservations, total, err := h.service.List(c.Request.Context(), filter, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		items[i] = NewReservationResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, query.Page, query.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), id, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	r, err := h.service.UpdateStatus(c.Request.Context(), id, booking.Status(body.Status), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

// Availability lists the free windows of a venue on ?date=YYYY-MM-DD.
func (h *Handler) Availability(c *gin.Context) {
	venueID := c.Param("id")
	if _, err := uuid.Parse(venueID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	date, err := timeofday.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	slots, err := h.service.FreeSlots(c.Request.Context(), venueID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(venueID, date, slots))
}
