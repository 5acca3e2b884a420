package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

type Service interface {
	GetByID(ctx context.Context, id string, actorID string) (*Reservation, error)
	List(ctx context.Context, filter Filter, actorID string) ([]*Reservation, int, error)
	UpdateStatus(ctx context.Context, id string, status Status, actorID string) (*Reservation, error)
	FreeSlots(ctx context.Context, venueID string, date time.Time) ([]TimeSlot, error)
}

type service struct {
	repo         Repository
	checker      *AvailabilityChecker
	venueService venue.Service
}

func NewService(repo Repository, checker *AvailabilityChecker, venueService venue.Service) Service {
	return &service{
		repo:         repo,
		checker:      checker,
		venueService: venueService,
	}
}

// loadVenue maps venue lookups to this package's errors.
func (s *service) loadVenue(ctx context.Context, venueID string) (*venue.Venue, error) {
	v, err := s.venueService.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, venue.ErrNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return v, nil
}

// GetByID returns the reservation if actorID booked it or owns its venue.
func (s *service) GetByID(ctx context.Context, id string, actorID string) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID == actorID {
		return r, nil
	}

	v, err := s.loadVenue(ctx, r.VenueID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != actorID {
		return nil, ErrPermissionDenied
	}
	return r, nil
}

// List scopes the filter to the actor. A venue owner listing their own
// venue sees every booking of it; everyone else sees only their bookings.
func (s *service) List(ctx context.Context, filter Filter, actorID string) ([]*Reservation, int, error) {
	if filter.Status != "" && !Status(filter.Status).Valid() {
		return nil, 0, ErrInvalidStatus
	}

	if filter.VenueID != "" {
		v, err := s.loadVenue(ctx, filter.VenueID)
		if err != nil {
			return nil, 0, err
		}
		if v.OwnerID != actorID {
			filter.UserID = actorID
		}
	} else {
		filter.UserID = actorID
	}

	return s.repo.List(ctx, filter)
}

// UpdateStatus moves a reservation through its lifecycle.
//
// pending -> confirmed (venue owner), pending/confirmed -> cancelled (venue
// owner or booker). Cancelled is terminal.
func (s *service) UpdateStatus(ctx context.Context, id string, status Status, actorID string) (*Reservation, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	v, err := s.loadVenue(ctx, r.VenueID)
	if err != nil {
		return nil, err
	}
	isOwner := v.OwnerID == actorID
	isBooker := r.UserID == actorID
	if !isOwner && !isBooker {
		return nil, ErrPermissionDenied
	}

	if r.Status == status {
		return r, nil
	}

	switch {
	case r.Status == StatusCancelled:
		return nil, ErrInvalidTransition
	case status == StatusPending:
		return nil, ErrInvalidTransition
	case status == StatusConfirmed && !isOwner:
		return nil, ErrPermissionDenied
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	return s.repo.GetByID(ctx, id)
}

func (s *service) FreeSlots(ctx context.Context, venueID string, date time.Time) ([]TimeSlot, error) {
	v, err := s.loadVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	return s.checker.FreeSlots(ctx, v.ID, date, v.OpenTime, v.CloseTime)
}
