package venue

import (
	"context"
	"strings"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/timeofday"
)

// CreateRequest carries data to create a venue.
type CreateRequest struct {
	OwnerID     string
	Name        string
	Address     string
	Description string
	OpenTime    string
	CloseTime   string
	PricingMode PricingMode
	Rate        int64
	RateWeekday int64
	RateWeekend int64
	CapacityMax *int64
}

// UpdateRequest carries data for partial updates.
type UpdateRequest struct {
	Name        *string
	Address     *string
	Description *string
	OpenTime    *string
	CloseTime   *string
	PricingMode *PricingMode
	Rate        *int64
	RateWeekday *int64
	RateWeekend *int64
	CapacityMax *int64
	// ClearCapacity removes the guest cap; it wins over CapacityMax.
	ClearCapacity bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Venue, error)
	GetByID(ctx context.Context, id string) (*Venue, error)
	List(ctx context.Context, filter Filter) ([]*Venue, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, actorID string) (*Venue, error)
	Delete(ctx context.Context, id string, actorID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// validateVenue checks the logical rules for a Venue and normalizes its
// opening hours to HH:MM.
func validateVenue(v *Venue) error {
	// 1. Name
	if strings.TrimSpace(v.Name) == "" {
		return ErrNameRequired
	}

	// 2. Opening hours (single-day operation)
	open, err := timeofday.Normalize(v.OpenTime)
	if err != nil {
		return ErrInvalidOpeningHours
	}
	closing, err := timeofday.Normalize(v.CloseTime)
	if err != nil {
		return ErrInvalidOpeningHours
	}
	if open >= closing {
		return ErrInvalidOpeningHours
	}
	v.OpenTime, v.CloseTime = open, closing

	// 3. Pricing
	switch v.PricingMode {
	case PricingSingle:
		if v.Rate <= 0 {
			return ErrInvalidRate
		}
	case PricingSplit:
		if v.RateWeekday <= 0 || v.RateWeekend <= 0 {
			return ErrInvalidRate
		}
	default:
		return ErrInvalidPricingMode
	}

	// 4. Capacity
	if v.CapacityMax != nil && *v.CapacityMax < 1 {
		return ErrInvalidCapacity
	}

	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Venue, error) {
	v := &Venue{
		OwnerID:     req.OwnerID,
		Name:        strings.TrimSpace(req.Name),
		Address:     req.Address,
		Description: req.Description,
		OpenTime:    req.OpenTime,
		CloseTime:   req.CloseTime,
		PricingMode: req.PricingMode,
		Rate:        req.Rate,
		RateWeekday: req.RateWeekday,
		RateWeekend: req.RateWeekend,
		CapacityMax: req.CapacityMax,
	}

	if err := validateVenue(v); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Venue, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Venue, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actorID string) (*Venue, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != actorID {
		return nil, ErrPermissionDenied
	}

	// Apply non-nil fields
	if req.Name != nil {
		v.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		v.Address = *req.Address
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.OpenTime != nil {
		v.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		v.CloseTime = *req.CloseTime
	}
	if req.PricingMode != nil {
		v.PricingMode = *req.PricingMode
	}
	if req.Rate != nil {
		v.Rate = *req.Rate
	}
	if req.RateWeekday != nil {
		v.RateWeekday = *req.RateWeekday
	}
	if req.RateWeekend != nil {
		v.RateWeekend = *req.RateWeekend
	}
	if req.CapacityMax != nil {
		v.CapacityMax = req.CapacityMax
	}
	if req.ClearCapacity {
		v.CapacityMax = nil
	}

	if err := validateVenue(v); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) Delete(ctx context.Context, id string, actorID string) error {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v.OwnerID != actorID {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}
