package http

import (
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/venue-booking-backend/internal/pricing"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

// ListVenuesRequest defines query parameters for listing venues.
type ListVenuesRequest struct {
	request.ListParams
	OwnerID string `form:"owner_id" binding:"omitempty,uuid"`
	Keyword string `form:"q"`
}

type CreateVenueBody struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	Description string `json:"description"`
	OpenTime    string `json:"open_time" binding:"required"`
	CloseTime   string `json:"close_time" binding:"required"`
	PricingMode string `json:"pricing_mode" binding:"required,oneof=single split"`
	Rate        int64  `json:"rate" binding:"gte=0"`
	RateWeekday int64  `json:"rate_weekday" binding:"gte=0"`
	RateWeekend int64  `json:"rate_weekend" binding:"gte=0"`
	CapacityMax *int64 `json:"capacity_max" binding:"omitempty,gte=1"`
}

type UpdateVenueBody struct {
	Name          *string `json:"name"`
	Address       *string `json:"address"`
	Description   *string `json:"description"`
	OpenTime      *string `json:"open_time"`
	CloseTime     *string `json:"close_time"`
	PricingMode   *string `json:"pricing_mode" binding:"omitempty,oneof=single split"`
	Rate          *int64  `json:"rate" binding:"omitempty,gte=0"`
	RateWeekday   *int64  `json:"rate_weekday" binding:"omitempty,gte=0"`
	RateWeekend   *int64  `json:"rate_weekend" binding:"omitempty,gte=0"`
	CapacityMax   *int64  `json:"capacity_max" binding:"omitempty,gte=1"`
	ClearCapacity bool    `json:"clear_capacity"`
}

type VenueResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	OpenTime    string    `json:"open_time"`
	CloseTime   string    `json:"close_time"`
	PricingMode string    `json:"pricing_mode"`
	Rate        int64     `json:"rate"`
	RateWeekday int64     `json:"rate_weekday"`
	RateWeekend int64     `json:"rate_weekend"`
	CapacityMax *int64    `json:"capacity_max"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewVenueResponse(v *venue.Venue) VenueResponse {
	return VenueResponse{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Name:        v.Name,
		Address:     v.Address,
		Description: v.Description,
		OpenTime:    v.OpenTime,
		CloseTime:   v.CloseTime,
		PricingMode: string(v.PricingMode),
		Rate:        v.Rate,
		RateWeekday: v.RateWeekday,
		RateWeekend: v.RateWeekend,
		CapacityMax: v.CapacityMax,
		CreatedAt:   v.CreatedAt,
	}
}

type QuoteResponse struct {
	VenueID        string `json:"venue_id"`
	Date           string `json:"date"`
	ApplicableRate int64  `json:"applicable_rate"`
	DepositAmount  int64  `json:"deposit_amount"`
}

func NewQuoteResponse(venueID, date string, q pricing.RateQuote) QuoteResponse {
	return QuoteResponse{
		VenueID:        venueID,
		Date:           date,
		ApplicableRate: q.ApplicableRate,
		DepositAmount:  q.DepositAmount,
	}
}
