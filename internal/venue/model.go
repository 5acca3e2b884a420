package venue

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "venue not found")
	ErrNameRequired        = apperror.New(http.StatusBadRequest, "venue name is required")
	ErrInvalidOpeningHours = apperror.New(http.StatusBadRequest, "opening hours must be HH:MM and open time must be before close time")
	ErrInvalidPricingMode  = apperror.New(http.StatusBadRequest, "pricing mode must be single or split")
	ErrInvalidRate         = apperror.New(http.StatusBadRequest, "rates for the pricing mode must be positive")
	ErrInvalidCapacity     = apperror.New(http.StatusBadRequest, "capacity must be at least 1")
	ErrPermissionDenied    = apperror.New(http.StatusForbidden, "permission denied")
)

type PricingMode string

const (
	PricingSingle PricingMode = "single"
	PricingSplit  PricingMode = "split"
)

// Venue is a bookable place. The scheduler only ever reads it.
type Venue struct {
	ID          string
	OwnerID     string
	Name        string
	Address     string
	Description string
	OpenTime    string // HH:MM
	CloseTime   string // HH:MM
	PricingMode PricingMode
	Rate        int64 // single mode
	RateWeekday int64 // split mode
	RateWeekend int64 // split mode
	CapacityMax *int64
	CreatedAt   time.Time
}

// Filter defines parameters for listing venues.
type Filter struct {
	OwnerID  string
	Keyword  string // Search in Name or Address
	Page     int
	PageSize int
}
