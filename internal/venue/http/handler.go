package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/venue-booking-backend/internal/auth"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/timeofday"
	"github.com/nekogravitycat/venue-booking-backend/internal/pricing"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

type VenueHandler struct {
	service venue.Service
}

func NewHandler(service venue.Service) *VenueHandler {
	return &VenueHandler{service: service}
}

// parseID validates the :id path parameter.
func parseID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return "", false
	}
	return id, true
}

// List retrieves a paginated list of venues with optional filtering.
func (h *VenueHandler) List(c *gin.Context) {
	var query ListVenuesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	query.Normalize()

	venues, total, err := h.service.List(c.Request.Context(), venue.Filter{
		OwnerID:  query.OwnerID,
		Keyword:  query.Keyword,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]VenueResponse, len(venues))
	for i, v := range venues {
		items[i] = NewVenueResponse(v)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, query.Page, query.PageSize, total))
}

// Create adds a venue owned by the caller.
func (h *VenueHandler) Create(c *gin.Context) {
	var body CreateVenueBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	v, err := h.service.Create(c.Request.Context(), venue.CreateRequest{
		OwnerID:     auth.GetUserID(c),
		Name:        body.Name,
		Address:     body.Address,
		Description: body.Description,
		OpenTime:    body.OpenTime,
		CloseTime:   body.CloseTime,
		PricingMode: venue.PricingMode(body.PricingMode),
		Rate:        body.Rate,
		RateWeekday: body.RateWeekday,
		RateWeekend: body.RateWeekend,
		CapacityMax: body.CapacityMax,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewVenueResponse(v))
}

func (h *VenueHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewVenueResponse(v))
}

// Update modifies a venue. Only its owner may do so.
func (h *VenueHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body UpdateVenueBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := venue.UpdateRequest{
		Name:          body.Name,
		Address:       body.Address,
		Description:   body.Description,
		OpenTime:      body.OpenTime,
		CloseTime:     body.CloseTime,
		Rate:          body.Rate,
		RateWeekday:   body.RateWeekday,
		RateWeekend:   body.RateWeekend,
		CapacityMax:   body.CapacityMax,
		ClearCapacity: body.ClearCapacity,
	}
	if body.PricingMode != nil {
		mode := venue.PricingMode(*body.PricingMode)
		req.PricingMode = &mode
	}

	v, err := h.service.Update(c.Request.Context(), id, req, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewVenueResponse(v))
}

// Delete removes a venue. Only its owner may do so.
func (h *VenueHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Quote returns the applicable rate and deposit for ?date=YYYY-MM-DD.
func (h *VenueHandler) Quote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	date, err := timeofday.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewQuoteResponse(v.ID, timeofday.FormatDate(date), pricing.Quote(v, date)))
}
