package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *VenueHandler, authMiddleware gin.HandlerFunc) {
	public := g.Group("/venues")
	{
		public.GET("", h.List)            // List venues
		public.GET("/:id", h.Get)         // Get venue details
		public.GET("/:id/quote", h.Quote) // Rate quote for a date
	}

	group := g.Group("/venues")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)       // Create venue
		group.PATCH("/:id", h.Update)  // Update venue
		group.DELETE("/:id", h.Delete) // Delete venue
	}
}
