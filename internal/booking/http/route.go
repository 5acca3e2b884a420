package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the booking endpoints. Submission and draft
// previews accept anonymous callers; login is enforced by the admission
// protocol itself.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, optionalAuth gin.HandlerFunc) {
	g.GET("/venues/:id/availability", h.Availability)

	public := g.Group("/bookings")
	public.Use(optionalAuth)
	{
		public.POST("", h.Submit)
		public.POST("/draft", h.Draft)
	}

	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.UpdateStatus)
	}
}
