package events

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/middleware"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse events
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.GetAllEvents)
		publicEvents.GET("/upcoming", controller.GetUpcomingEvents)
		publicEvents.GET("/:eventId", controller.GetEvent)
	}

	// Organizer routes - create and manage events and their fee lines
	adminEvents := router.Group("/admin/events")
	adminEvents.Use(middleware.JWTAuth(), middleware.RequireOrganizer())
	{
		adminEvents.POST("", controller.CreateEvent)
		adminEvents.PUT("/:eventId", controller.UpdateEvent)
		adminEvents.DELETE("/:eventId", controller.DeleteEvent)
		adminEvents.POST("/:eventId/service-charges", controller.AddServiceCharge)
	}

	// Platform-wide fee lines apply to every event; admin only
	platformCharges := router.Group("/admin/service-charges")
	platformCharges.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		platformCharges.POST("", controller.AddPlatformServiceCharge)
		platformCharges.DELETE("/:chargeId", controller.RemoveServiceCharge)
	}
}
