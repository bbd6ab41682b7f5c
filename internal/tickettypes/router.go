package tickettypes

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/middleware"
)

func SetupTicketTypeRoutes(router *gin.RouterGroup, controller Controller) {
	public := router.Group("/events/:eventId/ticket-types")
	{
		public.GET("", controller.ListTicketTypes)
	}

	admin := router.Group("/admin/events/:eventId/ticket-types")
	admin.Use(middleware.JWTAuth(), middleware.RequireOrganizer())
	{
		admin.POST("", controller.CreateTicketType)
	}

	adminByID := router.Group("/admin/ticket-types")
	adminByID.Use(middleware.JWTAuth(), middleware.RequireOrganizer())
	{
		adminByID.PUT("/:ticketTypeId", controller.UpdateTicketType)
		adminByID.DELETE("/:ticketTypeId", controller.ArchiveTicketType)
	}
}
