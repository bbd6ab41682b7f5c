package seats

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/middleware"
)

func SetupSeatRoutes(router *gin.RouterGroup, controller Controller) {
	// Shopper selection flow; session scoped, no auth required.
	public := router.Group("/seats")
	{
		public.POST("/select", controller.SelectSeats)
		public.DELETE("/select/:selectionId", controller.ReleaseSelection)
	}

	router.GET("/events/:eventId/seats", controller.GetSeatMap)

	admin := router.Group("/admin/events/:eventId/seats")
	admin.Use(middleware.JWTAuth(), middleware.RequireOrganizer())
	{
		admin.POST("/block", controller.BlockSeats)
		admin.POST("/unblock", controller.UnblockSeats)
		admin.GET("/blocks", controller.ListBlocks)
	}
}
