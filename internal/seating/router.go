package seating

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/middleware"
)

func SetupSeatingRoutes(router *gin.RouterGroup, controller Controller) {
	admin := router.Group("/admin/events/:eventId/seating")
	admin.Use(middleware.JWTAuth(), middleware.RequireOrganizer())
	{
		admin.GET("", controller.GetConfiguration)
		admin.POST("/chart", controller.AssignChart)
		admin.POST("/chart/new", controller.CreateChart)
		admin.POST("/chart/design/finish", controller.FinishDesign)
		admin.POST("/categories/map", controller.MapCategory)
		admin.POST("/finish", controller.Finish)
		admin.POST("/reconfigure", controller.Reconfigure)
	}
}
