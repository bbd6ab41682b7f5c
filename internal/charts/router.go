package charts

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/middleware"
)

func SetupChartRoutes(router *gin.RouterGroup, controller Controller) {
	public := router.Group("/charts")
	{
		public.GET("/:chartId", controller.GetChart)
		public.GET("/:chartId/seats", controller.GetSeats)
	}

	admin := router.Group("/admin/charts")
	admin.Use(middleware.JWTAuth(), middleware.RequireOrganizer())
	{
		admin.GET("", controller.ListCharts)
		admin.POST("", controller.CreateChart)
		admin.PUT("/:chartId", controller.UpdateChart)
		admin.DELETE("/:chartId", controller.DeleteChart)
		admin.POST("/:chartId/duplicate", controller.DuplicateChart)
		admin.POST("/:chartId/seats", controller.AddSeats)
		admin.DELETE("/:chartId/seats/:label", controller.RemoveSeat)
	}
}
