package checkout

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/middleware"
)

func SetupCheckoutRoutes(router *gin.RouterGroup, controller Controller) {
	public := router.Group("/checkout")
	{
		public.POST("", controller.Checkout)
	}

	orders := router.Group("/orders")
	{
		orders.GET("", controller.GetSessionOrders)
		orders.GET("/:orderId", controller.GetOrder)
	}

	admin := router.Group("/admin/events/:eventId/orders")
	admin.Use(middleware.JWTAuth(), middleware.RequireOrganizer())
	{
		admin.GET("", controller.GetEventOrders)
	}
}
