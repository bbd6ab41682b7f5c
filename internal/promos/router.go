package promos

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/middleware"
)

func SetupPromoRoutes(router *gin.RouterGroup, controller Controller) {
	// Shoppers validate codes against their cart; read-only, session scoped.
	public := router.Group("/promos")
	{
		public.POST("/validate", controller.ValidatePromo)
	}

	admin := router.Group("/admin/promos")
	admin.Use(middleware.JWTAuth(), middleware.RequireOrganizer())
	{
		admin.POST("", controller.CreatePromo)
		admin.GET("", controller.ListPromos)
		admin.GET("/:promoId", controller.GetPromo)
		admin.PUT("/:promoId", controller.UpdatePromo)
		admin.DELETE("/:promoId", controller.DeletePromo)
	}
}
