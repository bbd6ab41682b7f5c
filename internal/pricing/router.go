package pricing

import (
	"github.com/gin-gonic/gin"
)

func SetupCartRoutes(router *gin.RouterGroup, controller Controller) {
	// Session scoped; no auth required before checkout.
	cart := router.Group("/cart")
	{
		cart.GET("", controller.GetCart)
		cart.PUT("", controller.UpdateCart)
		cart.DELETE("", controller.ClearCart)
		cart.POST("/promo", controller.ApplyPromo)
		cart.DELETE("/promo", controller.ClearPromo)
		cart.POST("/price", controller.PriceCart)
	}
}
