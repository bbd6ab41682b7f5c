package pricing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
)

type Controller interface {
	GetCart(c *gin.Context)
	UpdateCart(c *gin.Context)
	ClearCart(c *gin.Context)
	ApplyPromo(c *gin.Context)
	ClearPromo(c *gin.Context)
	PriceCart(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetCart(c *gin.Context) {
	cart, err := ctrl.service.GetCart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		response.RespondError(c, "Failed to get cart", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Cart retrieved successfully", cart, nil)
}

func (ctrl *controller) UpdateCart(c *gin.Context) {
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	cart, err := ctrl.service.UpdateItems(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		response.RespondError(c, "Failed to update cart", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Cart updated successfully", cart, nil)
}

func (ctrl *controller) ClearCart(c *gin.Context) {
	if err := ctrl.service.ClearCart(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		response.RespondError(c, "Failed to clear cart", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Cart cleared successfully", nil, nil)
}

func (ctrl *controller) ApplyPromo(c *gin.Context) {
	var req ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	cart, err := ctrl.service.ApplyPromo(c.Request.Context(), middleware.GetSessionID(c), req.Code)
	if err != nil {
		response.RespondError(c, "Failed to apply promo code", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Promo code applied successfully", cart, nil)
}

func (ctrl *controller) ClearPromo(c *gin.Context) {
	cart, err := ctrl.service.ClearPromo(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		response.RespondError(c, "Failed to remove promo code", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Promo code removed successfully", cart, nil)
}

func (ctrl *controller) PriceCart(c *gin.Context) {
	breakdown, err := ctrl.service.Price(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		response.RespondError(c, "Failed to price cart", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Cart priced successfully", breakdown, nil)
}
