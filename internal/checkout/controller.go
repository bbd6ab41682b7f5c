package checkout

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
)

type Controller interface {
	Checkout(c *gin.Context)
	GetOrder(c *gin.Context)
	GetSessionOrders(c *gin.Context)
	GetEventOrders(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	sessionID := middleware.GetSessionID(c)

	// Checkout works anonymously; a logged-in shopper gets the order
	// attached to their account.
	var userID *uuid.UUID
	if raw, exists := c.Get("user_id"); exists {
		if id, err := uuid.Parse(raw.(string)); err == nil {
			userID = &id
		}
	}

	order, err := ctrl.service.Checkout(c.Request.Context(), sessionID, userID, req)
	if err != nil {
		response.RespondError(c, "Checkout failed", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Order confirmed", order, nil)
}

func (ctrl *controller) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid order ID", nil, err.Error())
		return
	}

	order, err := ctrl.service.GetOrder(orderID)
	if err != nil {
		response.RespondError(c, "Failed to get order", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Order retrieved successfully", order, nil)
}

func (ctrl *controller) GetSessionOrders(c *gin.Context) {
	orders, err := ctrl.service.GetSessionOrders(middleware.GetSessionID(c))
	if err != nil {
		response.RespondError(c, "Failed to list orders", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Orders retrieved successfully", orders, nil)
}

func (ctrl *controller) GetEventOrders(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	orders, err := ctrl.service.GetEventOrders(eventID)
	if err != nil {
		response.RespondError(c, "Failed to list event orders", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Orders retrieved successfully", orders, nil)
}
