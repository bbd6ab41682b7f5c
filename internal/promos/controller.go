package promos

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxoffice/internal/shared/utils/response"
)

type Controller interface {
	CreatePromo(c *gin.Context)
	ListPromos(c *gin.Context)
	GetPromo(c *gin.Context)
	UpdatePromo(c *gin.Context)
	DeletePromo(c *gin.Context)
	ValidatePromo(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreatePromo(c *gin.Context) {
	var req CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	userIDRaw, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}
	userID, err := uuid.Parse(userIDRaw.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid user ID", nil, nil)
		return
	}

	promo, err := ctrl.service.CreatePromo(userID, req)
	if err != nil {
		response.RespondError(c, "Failed to create promo code", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Promo code created successfully", promo, nil)
}

func (ctrl *controller) ListPromos(c *gin.Context) {
	promos, err := ctrl.service.ListPromos()
	if err != nil {
		response.RespondError(c, "Failed to list promo codes", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Promo codes retrieved successfully", promos, nil)
}

func (ctrl *controller) GetPromo(c *gin.Context) {
	promoID, err := uuid.Parse(c.Param("promoId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid promo ID", nil, err.Error())
		return
	}

	promo, err := ctrl.service.GetPromo(promoID)
	if err != nil {
		response.RespondError(c, "Failed to get promo code", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Promo code retrieved successfully", promo, nil)
}

func (ctrl *controller) UpdatePromo(c *gin.Context) {
	promoID, err := uuid.Parse(c.Param("promoId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid promo ID", nil, err.Error())
		return
	}

	var req UpdatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	promo, err := ctrl.service.UpdatePromo(promoID, req)
	if err != nil {
		response.RespondError(c, "Failed to update promo code", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Promo code updated successfully", promo, nil)
}

func (ctrl *controller) DeletePromo(c *gin.Context) {
	promoID, err := uuid.Parse(c.Param("promoId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid promo ID", nil, err.Error())
		return
	}

	if err := ctrl.service.DeletePromo(promoID); err != nil {
		response.RespondError(c, "Failed to delete promo code", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Promo code deleted successfully", nil, nil)
}

func (ctrl *controller) ValidatePromo(c *gin.Context) {
	var req ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	result, err := ctrl.service.Validate(req)
	if err != nil {
		response.RespondError(c, "Failed to validate promo code", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Promo code validated", result, nil)
}
