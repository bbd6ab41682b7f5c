package seating

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxoffice/internal/charts"
	"boxoffice/internal/shared/utils/response"
)

type Controller interface {
	GetConfiguration(c *gin.Context)
	AssignChart(c *gin.Context)
	CreateChart(c *gin.Context)
	FinishDesign(c *gin.Context)
	MapCategory(c *gin.Context)
	Finish(c *gin.Context)
	Reconfigure(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func eventIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *controller) GetConfiguration(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	config, err := ctrl.service.GetConfiguration(eventID)
	if err != nil {
		response.RespondError(c, "Failed to get seating configuration", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seating configuration retrieved successfully", config, nil)
}

func (ctrl *controller) AssignChart(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req AssignChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	config, err := ctrl.service.AssignChart(c.Request.Context(), eventID, req)
	if err != nil {
		response.RespondError(c, "Failed to assign chart", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Chart assigned successfully", config, nil)
}

func (ctrl *controller) CreateChart(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req charts.CreateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	userID, authed := currentUserID(c)
	if !authed {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	config, designURL, err := ctrl.service.CreateChart(c.Request.Context(), eventID, userID, req)
	if err != nil {
		response.RespondError(c, "Failed to create chart", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Chart created, design in progress", gin.H{
		"configuration": config,
		"design_url":    designURL,
	}, nil)
}

func (ctrl *controller) FinishDesign(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	config, err := ctrl.service.FinishDesign(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, "Failed to finish chart design", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Chart design finished successfully", config, nil)
}

func (ctrl *controller) MapCategory(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req MapCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	config, err := ctrl.service.MapCategory(eventID, req)
	if err != nil {
		response.RespondError(c, "Failed to map category", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Category mapped successfully", config, nil)
}

func (ctrl *controller) Finish(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	config, err := ctrl.service.Finish(eventID)
	if err != nil {
		response.RespondError(c, "Failed to complete seating configuration", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seating configuration completed successfully", config, nil)
}

func (ctrl *controller) Reconfigure(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	config, err := ctrl.service.Reconfigure(eventID)
	if err != nil {
		response.RespondError(c, "Failed to reopen seating configuration", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seating configuration reopened successfully", config, nil)
}
