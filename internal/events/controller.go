package events

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxoffice/internal/shared/utils/response"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	UpdateEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)
	GetAllEvents(c *gin.Context)
	GetUpcomingEvents(c *gin.Context)
	AddServiceCharge(c *gin.Context)
	AddPlatformServiceCharge(c *gin.Context)
	RemoveServiceCharge(c *gin.Context)
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

func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	event, err := ctrl.service.CreateEvent(userID, req)
	if err != nil {
		response.RespondError(c, "Failed to create event", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", event, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	event, err := ctrl.service.GetEventByID(eventID)
	if err != nil {
		response.RespondError(c, "Failed to get event", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

func (ctrl *controller) UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	event, err := ctrl.service.UpdateEvent(eventID, userID, req)
	if err != nil {
		response.RespondError(c, "Failed to update event", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event updated successfully", event, nil)
}

func (ctrl *controller) DeleteEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := ctrl.service.DeleteEvent(eventID, userID); err != nil {
		response.RespondError(c, "Failed to delete event", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event deleted successfully", nil, nil)
}

func (ctrl *controller) GetAllEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	events, err := ctrl.service.GetAllEvents(query)
	if err != nil {
		response.RespondError(c, "Failed to get events", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", events, nil)
}

func (ctrl *controller) GetUpcomingEvents(c *gin.Context) {
	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	events, err := ctrl.service.GetUpcomingEvents(limit)
	if err != nil {
		response.RespondError(c, "Failed to get upcoming events", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Upcoming events retrieved successfully", events, nil)
}

func (ctrl *controller) AddServiceCharge(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req CreateServiceChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	charge, err := ctrl.service.AddServiceCharge(&eventID, req)
	if err != nil {
		response.RespondError(c, "Failed to add service charge", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Service charge added successfully", charge, nil)
}

func (ctrl *controller) AddPlatformServiceCharge(c *gin.Context) {
	var req CreateServiceChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	charge, err := ctrl.service.AddServiceCharge(nil, req)
	if err != nil {
		response.RespondError(c, "Failed to add service charge", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Service charge added successfully", charge, nil)
}

func (ctrl *controller) RemoveServiceCharge(c *gin.Context) {
	chargeID, err := uuid.Parse(c.Param("chargeId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid charge ID", nil, err.Error())
		return
	}

	if err := ctrl.service.RemoveServiceCharge(chargeID); err != nil {
		response.RespondError(c, "Failed to remove service charge", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Service charge removed successfully", nil, nil)
}
