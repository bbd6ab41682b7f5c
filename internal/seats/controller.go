package seats

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
)

type Controller interface {
	SelectSeats(c *gin.Context)
	ReleaseSelection(c *gin.Context)
	GetSeatMap(c *gin.Context)
	BlockSeats(c *gin.Context)
	UnblockSeats(c *gin.Context)
	ListBlocks(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) SelectSeats(c *gin.Context) {
	var req SelectSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	result, err := ctrl.service.SelectSeats(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		response.RespondError(c, "Failed to select seats", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats selected successfully", result, nil)
}

func (ctrl *controller) ReleaseSelection(c *gin.Context) {
	eventID := c.Query("event_id")
	if eventID == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "event_id query parameter is required", nil, nil)
		return
	}

	err := ctrl.service.ReleaseSelection(c.Request.Context(), middleware.GetSessionID(c), eventID, c.Param("selectionId"))
	if err != nil {
		response.RespondError(c, "Failed to release selection", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Selection released successfully", nil, nil)
}

func (ctrl *controller) GetSeatMap(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	seatMap, err := ctrl.service.GetSeatMap(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, "Failed to get seat map", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat map retrieved successfully", seatMap, nil)
}

func (ctrl *controller) BlockSeats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req BlockSeatsRequest
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

	result, err := ctrl.service.BlockSeats(c.Request.Context(), eventID, userID, req)
	if err != nil {
		response.RespondError(c, "Failed to block seats", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seats blocked successfully", result, nil)
}

func (ctrl *controller) UnblockSeats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req UnblockSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	released, err := ctrl.service.UnblockSeats(c.Request.Context(), eventID, req)
	if err != nil {
		response.RespondError(c, "Failed to unblock seats", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats unblocked successfully", gin.H{"released_count": released}, nil)
}

func (ctrl *controller) ListBlocks(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	includeReleased := c.Query("include_released") == "true"
	blocks, err := ctrl.service.ListBlocks(eventID, includeReleased)
	if err != nil {
		response.RespondError(c, "Failed to list seat blocks", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat blocks retrieved successfully", blocks, nil)
}
