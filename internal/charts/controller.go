package charts

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxoffice/internal/shared/utils/response"
)

type Controller interface {
	CreateChart(c *gin.Context)
	GetChart(c *gin.Context)
	ListCharts(c *gin.Context)
	UpdateChart(c *gin.Context)
	DeleteChart(c *gin.Context)
	DuplicateChart(c *gin.Context)
	AddSeats(c *gin.Context)
	GetSeats(c *gin.Context)
	RemoveSeat(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
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

func (ctrl *controller) CreateChart(c *gin.Context) {
	var req CreateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	chart, err := ctrl.service.CreateChart(userID, req)
	if err != nil {
		response.RespondError(c, "Failed to create chart", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Chart created successfully", chart, nil)
}

func (ctrl *controller) GetChart(c *gin.Context) {
	chartID, err := uuid.Parse(c.Param("chartId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid chart ID", nil, err.Error())
		return
	}

	chart, err := ctrl.service.GetChartWithSeatCount(chartID)
	if err != nil {
		response.RespondError(c, "Failed to get chart", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Chart retrieved successfully", chart, nil)
}

func (ctrl *controller) ListCharts(c *gin.Context) {
	charts, err := ctrl.service.ListCharts()
	if err != nil {
		response.RespondError(c, "Failed to list charts", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Charts retrieved successfully", charts, nil)
}

func (ctrl *controller) UpdateChart(c *gin.Context) {
	chartID, err := uuid.Parse(c.Param("chartId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid chart ID", nil, err.Error())
		return
	}

	var req UpdateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	chart, err := ctrl.service.UpdateChart(chartID, req)
	if err != nil {
		response.RespondError(c, "Failed to update chart", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Chart updated successfully", chart, nil)
}

func (ctrl *controller) DeleteChart(c *gin.Context) {
	chartID, err := uuid.Parse(c.Param("chartId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid chart ID", nil, err.Error())
		return
	}

	if err := ctrl.service.DeleteChart(chartID); err != nil {
		response.RespondError(c, "Failed to delete chart", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Chart deleted successfully", nil, nil)
}

func (ctrl *controller) DuplicateChart(c *gin.Context) {
	chartID, err := uuid.Parse(c.Param("chartId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid chart ID", nil, err.Error())
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	// Body is optional; a missing name falls back to "<source> (copy)".
	_ = c.ShouldBindJSON(&req)

	userID, ok := userIDFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	chart, err := ctrl.service.DuplicateChart(chartID, userID, req.Name)
	if err != nil {
		response.RespondError(c, "Failed to duplicate chart", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Chart duplicated successfully", chart, nil)
}

func (ctrl *controller) AddSeats(c *gin.Context) {
	chartID, err := uuid.Parse(c.Param("chartId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid chart ID", nil, err.Error())
		return
	}

	var reqs []AddSeatRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	seats, err := ctrl.service.AddSeats(chartID, reqs)
	if err != nil {
		response.RespondError(c, "Failed to add seats", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seats added successfully", seats, nil)
}

func (ctrl *controller) GetSeats(c *gin.Context) {
	chartID, err := uuid.Parse(c.Param("chartId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid chart ID", nil, err.Error())
		return
	}

	seats, err := ctrl.service.GetSeats(chartID)
	if err != nil {
		response.RespondError(c, "Failed to get seats", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats retrieved successfully", seats, nil)
}

func (ctrl *controller) RemoveSeat(c *gin.Context) {
	chartID, err := uuid.Parse(c.Param("chartId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid chart ID", nil, err.Error())
		return
	}

	if err := ctrl.service.RemoveSeat(chartID, c.Param("label")); err != nil {
		response.RespondError(c, "Failed to remove seat", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat removed successfully", nil, nil)
}
