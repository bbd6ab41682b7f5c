package tickettypes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
)

type Controller interface {
	CreateTicketType(c *gin.Context)
	ListTicketTypes(c *gin.Context)
	UpdateTicketType(c *gin.Context)
	ArchiveTicketType(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateTicketType(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req CreateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	ticketType, err := ctrl.service.CreateTicketType(eventID, req)
	if err != nil {
		response.RespondError(c, "Failed to create ticket type", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Ticket type created successfully", ticketType, nil)
}

func (ctrl *controller) ListTicketTypes(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	// Organizers see hidden types; shoppers only the visible ones.
	role, _ := c.Get("user_role")
	includeHidden := role == middleware.RoleAdmin || role == middleware.RoleOrganizer

	ticketTypes, err := ctrl.service.ListForEvent(eventID, includeHidden)
	if err != nil {
		response.RespondError(c, "Failed to list ticket types", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket types retrieved successfully", ticketTypes, nil)
}

func (ctrl *controller) UpdateTicketType(c *gin.Context) {
	ticketTypeID, err := uuid.Parse(c.Param("ticketTypeId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ticket type ID", nil, err.Error())
		return
	}

	var req UpdateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(c, err)
		return
	}

	ticketType, err := ctrl.service.UpdateTicketType(ticketTypeID, req)
	if err != nil {
		response.RespondError(c, "Failed to update ticket type", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket type updated successfully", ticketType, nil)
}

func (ctrl *controller) ArchiveTicketType(c *gin.Context) {
	ticketTypeID, err := uuid.Parse(c.Param("ticketTypeId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ticket type ID", nil, err.Error())
		return
	}

	if err := ctrl.service.ArchiveTicketType(ticketTypeID); err != nil {
		response.RespondError(c, "Failed to archive ticket type", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket type archived successfully", nil, nil)
}
