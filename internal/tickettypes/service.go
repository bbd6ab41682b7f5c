package tickettypes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boxoffice/internal/events"
	"boxoffice/internal/shared/apperrors"
	"boxoffice/internal/shared/constants"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreateTicketType(eventID uuid.UUID, req CreateTicketTypeRequest) (*TicketTypeResponse, error)
	GetTicketType(id uuid.UUID) (*TicketType, error)
	GetTicketTypes(ids []uuid.UUID) ([]TicketType, error)
	ListForEvent(eventID uuid.UUID, includeHidden bool) ([]TicketTypeResponse, error)
	UpdateTicketType(id uuid.UUID, req UpdateTicketTypeRequest) (*TicketTypeResponse, error)
	ArchiveTicketType(id uuid.UUID) error

	// ReserveInventory takes quantity units; returns SOLD_OUT conflict when
	// remaining inventory is insufficient.
	ReserveInventory(id uuid.UUID, quantity int) error
	ReleaseInventory(id uuid.UUID, quantity int) error
	SyncSeatedAvailability(id uuid.UUID, capacity, available int) error
}

type service struct {
	repo         Repository
	eventService events.Service
	cacheService cache.Service
}

func NewService(repo Repository, eventService events.Service) Service {
	return &service{repo: repo, eventService: eventService}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) invalidateListCache(eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	key := constants.BuildTicketTypesKey(eventID.String())
	if err := s.cacheService.Delete(context.Background(), key); err != nil {
		logger.GetDefault().WithError(err).Warn("failed to invalidate ticket type cache", "key", key)
	}
}

func (s *service) CreateTicketType(eventID uuid.UUID, req CreateTicketTypeRequest) (*TicketTypeResponse, error) {
	event, err := s.eventService.GetEvent(eventID)
	if err != nil {
		return nil, err
	}

	minPerOrder := req.MinPerOrder
	if minPerOrder == 0 {
		minPerOrder = 1
	}
	maxPerOrder := req.MaxPerOrder
	if maxPerOrder == 0 {
		maxPerOrder = 10
	}
	if minPerOrder > maxPerOrder {
		return nil, apperrors.NewValidation("min_per_order cannot exceed max_per_order", "min_per_order", "max_per_order")
	}

	ticketType := &TicketType{
		EventID:      eventID,
		Name:         req.Name,
		PriceMinor:   req.PriceMinor,
		Currency:     event.Currency,
		Capacity:     req.Capacity,
		Available:    req.Capacity,
		MinPerOrder:  minPerOrder,
		MaxPerOrder:  maxPerOrder,
		Visible:      true,
		Refundable:   true,
		Transferable: true,
	}
	if req.Visible != nil {
		ticketType.Visible = *req.Visible
	}
	if req.Refundable != nil {
		ticketType.Refundable = *req.Refundable
	}
	if req.Transferable != nil {
		ticketType.Transferable = *req.Transferable
	}

	if err := s.repo.Create(ticketType); err != nil {
		return nil, fmt.Errorf("failed to create ticket type: %w", err)
	}

	s.invalidateListCache(eventID)

	response := ticketType.ToResponse()
	return &response, nil
}

func (s *service) GetTicketType(id uuid.UUID) (*TicketType, error) {
	ticketType, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("ticket type", id.String())
		}
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}
	return ticketType, nil
}

func (s *service) GetTicketTypes(ids []uuid.UUID) ([]TicketType, error) {
	ticketTypes, err := s.repo.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket types: %w", err)
	}
	if len(ticketTypes) != len(ids) {
		found := make(map[uuid.UUID]bool, len(ticketTypes))
		for _, tt := range ticketTypes {
			found[tt.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, apperrors.NewNotFound("ticket type", id.String())
			}
		}
	}
	return ticketTypes, nil
}

func (s *service) ListForEvent(eventID uuid.UUID, includeHidden bool) ([]TicketTypeResponse, error) {
	ticketTypes, err := s.repo.GetByEventID(eventID, includeHidden)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket types: %w", err)
	}

	responses := make([]TicketTypeResponse, len(ticketTypes))
	for i := range ticketTypes {
		responses[i] = ticketTypes[i].ToResponse()
	}
	return responses, nil
}

func (s *service) UpdateTicketType(id uuid.UUID, req UpdateTicketTypeRequest) (*TicketTypeResponse, error) {
	current, err := s.GetTicketType(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.PriceMinor != nil {
		updates["price_minor"] = *req.PriceMinor
	}
	if req.MinPerOrder != nil {
		updates["min_per_order"] = *req.MinPerOrder
	}
	if req.MaxPerOrder != nil {
		updates["max_per_order"] = *req.MaxPerOrder
	}
	if req.Visible != nil {
		updates["visible"] = *req.Visible
	}
	if req.Refundable != nil {
		updates["refundable"] = *req.Refundable
	}
	if req.Transferable != nil {
		updates["transferable"] = *req.Transferable
	}
	if req.Archived != nil {
		updates["archived"] = *req.Archived
	}

	updated, err := s.repo.Update(id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket type: %w", err)
	}

	s.invalidateListCache(current.EventID)

	response := updated.ToResponse()
	return &response, nil
}

func (s *service) ArchiveTicketType(id uuid.UUID) error {
	current, err := s.GetTicketType(id)
	if err != nil {
		return err
	}

	if _, err := s.repo.Update(id, map[string]interface{}{"archived": true, "visible": false}); err != nil {
		return fmt.Errorf("failed to archive ticket type: %w", err)
	}

	s.invalidateListCache(current.EventID)
	return nil
}

func (s *service) ReserveInventory(id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return apperrors.NewValidation("quantity must be positive", "quantity")
	}

	ok, err := s.repo.DecrementAvailable(id, quantity)
	if err != nil {
		return fmt.Errorf("failed to reserve inventory: %w", err)
	}
	if !ok {
		return apperrors.NewConflict(apperrors.CodeSoldOut, "not enough tickets remaining", id.String())
	}
	return nil
}

func (s *service) ReleaseInventory(id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	if err := s.repo.IncrementAvailable(id, quantity); err != nil {
		return fmt.Errorf("failed to release inventory: %w", err)
	}
	return nil
}

func (s *service) SyncSeatedAvailability(id uuid.UUID, capacity, available int) error {
	if err := s.repo.SetAvailability(id, capacity, available); err != nil {
		return fmt.Errorf("failed to sync seated availability: %w", err)
	}
	return nil
}
