package events

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boxoffice/internal/money"
	"boxoffice/internal/shared/apperrors"
	"boxoffice/internal/shared/constants"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreateEvent(userID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(id uuid.UUID) (*EventResponse, error)
	GetEvent(id uuid.UUID) (*Event, error)
	UpdateEvent(id uuid.UUID, userID uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(id uuid.UUID, userID uuid.UUID) error
	GetAllEvents(query EventListQuery) (*PaginatedEvents, error)
	GetUpcomingEvents(limit int) ([]EventResponse, error)

	AddServiceCharge(eventID *uuid.UUID, req CreateServiceChargeRequest) (*ServiceChargeConfig, error)
	RemoveServiceCharge(id uuid.UUID) error
	// GetServiceCharges returns the charges that apply to an event in
	// evaluation order: platform-wide lines first, then event-specific.
	GetServiceCharges(eventID uuid.UUID) ([]money.ServiceCharge, error)
}

type service struct {
	repo            Repository
	cacheService    cache.Service
	defaultCurrency string
}

func NewService(repo Repository, defaultCurrency string) Service {
	return &service{repo: repo, defaultCurrency: defaultCurrency}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		logger.GetDefault().WithError(err).Warn("failed to cache", "key", key)
	}
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return cache.ErrCacheMiss
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) invalidateEventCache(ctx context.Context, eventID *uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	patterns := []string{constants.PATTERN_INVALIDATE_EVENT_ALL}
	if eventID != nil {
		patterns = append(patterns, constants.PATTERN_INVALIDATE_EVENT_DETAIL+eventID.String()+"*")
	}
	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			logger.GetDefault().WithError(err).Warn("failed to invalidate event cache", "pattern", pattern)
		}
	}
}

func (s *service) CreateEvent(userID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	if req.DateTime.Before(time.Now()) {
		return nil, apperrors.NewValidation("event date must be in the future", "date_time")
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	event := &Event{
		Name:           req.Name,
		Description:    req.Description,
		Venue:          req.Venue,
		DateTime:       req.DateTime,
		SeatingType:    SeatingType(req.SeatingType),
		Status:         StatusDraft,
		Currency:       currency,
		TaxRatePercent: req.TaxRatePercent,
		CreatedBy:      userID,
	}

	if err := s.repo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidateEventCache(context.Background(), nil)

	response := event.ToResponse()
	return &response, nil
}

func (s *service) GetEventByID(id uuid.UUID) (*EventResponse, error) {
	ctx := context.Background()
	cacheKey := constants.BuildEventDetailKey(id.String())

	var cachedEvent EventResponse
	if err := s.getCache(ctx, cacheKey, &cachedEvent); err == nil {
		return &cachedEvent, nil
	}

	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	response := event.ToResponse()
	s.setCache(ctx, cacheKey, response, constants.TTL_EVENT_DETAIL)
	return &response, nil
}

// GetEvent fetches the raw entity for other feature services.
func (s *service) GetEvent(id uuid.UUID) (*Event, error) {
	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("event", id.String())
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (s *service) UpdateEvent(id uuid.UUID, userID uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	currentEvent, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	if currentEvent.CreatedBy != userID {
		return nil, apperrors.NewValidation("you can only update events you created")
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.DateTime != nil {
		if req.DateTime.Before(time.Now()) {
			return nil, apperrors.NewValidation("event date must be in the future", "date_time")
		}
		updates["date_time"] = *req.DateTime
	}
	if req.Status != nil {
		updates["status"] = EventStatus(*req.Status)
	}
	if req.TaxRatePercent != nil {
		updates["tax_rate_percent"] = *req.TaxRatePercent
	}
	updates["updated_at"] = time.Now()
	updates["updated_by"] = userID

	updatedEvent, err := s.repo.Update(id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidateEventCache(context.Background(), &id)

	response := updatedEvent.ToResponse()
	return &response, nil
}

func (s *service) DeleteEvent(id uuid.UUID, userID uuid.UUID) error {
	currentEvent, err := s.GetEvent(id)
	if err != nil {
		return err
	}

	if currentEvent.CreatedBy != userID {
		return apperrors.NewValidation("you can only delete events you created")
	}
	if currentEvent.Status != StatusDraft {
		return apperrors.NewState("only draft events can be deleted", string(currentEvent.Status))
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.invalidateEventCache(context.Background(), &id)
	return nil
}

func (s *service) GetAllEvents(query EventListQuery) (*PaginatedEvents, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	ctx := context.Background()
	cacheKey := constants.BuildEventListKey(query.Page, query.Limit, query.Status)

	var cachedResult PaginatedEvents
	if err := s.getCache(ctx, cacheKey, &cachedResult); err == nil {
		return &cachedResult, nil
	}

	events, totalCount, err := s.repo.GetAll(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	eventResponses := make([]EventResponse, len(events))
	for i, event := range events {
		eventResponses[i] = event.ToResponse()
	}

	result := &PaginatedEvents{
		Events:     eventResponses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}

	s.setCache(ctx, cacheKey, result, constants.TTL_EVENT_LIST)
	return result, nil
}

func (s *service) GetUpcomingEvents(limit int) ([]EventResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	events, err := s.repo.GetUpcoming(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming events: %w", err)
	}

	responses := make([]EventResponse, len(events))
	for i, event := range events {
		responses[i] = event.ToResponse()
	}
	return responses, nil
}

func (s *service) AddServiceCharge(eventID *uuid.UUID, req CreateServiceChargeRequest) (*ServiceChargeConfig, error) {
	charge := &ServiceChargeConfig{
		EventID:     eventID,
		Title:       req.Title,
		Scope:       req.Scope,
		Kind:        req.Kind,
		AmountMinor: req.AmountMinor,
		RatePercent: req.RatePercent,
	}

	if err := charge.ToServiceCharge().Validate(); err != nil {
		return nil, err
	}

	position, err := s.repo.NextChargePosition(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to determine charge position: %w", err)
	}
	charge.Position = position

	if err := s.repo.CreateServiceCharge(charge); err != nil {
		return nil, fmt.Errorf("failed to create service charge: %w", err)
	}

	s.invalidateEventCache(context.Background(), eventID)
	return charge, nil
}

func (s *service) RemoveServiceCharge(id uuid.UUID) error {
	if err := s.repo.DeleteServiceCharge(id); err != nil {
		return fmt.Errorf("failed to delete service charge: %w", err)
	}
	return nil
}

func (s *service) GetServiceCharges(eventID uuid.UUID) ([]money.ServiceCharge, error) {
	rows, err := s.repo.GetServiceCharges(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service charges: %w", err)
	}

	charges := make([]money.ServiceCharge, len(rows))
	for i := range rows {
		charges[i] = rows[i].ToServiceCharge()
	}
	return charges, nil
}
