package charts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boxoffice/internal/shared/apperrors"
	"boxoffice/internal/shared/constants"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreateChart(userID uuid.UUID, req CreateChartRequest) (*VenueChart, error)
	GetChart(id uuid.UUID) (*VenueChart, error)
	GetChartWithSeatCount(id uuid.UUID) (*ChartResponse, error)
	ListCharts() ([]VenueChart, error)
	UpdateChart(id uuid.UUID, req UpdateChartRequest) (*VenueChart, error)
	DeleteChart(id uuid.UUID) error

	// DuplicateChart copies a chart and its seats under a new name. The
	// only way to "edit" categories is to duplicate and adjust the copy.
	DuplicateChart(id uuid.UUID, userID uuid.UUID, newName string) (*VenueChart, error)

	AddSeats(chartID uuid.UUID, reqs []AddSeatRequest) ([]ChartSeat, error)
	GetSeats(chartID uuid.UUID) ([]ChartSeat, error)
	RemoveSeat(chartID uuid.UUID, label string) error
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) invalidateChartCache(chartID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	key := constants.BuildChartDetailKey(chartID.String())
	if err := s.cacheService.Delete(context.Background(), key); err != nil {
		logger.GetDefault().WithError(err).Warn("failed to invalidate chart cache", "key", key)
	}
}

func validateCategories(categories []Category) error {
	seen := make(map[string]bool, len(categories))
	for _, cat := range categories {
		if cat.Key == "" {
			return apperrors.NewValidation("category key cannot be empty", "categories")
		}
		if seen[cat.Key] {
			return apperrors.NewValidation("duplicate category key", cat.Key)
		}
		seen[cat.Key] = true
	}
	return nil
}

func (s *service) CreateChart(userID uuid.UUID, req CreateChartRequest) (*VenueChart, error) {
	if err := validateCategories(req.Categories); err != nil {
		return nil, err
	}

	chart := &VenueChart{
		Name:         req.Name,
		Description:  req.Description,
		VenueName:    req.VenueName,
		VenueAddress: req.VenueAddress,
		VenueCity:    req.VenueCity,
		VenueCountry: req.VenueCountry,
		Categories:   req.Categories,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(chart); err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}
	return chart, nil
}

func (s *service) GetChart(id uuid.UUID) (*VenueChart, error) {
	chart, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("chart", id.String())
		}
		return nil, fmt.Errorf("failed to get chart: %w", err)
	}
	return chart, nil
}

func (s *service) GetChartWithSeatCount(id uuid.UUID) (*ChartResponse, error) {
	chart, err := s.GetChart(id)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountSeats(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count chart seats: %w", err)
	}

	return &ChartResponse{VenueChart: *chart, SeatCount: count}, nil
}

func (s *service) ListCharts() ([]VenueChart, error) {
	charts, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list charts: %w", err)
	}
	return charts, nil
}

// UpdateChart mutates metadata only. Category edits are rejected by the
// request shape itself: mappings key on category keys, so changing them
// under a live event would orphan every mapping.
func (s *service) UpdateChart(id uuid.UUID, req UpdateChartRequest) (*VenueChart, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	chart, err := s.repo.Update(id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("chart", id.String())
		}
		return nil, fmt.Errorf("failed to update chart: %w", err)
	}

	s.invalidateChartCache(id)
	return chart, nil
}

func (s *service) DeleteChart(id uuid.UUID) error {
	if _, err := s.GetChart(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete chart: %w", err)
	}
	s.invalidateChartCache(id)
	return nil
}

func (s *service) DuplicateChart(id uuid.UUID, userID uuid.UUID, newName string) (*VenueChart, error) {
	source, err := s.GetChart(id)
	if err != nil {
		return nil, err
	}
	if newName == "" {
		newName = source.Name + " (copy)"
	}

	copyChart := &VenueChart{
		Name:         newName,
		Description:  source.Description,
		VenueName:    source.VenueName,
		VenueAddress: source.VenueAddress,
		VenueCity:    source.VenueCity,
		VenueCountry: source.VenueCountry,
		Categories:   source.Categories,
		CreatedBy:    userID,
	}
	if err := s.repo.Create(copyChart); err != nil {
		return nil, fmt.Errorf("failed to duplicate chart: %w", err)
	}

	seats, err := s.repo.GetSeats(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read source seats: %w", err)
	}
	copies := make([]ChartSeat, len(seats))
	for i, seat := range seats {
		copies[i] = ChartSeat{
			ChartID:     copyChart.ID,
			Label:       seat.Label,
			CategoryKey: seat.CategoryKey,
		}
	}
	if err := s.repo.AddSeats(copies); err != nil {
		return nil, fmt.Errorf("failed to duplicate chart seats: %w", err)
	}

	return copyChart, nil
}

func (s *service) AddSeats(chartID uuid.UUID, reqs []AddSeatRequest) ([]ChartSeat, error) {
	if len(reqs) == 0 {
		return nil, apperrors.NewValidation("at least one seat is required")
	}

	chart, err := s.GetChart(chartID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetSeats(chartID)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart seats: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, seat := range existing {
		taken[seat.Label] = true
	}

	seats := make([]ChartSeat, 0, len(reqs))
	for _, req := range reqs {
		if !chart.HasCategory(req.CategoryKey) {
			return nil, apperrors.NewValidation("unknown category key", req.CategoryKey)
		}
		if taken[req.Label] {
			return nil, apperrors.NewValidation("seat label already exists on this chart", req.Label)
		}
		taken[req.Label] = true
		seats = append(seats, ChartSeat{
			ChartID:     chartID,
			Label:       req.Label,
			CategoryKey: req.CategoryKey,
		})
	}

	if err := s.repo.AddSeats(seats); err != nil {
		return nil, fmt.Errorf("failed to add chart seats: %w", err)
	}

	s.invalidateChartCache(chartID)
	return seats, nil
}

func (s *service) GetSeats(chartID uuid.UUID) ([]ChartSeat, error) {
	if _, err := s.GetChart(chartID); err != nil {
		return nil, err
	}
	seats, err := s.repo.GetSeats(chartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chart seats: %w", err)
	}
	return seats, nil
}

func (s *service) RemoveSeat(chartID uuid.UUID, label string) error {
	if err := s.repo.DeleteSeat(chartID, label); err != nil {
		return fmt.Errorf("failed to remove chart seat: %w", err)
	}
	s.invalidateChartCache(chartID)
	return nil
}
