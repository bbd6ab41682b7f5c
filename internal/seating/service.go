package seating

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boxoffice/internal/charts"
	"boxoffice/internal/events"
	"boxoffice/internal/seats"
	"boxoffice/internal/shared/apperrors"
	"boxoffice/internal/tickettypes"
	"boxoffice/pkg/logger"
)

// ChartDesignerClient is the external visual layout editor. The designer
// owns the session from StartDesign until the organizer saves; this core
// then re-fetches the chart for its finalized categories and seats.
type ChartDesignerClient interface {
	StartDesign(ctx context.Context, chartID uuid.UUID) (designURL string, err error)
}

// noopDesignerClient is used until a real designer integration is
// configured; the organizer designs through the embedded UI instead.
type noopDesignerClient struct{}

func NewNoopDesignerClient() ChartDesignerClient { return noopDesignerClient{} }

func (noopDesignerClient) StartDesign(ctx context.Context, chartID uuid.UUID) (string, error) {
	return "", nil
}

type Service interface {
	GetConfiguration(eventID uuid.UUID) (*ConfigurationResponse, error)

	// AssignChart binds an existing chart to the event and materializes
	// its seats. Switching charts drops all existing mappings.
	AssignChart(ctx context.Context, eventID uuid.UUID, req AssignChartRequest) (*ConfigurationResponse, error)

	// CreateChart starts the create->design path: chart metadata is
	// persisted (categories frozen), then control passes to the designer.
	CreateChart(ctx context.Context, eventID, userID uuid.UUID, req charts.CreateChartRequest) (*ConfigurationResponse, string, error)
	// FinishDesign is called when the designer hands back control; the
	// finalized chart is assigned to the event.
	FinishDesign(ctx context.Context, eventID uuid.UUID) (*ConfigurationResponse, error)

	MapCategory(eventID uuid.UUID, req MapCategoryRequest) (*ConfigurationResponse, error)

	// Finish moves to complete. Rejected with a validation error naming
	// every unmapped category if any remain.
	Finish(eventID uuid.UUID) (*ConfigurationResponse, error)

	// Reconfigure re-enters select_chart from complete. Mappings survive
	// until a different chart is actually assigned.
	Reconfigure(eventID uuid.UUID) (*ConfigurationResponse, error)

	// ResolveCategory implements the seat pricing lookup: mapped ticket
	// type plus price override if present.
	ResolveCategory(eventID uuid.UUID, categoryKey string) (string, int64, error)
}

type service struct {
	repo              Repository
	eventService      events.Service
	chartService      charts.Service
	seatService       seats.Service
	ticketTypeService tickettypes.Service
	designerClient    ChartDesignerClient
}

func NewService(repo Repository, eventService events.Service, chartService charts.Service, seatService seats.Service, ticketTypeService tickettypes.Service, designerClient ChartDesignerClient) Service {
	return &service{
		repo:              repo,
		eventService:      eventService,
		chartService:      chartService,
		seatService:       seatService,
		ticketTypeService: ticketTypeService,
		designerClient:    designerClient,
	}
}

// requireSeatedEvent gates every entry point: general admission events
// have no seating configuration at all.
func (s *service) requireSeatedEvent(eventID uuid.UUID) (*events.Event, error) {
	event, err := s.eventService.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsSeated() {
		return nil, apperrors.NewState("seating configuration requires a seated event", string(event.SeatingType))
	}
	return event, nil
}

func (s *service) buildResponse(config *SeatingConfiguration) (*ConfigurationResponse, error) {
	mappings, err := s.repo.GetMappings(config.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category mappings: %w", err)
	}

	resp := &ConfigurationResponse{
		EventID:  config.EventID.String(),
		State:    config.State,
		Mappings: mappings,
	}
	if config.ChartID != nil {
		resp.ChartID = config.ChartID.String()
		chart, err := s.chartService.GetChart(*config.ChartID)
		if err != nil {
			return nil, err
		}
		resp.Categories = chart.CategoryKeys()
		resp.Unmapped = unmappedCategories(chart, mappings)
	}
	return resp, nil
}

func unmappedCategories(chart *charts.VenueChart, mappings []CategoryMapping) []string {
	mapped := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		if m.ChartID == chart.ID {
			mapped[m.CategoryKey] = true
		}
	}
	var missing []string
	for _, key := range chart.CategoryKeys() {
		if !mapped[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func (s *service) GetConfiguration(eventID uuid.UUID) (*ConfigurationResponse, error) {
	if _, err := s.requireSeatedEvent(eventID); err != nil {
		return nil, err
	}
	config, err := s.repo.GetOrCreate(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seating configuration: %w", err)
	}
	return s.buildResponse(config)
}

func (s *service) AssignChart(ctx context.Context, eventID uuid.UUID, req AssignChartRequest) (*ConfigurationResponse, error) {
	if _, err := s.requireSeatedEvent(eventID); err != nil {
		return nil, err
	}

	chartID, err := uuid.Parse(req.ChartID)
	if err != nil {
		return nil, apperrors.NewValidation("invalid chart ID", "chart_id")
	}
	chart, err := s.chartService.GetChart(chartID)
	if err != nil {
		return nil, err
	}

	config, err := s.repo.GetOrCreate(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seating configuration: %w", err)
	}

	chartChanged := config.ChartID == nil || *config.ChartID != chartID

	// Picking a chart that already has a full mapping set jumps straight
	// to complete; otherwise mapping work remains.
	target := StateMapCategories
	if !chartChanged {
		mappings, err := s.repo.GetMappings(eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to load category mappings: %w", err)
		}
		if len(unmappedCategories(chart, mappings)) == 0 && len(mappings) > 0 {
			target = StateComplete
		}
	}
	if err := guardTransition(config.State, target); err != nil {
		return nil, err
	}

	// Materialize live seats first: if this fails nothing is persisted
	// and the configuration stays in its prior state.
	chartSeats, err := s.chartService.GetSeats(chartID)
	if err != nil {
		return nil, err
	}
	if len(chartSeats) == 0 {
		return nil, apperrors.NewValidation("chart has no seats", chartID.String())
	}
	if err := s.seatService.MaterializeFromChart(eventID, chartID, chartSeats); err != nil {
		return nil, err
	}

	config.ChartID = &chartID
	config.State = target
	if err := s.repo.AssignChartTx(config, chartChanged); err != nil {
		return nil, fmt.Errorf("failed to assign chart: %w", err)
	}

	return s.buildResponse(config)
}

func (s *service) CreateChart(ctx context.Context, eventID, userID uuid.UUID, req charts.CreateChartRequest) (*ConfigurationResponse, string, error) {
	if _, err := s.requireSeatedEvent(eventID); err != nil {
		return nil, "", err
	}

	config, err := s.repo.GetOrCreate(eventID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load seating configuration: %w", err)
	}
	if err := guardTransition(config.State, StateCreateChart); err != nil {
		return nil, "", err
	}

	// Categories freeze at creation time.
	chart, err := s.chartService.CreateChart(userID, req)
	if err != nil {
		return nil, "", err
	}

	designURL := ""
	if s.designerClient != nil {
		designURL, err = s.designerClient.StartDesign(ctx, chart.ID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to start chart designer: %w", err)
		}
	}

	config.ChartID = &chart.ID
	config.State = StateDesignChart
	if err := s.repo.Save(config); err != nil {
		return nil, "", fmt.Errorf("failed to save seating configuration: %w", err)
	}

	resp, err := s.buildResponse(config)
	if err != nil {
		return nil, "", err
	}
	return resp, designURL, nil
}

func (s *service) FinishDesign(ctx context.Context, eventID uuid.UUID) (*ConfigurationResponse, error) {
	if _, err := s.requireSeatedEvent(eventID); err != nil {
		return nil, err
	}

	config, err := s.repo.GetOrCreate(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seating configuration: %w", err)
	}
	if config.State != StateDesignChart || config.ChartID == nil {
		return nil, apperrors.NewState("no chart design in progress", string(config.State))
	}

	// Re-fetch the finalized chart and assign it.
	chartSeats, err := s.chartService.GetSeats(*config.ChartID)
	if err != nil {
		return nil, err
	}
	if len(chartSeats) == 0 {
		return nil, apperrors.NewValidation("designed chart has no seats", config.ChartID.String())
	}
	if err := s.seatService.MaterializeFromChart(eventID, *config.ChartID, chartSeats); err != nil {
		return nil, err
	}

	config.State = StateMapCategories
	if err := s.repo.Save(config); err != nil {
		return nil, fmt.Errorf("failed to save seating configuration: %w", err)
	}
	return s.buildResponse(config)
}

func (s *service) MapCategory(eventID uuid.UUID, req MapCategoryRequest) (*ConfigurationResponse, error) {
	if _, err := s.requireSeatedEvent(eventID); err != nil {
		return nil, err
	}

	config, err := s.repo.GetOrCreate(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seating configuration: %w", err)
	}
	if config.State != StateMapCategories && config.State != StateComplete {
		return nil, apperrors.NewState("no chart assigned to map categories against", string(config.State))
	}
	if config.ChartID == nil {
		return nil, apperrors.NewState("no chart assigned", string(config.State))
	}

	chart, err := s.chartService.GetChart(*config.ChartID)
	if err != nil {
		return nil, err
	}
	if !chart.HasCategory(req.CategoryKey) {
		return nil, apperrors.NewValidation("category does not exist on the assigned chart", req.CategoryKey)
	}

	ticketTypeID, err := uuid.Parse(req.TicketTypeID)
	if err != nil {
		return nil, apperrors.NewValidation("invalid ticket type ID", "ticket_type_id")
	}
	ticketType, err := s.ticketTypeService.GetTicketType(ticketTypeID)
	if err != nil {
		return nil, err
	}
	if ticketType.EventID != eventID {
		return nil, apperrors.NewValidation("ticket type does not belong to this event", req.TicketTypeID)
	}

	mapping := &CategoryMapping{
		EventID:            eventID,
		ChartID:            *config.ChartID,
		CategoryKey:        req.CategoryKey,
		TicketTypeID:       ticketTypeID,
		PriceOverrideMinor: req.PriceOverrideMinor,
	}
	if err := s.repo.UpsertMapping(mapping); err != nil {
		return nil, fmt.Errorf("failed to save category mapping: %w", err)
	}

	return s.buildResponse(config)
}

func (s *service) Finish(eventID uuid.UUID) (*ConfigurationResponse, error) {
	if _, err := s.requireSeatedEvent(eventID); err != nil {
		return nil, err
	}

	config, err := s.repo.GetOrCreate(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seating configuration: %w", err)
	}
	if err := guardTransition(config.State, StateComplete); err != nil {
		return nil, err
	}
	if config.ChartID == nil {
		return nil, apperrors.NewState("no chart assigned", string(config.State))
	}

	chart, err := s.chartService.GetChart(*config.ChartID)
	if err != nil {
		return nil, err
	}
	mappings, err := s.repo.GetMappings(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category mappings: %w", err)
	}
	if missing := unmappedCategories(chart, mappings); len(missing) > 0 {
		return nil, apperrors.NewValidation("categories are not mapped", missing...)
	}

	config.State = StateComplete
	if err := s.repo.Save(config); err != nil {
		return nil, fmt.Errorf("failed to save seating configuration: %w", err)
	}

	s.syncTicketTypeAvailability(eventID, mappings)

	return s.buildResponse(config)
}

// syncTicketTypeAvailability mirrors materialized seat counts into the
// mapped ticket types so listings show seated inventory.
func (s *service) syncTicketTypeAvailability(eventID uuid.UUID, mappings []CategoryMapping) {
	total, available, err := s.seatService.CategoryCounts(eventID)
	if err != nil {
		logger.GetDefault().WithError(err).Warn("failed to count seats for availability sync")
		return
	}

	totalByType := make(map[uuid.UUID]int)
	availableByType := make(map[uuid.UUID]int)
	for _, mapping := range mappings {
		totalByType[mapping.TicketTypeID] += total[mapping.CategoryKey]
		availableByType[mapping.TicketTypeID] += available[mapping.CategoryKey]
	}
	for ticketTypeID := range totalByType {
		if err := s.ticketTypeService.SyncSeatedAvailability(ticketTypeID, totalByType[ticketTypeID], availableByType[ticketTypeID]); err != nil {
			logger.GetDefault().WithError(err).Warn("failed to sync ticket type availability", "ticket_type_id", ticketTypeID.String())
		}
	}
}

func (s *service) Reconfigure(eventID uuid.UUID) (*ConfigurationResponse, error) {
	if _, err := s.requireSeatedEvent(eventID); err != nil {
		return nil, err
	}

	config, err := s.repo.GetOrCreate(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seating configuration: %w", err)
	}
	if err := guardTransition(config.State, StateSelectChart); err != nil {
		return nil, err
	}

	// Mappings stay in place; they are only dropped when a different
	// chart is actually assigned.
	config.State = StateSelectChart
	if err := s.repo.Save(config); err != nil {
		return nil, fmt.Errorf("failed to save seating configuration: %w", err)
	}
	return s.buildResponse(config)
}

func (s *service) ResolveCategory(eventID uuid.UUID, categoryKey string) (string, int64, error) {
	mapping, err := s.repo.GetMapping(eventID, categoryKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, apperrors.NewNotFound("category mapping", categoryKey)
		}
		return "", 0, fmt.Errorf("failed to resolve category mapping: %w", err)
	}

	if mapping.PriceOverrideMinor != nil {
		return mapping.TicketTypeID.String(), *mapping.PriceOverrideMinor, nil
	}

	ticketType, err := s.ticketTypeService.GetTicketType(mapping.TicketTypeID)
	if err != nil {
		return "", 0, err
	}
	return mapping.TicketTypeID.String(), ticketType.PriceMinor, nil
}
