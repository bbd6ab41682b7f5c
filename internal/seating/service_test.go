package seating

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"boxoffice/internal/charts"
	"boxoffice/internal/events"
	"boxoffice/internal/seats"
	"boxoffice/internal/shared/apperrors"
	"boxoffice/internal/tickettypes"
)

type fakeRepo struct {
	Repository
	config   *SeatingConfiguration
	mappings map[string]*CategoryMapping
}

func newFakeRepo(eventID uuid.UUID, state State, chartID *uuid.UUID) *fakeRepo {
	return &fakeRepo{
		config:   &SeatingConfiguration{ID: uuid.New(), EventID: eventID, ChartID: chartID, State: state},
		mappings: make(map[string]*CategoryMapping),
	}
}

func (f *fakeRepo) GetOrCreate(eventID uuid.UUID) (*SeatingConfiguration, error) {
	return f.config, nil
}

func (f *fakeRepo) Save(config *SeatingConfiguration) error {
	f.config = config
	return nil
}

func (f *fakeRepo) UpsertMapping(mapping *CategoryMapping) error {
	f.mappings[mapping.CategoryKey] = mapping
	return nil
}

func (f *fakeRepo) GetMappings(eventID uuid.UUID) ([]CategoryMapping, error) {
	out := make([]CategoryMapping, 0, len(f.mappings))
	for _, m := range f.mappings {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeRepo) GetMapping(eventID uuid.UUID, categoryKey string) (*CategoryMapping, error) {
	m, ok := f.mappings[categoryKey]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeRepo) AssignChartTx(config *SeatingConfiguration, chartChanged bool) error {
	if chartChanged {
		f.mappings = make(map[string]*CategoryMapping)
	}
	f.config = config
	return nil
}

type fakeEventService struct {
	events.Service
	event *events.Event
}

func (f *fakeEventService) GetEvent(id uuid.UUID) (*events.Event, error) {
	return f.event, nil
}

type fakeChartService struct {
	charts.Service
	chart *charts.VenueChart
	seats []charts.ChartSeat
}

func (f *fakeChartService) GetChart(id uuid.UUID) (*charts.VenueChart, error) {
	return f.chart, nil
}

func (f *fakeChartService) GetSeats(chartID uuid.UUID) ([]charts.ChartSeat, error) {
	return f.seats, nil
}

type fakeSeatService struct {
	seats.Service
	materialized bool
	total        map[string]int
	available    map[string]int
}

func (f *fakeSeatService) MaterializeFromChart(eventID, chartID uuid.UUID, chartSeats []charts.ChartSeat) error {
	f.materialized = true
	return nil
}

func (f *fakeSeatService) CategoryCounts(eventID uuid.UUID) (map[string]int, map[string]int, error) {
	return f.total, f.available, nil
}

type fakeTicketTypeService struct {
	tickettypes.Service
	ticketTypes map[uuid.UUID]*tickettypes.TicketType
	synced      map[uuid.UUID][2]int
}

func (f *fakeTicketTypeService) GetTicketType(id uuid.UUID) (*tickettypes.TicketType, error) {
	tt, ok := f.ticketTypes[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket type", id.String())
	}
	return tt, nil
}

func (f *fakeTicketTypeService) SyncSeatedAvailability(id uuid.UUID, capacity, available int) error {
	if f.synced == nil {
		f.synced = make(map[uuid.UUID][2]int)
	}
	f.synced[id] = [2]int{capacity, available}
	return nil
}

type testFixture struct {
	eventID      uuid.UUID
	chartID      uuid.UUID
	vipTypeID    uuid.UUID
	stdTypeID    uuid.UUID
	repo         *fakeRepo
	seatService  *fakeSeatService
	ticketTypes  *fakeTicketTypeService
	chartService *fakeChartService
	service      Service
}

func newFixture(t *testing.T, seatingType events.SeatingType, state State, withChart bool) *testFixture {
	t.Helper()

	f := &testFixture{
		eventID:   uuid.New(),
		chartID:   uuid.New(),
		vipTypeID: uuid.New(),
		stdTypeID: uuid.New(),
	}

	var chartID *uuid.UUID
	if withChart {
		chartID = &f.chartID
	}
	f.repo = newFakeRepo(f.eventID, state, chartID)

	eventService := &fakeEventService{event: &events.Event{
		ID:          f.eventID,
		SeatingType: seatingType,
	}}
	f.chartService = &fakeChartService{
		chart: &charts.VenueChart{
			ID:   f.chartID,
			Name: "Main Hall",
			Categories: []charts.Category{
				{Key: "vip", Label: "VIP"},
				{Key: "standard", Label: "Standard"},
			},
		},
		seats: []charts.ChartSeat{
			{ChartID: f.chartID, Label: "A-1", CategoryKey: "vip"},
			{ChartID: f.chartID, Label: "B-1", CategoryKey: "standard"},
			{ChartID: f.chartID, Label: "B-2", CategoryKey: "standard"},
		},
	}
	f.seatService = &fakeSeatService{
		total:     map[string]int{"vip": 1, "standard": 2},
		available: map[string]int{"vip": 1, "standard": 2},
	}
	f.ticketTypes = &fakeTicketTypeService{ticketTypes: map[uuid.UUID]*tickettypes.TicketType{
		f.vipTypeID: {ID: f.vipTypeID, EventID: f.eventID, Name: "VIP", PriceMinor: 15000},
		f.stdTypeID: {ID: f.stdTypeID, EventID: f.eventID, Name: "Standard", PriceMinor: 5000},
	}}

	f.service = NewService(f.repo, eventService, f.chartService, f.seatService, f.ticketTypes, nil)
	return f
}

func (f *testFixture) mapCategory(key string, ticketTypeID uuid.UUID, override *int64) {
	f.repo.mappings[key] = &CategoryMapping{
		EventID:            f.eventID,
		ChartID:            f.chartID,
		CategoryKey:        key,
		TicketTypeID:       ticketTypeID,
		PriceOverrideMinor: override,
	}
}

func TestGeneralAdmissionEventHasNoSeatingConfiguration(t *testing.T) {
	f := newFixture(t, events.SeatingGeneralAdmission, StateSelectChart, false)

	_, err := f.service.GetConfiguration(f.eventID)
	assert.True(t, apperrors.IsState(err))

	_, err = f.service.Finish(f.eventID)
	assert.True(t, apperrors.IsState(err))
}

func TestAssignChartMaterializesSeatsAndMovesToMapping(t *testing.T) {
	f := newFixture(t, events.SeatingSeated, StateSelectChart, false)

	config, err := f.service.AssignChart(context.Background(), f.eventID, AssignChartRequest{ChartID: f.chartID.String()})
	require.NoError(t, err)

	assert.True(t, f.seatService.materialized)
	assert.Equal(t, StateMapCategories, config.State)
	assert.Equal(t, []string{"standard", "vip"}, config.Unmapped)
}

func TestAssignDifferentChartDropsMappings(t *testing.T) {
	f := newFixture(t, events.SeatingSeated, StateComplete, true)
	f.mapCategory("vip", f.vipTypeID, nil)
	f.mapCategory("standard", f.stdTypeID, nil)

	// Reopen, then assign a different chart.
	_, err := f.service.Reconfigure(f.eventID)
	require.NoError(t, err)

	newChartID := uuid.New()
	f.chartService.chart.ID = newChartID

	config, err := f.service.AssignChart(context.Background(), f.eventID, AssignChartRequest{ChartID: newChartID.String()})
	require.NoError(t, err)

	assert.Equal(t, StateMapCategories, config.State)
	assert.Empty(t, config.Mappings)
}

func TestFinishRejectedWhileCategoriesUnmapped(t *testing.T) {
	f := newFixture(t, events.SeatingSeated, StateMapCategories, true)
	f.mapCategory("vip", f.vipTypeID, nil)

	_, err := f.service.Finish(f.eventID)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "standard")
	assert.Equal(t, StateMapCategories, f.repo.config.State)
}

func TestFinishSyncsTicketTypeAvailability(t *testing.T) {
	f := newFixture(t, events.SeatingSeated, StateMapCategories, true)
	f.mapCategory("vip", f.vipTypeID, nil)
	f.mapCategory("standard", f.stdTypeID, nil)

	config, err := f.service.Finish(f.eventID)
	require.NoError(t, err)

	assert.Equal(t, StateComplete, config.State)
	assert.Equal(t, [2]int{1, 1}, f.ticketTypes.synced[f.vipTypeID])
	assert.Equal(t, [2]int{2, 2}, f.ticketTypes.synced[f.stdTypeID])
}

func TestMapCategoryRejectsUnknownCategoryAndForeignTicketType(t *testing.T) {
	f := newFixture(t, events.SeatingSeated, StateMapCategories, true)

	_, err := f.service.MapCategory(f.eventID, MapCategoryRequest{
		CategoryKey:  "balcony",
		TicketTypeID: f.vipTypeID.String(),
	})
	assert.True(t, apperrors.IsValidation(err))

	foreign := uuid.New()
	f.ticketTypes.ticketTypes[foreign] = &tickettypes.TicketType{ID: foreign, EventID: uuid.New(), PriceMinor: 100}
	_, err = f.service.MapCategory(f.eventID, MapCategoryRequest{
		CategoryKey:  "vip",
		TicketTypeID: foreign.String(),
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestResolveCategoryPrefersPriceOverride(t *testing.T) {
	f := newFixture(t, events.SeatingSeated, StateComplete, true)
	override := int64(12000)
	f.mapCategory("vip", f.vipTypeID, &override)
	f.mapCategory("standard", f.stdTypeID, nil)

	ttID, price, err := f.service.ResolveCategory(f.eventID, "vip")
	require.NoError(t, err)
	assert.Equal(t, f.vipTypeID.String(), ttID)
	assert.Equal(t, int64(12000), price)

	ttID, price, err = f.service.ResolveCategory(f.eventID, "standard")
	require.NoError(t, err)
	assert.Equal(t, f.stdTypeID.String(), ttID)
	assert.Equal(t, int64(5000), price)

	_, _, err = f.service.ResolveCategory(f.eventID, "balcony")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReconfigureKeepsMappingsUntilChartChanges(t *testing.T) {
	f := newFixture(t, events.SeatingSeated, StateComplete, true)
	f.mapCategory("vip", f.vipTypeID, nil)
	f.mapCategory("standard", f.stdTypeID, nil)

	config, err := f.service.Reconfigure(f.eventID)
	require.NoError(t, err)
	assert.Equal(t, StateSelectChart, config.State)
	assert.Len(t, config.Mappings, 2)

	// Re-assigning the same fully-mapped chart jumps straight back to
	// complete.
	config, err = f.service.AssignChart(context.Background(), f.eventID, AssignChartRequest{ChartID: f.chartID.String()})
	require.NoError(t, err)
	assert.Equal(t, StateComplete, config.State)
	assert.Len(t, config.Mappings, 2)
}
