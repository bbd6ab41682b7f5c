package pricing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/events"
	"boxoffice/internal/money"
	"boxoffice/internal/shared/constants"
	"boxoffice/pkg/cache"
)

// fakeCache round-trips values through JSON the way the Redis-backed
// service does, so cart persistence behaves like production.
type fakeCache struct {
	cache.Service
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	b, ok := f.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

type fakeEventService struct {
	events.Service
	event   *events.Event
	charges []money.ServiceCharge
}

func (f *fakeEventService) GetEvent(id uuid.UUID) (*events.Event, error) {
	return f.event, nil
}

func (f *fakeEventService) GetServiceCharges(eventID uuid.UUID) ([]money.ServiceCharge, error) {
	return f.charges, nil
}

type fakeSeatPriceSource struct {
	ticketTypeID string
	prices       map[string]int64
}

func (f *fakeSeatPriceSource) ResolveCategory(eventID uuid.UUID, categoryKey string) (string, int64, error) {
	return f.ticketTypeID, f.prices[categoryKey], nil
}

func seatedCartFixture(t *testing.T, cacheSvc *fakeCache, eventID uuid.UUID, ticketTypeID string, priceMinor int64) string {
	t.Helper()
	const sessionID = "sess-1"
	cart := &CartSession{
		SessionID: sessionID,
		EventID:   eventID.String(),
		Seats: []SeatSelection{
			{Label: "A1", CategoryKey: "vip", TicketTypeID: ticketTypeID, PriceMinor: priceMinor},
			{Label: "A2", CategoryKey: "vip", TicketTypeID: ticketTypeID, PriceMinor: priceMinor},
		},
	}
	require.NoError(t, cacheSvc.Set(context.Background(), constants.BuildCartKey(sessionID), cart, 0))
	return sessionID
}

func TestPriceResolvesSeatPricesFromCurrentMappings(t *testing.T) {
	eventID := uuid.New()
	ticketTypeID := uuid.New().String()
	cacheSvc := newFakeCache()
	// Seats were selected when the category priced at 5000; the mapping
	// has since been edited to 12000.
	sessionID := seatedCartFixture(t, cacheSvc, eventID, ticketTypeID, 5000)

	eventService := &fakeEventService{event: &events.Event{ID: eventID, SeatingType: events.SeatingSeated, Currency: "GBP"}}
	svc := NewService(cacheSvc, eventService, nil, nil)
	svc.SetSeatPriceSource(&fakeSeatPriceSource{
		ticketTypeID: ticketTypeID,
		prices:       map[string]int64{"vip": 12000},
	})

	breakdown, err := svc.Price(context.Background(), sessionID)

	require.NoError(t, err)
	assert.Equal(t, int64(24000), breakdown.Subtotal.Amount, "repricing follows the current category mapping, not the selection-time snapshot")
	assert.Equal(t, int64(24000), breakdown.Total.Amount)
	assert.Equal(t, 2, breakdown.TicketCount)
}

func TestPriceFallsBackToSnapshotWithoutSeatPriceSource(t *testing.T) {
	eventID := uuid.New()
	ticketTypeID := uuid.New().String()
	cacheSvc := newFakeCache()
	sessionID := seatedCartFixture(t, cacheSvc, eventID, ticketTypeID, 5000)

	eventService := &fakeEventService{event: &events.Event{ID: eventID, SeatingType: events.SeatingSeated, Currency: "GBP"}}
	svc := NewService(cacheSvc, eventService, nil, nil)

	breakdown, err := svc.Price(context.Background(), sessionID)

	require.NoError(t, err)
	assert.Equal(t, int64(10000), breakdown.Subtotal.Amount)
}
