package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/money"
	"boxoffice/internal/notifications"
	"boxoffice/internal/pricing"
	"boxoffice/internal/promos"
	"boxoffice/internal/seats"
	"boxoffice/internal/shared/apperrors"
	"boxoffice/internal/tickettypes"
)

type fakeCartService struct {
	pricing.Service
	cart      *pricing.CartSession
	breakdown *pricing.PriceBreakdown
	cleared   bool
}

func (f *fakeCartService) GetCart(ctx context.Context, sessionID string) (*pricing.CartSession, error) {
	return f.cart, nil
}

func (f *fakeCartService) Price(ctx context.Context, sessionID string) (*pricing.PriceBreakdown, error) {
	return f.breakdown, nil
}

func (f *fakeCartService) ClearCart(ctx context.Context, sessionID string) error {
	f.cleared = true
	return nil
}

type fakePromoService struct {
	promos.Service
	redeemErr  error
	redeemed   int
	unredeemed int
}

func (f *fakePromoService) Redeem(code string) error {
	if f.redeemErr != nil {
		return f.redeemErr
	}
	f.redeemed++
	return nil
}

func (f *fakePromoService) Unredeem(code string) error {
	f.unredeemed++
	return nil
}

type fakeSeatService struct {
	seats.Service
	commitErr   error
	committed   []string
	uncommitted []string
}

func (f *fakeSeatService) CommitSeats(ctx context.Context, eventID uuid.UUID, sessionID string, labels []string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = labels
	return nil
}

func (f *fakeSeatService) UncommitSeats(ctx context.Context, eventID uuid.UUID, sessionID string, labels []string) error {
	f.uncommitted = labels
	return nil
}

type fakeTicketTypeService struct {
	tickettypes.Service
	soldOut  map[uuid.UUID]bool
	reserved map[uuid.UUID]int
	released map[uuid.UUID]int
}

func newFakeTicketTypeService() *fakeTicketTypeService {
	return &fakeTicketTypeService{
		soldOut:  make(map[uuid.UUID]bool),
		reserved: make(map[uuid.UUID]int),
		released: make(map[uuid.UUID]int),
	}
}

func (f *fakeTicketTypeService) ReserveInventory(id uuid.UUID, quantity int) error {
	if f.soldOut[id] {
		return apperrors.NewConflict(apperrors.CodeSoldOut, "not enough tickets remaining", id.String())
	}
	f.reserved[id] += quantity
	return nil
}

func (f *fakeTicketTypeService) ReleaseInventory(id uuid.UUID, quantity int) error {
	f.released[id] += quantity
	return nil
}

type fakePayment struct {
	chargeErr error
	charged   int64
	refunded  []string
}

func (f *fakePayment) Charge(ctx context.Context, token string, amountMinor int64, currency string) (string, error) {
	if f.chargeErr != nil {
		return "", f.chargeErr
	}
	f.charged = amountMinor
	return "pay-ref-1", nil
}

func (f *fakePayment) Refund(ctx context.Context, paymentRef string) error {
	f.refunded = append(f.refunded, paymentRef)
	return nil
}

type fakeRepo struct {
	Repository
	createErr error
	created   *Order
}

func (f *fakeRepo) Create(order *Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	order.ID = uuid.New()
	f.created = order
	return nil
}

type checkoutFixture struct {
	eventID     uuid.UUID
	ttID        uuid.UUID
	cart        *fakeCartService
	promoSvc    *fakePromoService
	seatSvc     *fakeSeatService
	ticketTypes *fakeTicketTypeService
	payment     *fakePayment
	repo        *fakeRepo
	service     Service
}

func newCheckoutFixture(seated bool, promoCode string) *checkoutFixture {
	f := &checkoutFixture{
		eventID:     uuid.New(),
		ttID:        uuid.New(),
		promoSvc:    &fakePromoService{},
		seatSvc:     &fakeSeatService{},
		ticketTypes: newFakeTicketTypeService(),
		payment:     &fakePayment{},
		repo:        &fakeRepo{},
	}

	cart := &pricing.CartSession{SessionID: "sess-1", EventID: f.eventID.String(), PromoCode: promoCode}
	if seated {
		cart.Seats = []pricing.SeatSelection{
			{Label: "A-1", CategoryKey: "vip", TicketTypeID: f.ttID.String(), PriceMinor: 15000},
			{Label: "A-2", CategoryKey: "vip", TicketTypeID: f.ttID.String(), PriceMinor: 15000},
		}
	} else {
		cart.Items = []pricing.CartItem{
			{TicketTypeID: f.ttID.String(), TicketTypeName: "General", Quantity: 2, UnitPriceMinor: 5000},
		}
	}

	subtotal := int64(10000)
	if seated {
		subtotal = 30000
	}
	f.cart = &fakeCartService{
		cart: cart,
		breakdown: &pricing.PriceBreakdown{
			Currency:           "GBP",
			Subtotal:           money.New(subtotal, "GBP"),
			Discount:           money.Zero("GBP"),
			DiscountedSubtotal: money.New(subtotal, "GBP"),
			Tax:                money.Zero("GBP"),
			Total:              money.New(subtotal, "GBP"),
			PromoCode:          promoCode,
			TicketCount:        2,
		},
	}

	f.service = NewService(f.repo, f.cart, f.promoSvc, f.seatSvc, f.ticketTypes, f.payment, notifications.NewNoopProducer())
	return f
}

func TestCheckoutGeneralAdmissionConfirmsOrder(t *testing.T) {
	f := newCheckoutFixture(false, "")

	order, err := f.service.Checkout(context.Background(), "sess-1", nil, CheckoutRequest{PaymentToken: "tok"})
	require.NoError(t, err)

	assert.Equal(t, OrderConfirmed, order.Status)
	assert.Equal(t, int64(10000), order.TotalMinor)
	assert.Equal(t, int64(10000), f.payment.charged)
	assert.Equal(t, 2, f.ticketTypes.reserved[f.ttID])
	assert.Len(t, order.Items, 1)
	assert.True(t, f.cart.cleared)
	assert.Empty(t, f.payment.refunded)
}

func TestCheckoutSeatedCommitsSeatLabels(t *testing.T) {
	f := newCheckoutFixture(true, "")

	order, err := f.service.Checkout(context.Background(), "sess-1", nil, CheckoutRequest{PaymentToken: "tok"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A-1", "A-2"}, f.seatSvc.committed)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "A-1", order.Items[0].SeatLabel)
	assert.Equal(t, int64(30000), order.TotalMinor)
}

func TestCheckoutRejectsStaleExpectedTotal(t *testing.T) {
	f := newCheckoutFixture(false, "")

	stale := int64(9000)
	_, err := f.service.Checkout(context.Background(), "sess-1", nil, CheckoutRequest{
		PaymentToken:       "tok",
		ExpectedTotalMinor: &stale,
	})
	assert.True(t, apperrors.IsConflict(err, apperrors.CodePriceChanged))
	assert.Zero(t, f.payment.charged)
}

func TestCheckoutRefundsWhenPromoExhausted(t *testing.T) {
	f := newCheckoutFixture(false, "SAVE10")
	f.promoSvc.redeemErr = apperrors.NewConflict(apperrors.CodeUsageExceeded, "promo code has reached its usage limit")

	_, err := f.service.Checkout(context.Background(), "sess-1", nil, CheckoutRequest{PaymentToken: "tok"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err, apperrors.CodeUsageExceeded))

	assert.Equal(t, []string{"pay-ref-1"}, f.payment.refunded)
	assert.Zero(t, f.ticketTypes.reserved[f.ttID])
	assert.Nil(t, f.repo.created)
	assert.False(t, f.cart.cleared)
}

func TestCheckoutUnwindsPromoAndPaymentWhenSeatsLost(t *testing.T) {
	f := newCheckoutFixture(true, "SAVE10")
	f.seatSvc.commitErr = apperrors.NewConflict(apperrors.CodeSeatNoLongerAvailable, "seats are no longer available", "A-1")

	_, err := f.service.Checkout(context.Background(), "sess-1", nil, CheckoutRequest{PaymentToken: "tok"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err, apperrors.CodeSeatNoLongerAvailable))

	assert.Equal(t, 1, f.promoSvc.redeemed)
	assert.Equal(t, 1, f.promoSvc.unredeemed)
	assert.Equal(t, []string{"pay-ref-1"}, f.payment.refunded)
	assert.Nil(t, f.repo.created)
}

func TestCheckoutSoldOutReleasesNothingAndRefunds(t *testing.T) {
	f := newCheckoutFixture(false, "")
	f.ticketTypes.soldOut[f.ttID] = true

	_, err := f.service.Checkout(context.Background(), "sess-1", nil, CheckoutRequest{PaymentToken: "tok"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err, apperrors.CodeSoldOut))
	assert.Equal(t, []string{"pay-ref-1"}, f.payment.refunded)
}

func TestCheckoutCompensatesWhenPersistFails(t *testing.T) {
	f := newCheckoutFixture(true, "")
	f.repo.createErr = assert.AnError

	_, err := f.service.Checkout(context.Background(), "sess-1", nil, CheckoutRequest{PaymentToken: "tok"})
	require.Error(t, err)

	assert.Equal(t, []string{"A-1", "A-2"}, f.seatSvc.uncommitted)
	assert.Equal(t, []string{"pay-ref-1"}, f.payment.refunded)
}

func TestCheckoutCorruptedSeatTicketTypeFailsValidation(t *testing.T) {
	f := newCheckoutFixture(true, "")
	f.cart.cart.Seats[1].TicketTypeID = "not-a-uuid"

	var order *Order
	var err error
	assert.NotPanics(t, func() {
		order, err = f.service.Checkout(context.Background(), "sess-1", nil, CheckoutRequest{PaymentToken: "tok"})
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Nil(t, order)
	// The charge and seat commit happened before the bad ID surfaced; both
	// must be unwound.
	assert.Equal(t, []string{"A-1", "A-2"}, f.seatSvc.uncommitted)
	assert.Equal(t, []string{"pay-ref-1"}, f.payment.refunded)
	assert.Nil(t, f.repo.created)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	f := newCheckoutFixture(false, "")
	f.cart.cart = &pricing.CartSession{SessionID: "sess-1", EventID: f.eventID.String()}

	_, err := f.service.Checkout(context.Background(), "sess-1", nil, CheckoutRequest{PaymentToken: "tok"})
	assert.True(t, apperrors.IsValidation(err))
}
