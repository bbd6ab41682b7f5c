package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boxoffice/internal/notifications"
	"boxoffice/internal/pricing"
	"boxoffice/internal/promos"
	"boxoffice/internal/seats"
	"boxoffice/internal/shared/apperrors"
	"boxoffice/internal/tickettypes"
	"boxoffice/pkg/logger"
)

type Service interface {
	// Checkout finalizes the session cart: authoritative reprice, payment
	// charge, promo redemption, inventory commit, order persistence. Any
	// failure after the charge refunds and unwinds what already happened.
	Checkout(ctx context.Context, sessionID string, userID *uuid.UUID, req CheckoutRequest) (*Order, error)

	GetOrder(id uuid.UUID) (*Order, error)
	GetSessionOrders(sessionID string) ([]Order, error)
	GetEventOrders(eventID uuid.UUID) ([]Order, error)
}

type service struct {
	repo              Repository
	cartService       pricing.Service
	promoService      promos.Service
	seatService       seats.Service
	ticketTypeService tickettypes.Service
	payment           PaymentClient
	producer          notifications.Producer
}

func NewService(repo Repository, cartService pricing.Service, promoService promos.Service, seatService seats.Service, ticketTypeService tickettypes.Service, payment PaymentClient, producer notifications.Producer) Service {
	return &service{
		repo:              repo,
		cartService:       cartService,
		promoService:      promoService,
		seatService:       seatService,
		ticketTypeService: ticketTypeService,
		payment:           payment,
		producer:          producer,
	}
}

func (s *service) Checkout(ctx context.Context, sessionID string, userID *uuid.UUID, req CheckoutRequest) (*Order, error) {
	cart, err := s.cartService.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.NewValidation("cart is empty")
	}
	eventID, err := uuid.Parse(cart.EventID)
	if err != nil {
		return nil, apperrors.NewValidation("cart has no event", "event_id")
	}

	// The breakdown the shopper saw is advisory; this one is the contract.
	breakdown, err := s.cartService.Price(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if req.ExpectedTotalMinor != nil && *req.ExpectedTotalMinor != breakdown.Total.Amount {
		return nil, apperrors.NewConflict(apperrors.CodePriceChanged,
			fmt.Sprintf("total changed from %d to %d, re-price the cart", *req.ExpectedTotalMinor, breakdown.Total.Amount))
	}

	paymentRef, err := s.payment.Charge(ctx, req.PaymentToken, breakdown.Total.Amount, breakdown.Currency)
	if err != nil {
		return nil, fmt.Errorf("payment failed: %w", err)
	}

	// Promo usage is consumed here, not at validation. Losing the race to
	// the last use fails the whole checkout.
	if breakdown.PromoCode != "" {
		if err := s.promoService.Redeem(breakdown.PromoCode); err != nil {
			s.refund(ctx, paymentRef)
			return nil, err
		}
	}

	if err := s.commitInventory(ctx, eventID, sessionID, cart); err != nil {
		s.unredeem(breakdown.PromoCode)
		s.refund(ctx, paymentRef)
		return nil, err
	}

	order, err := s.buildOrder(eventID, sessionID, userID, cart, breakdown, paymentRef)
	if err != nil {
		s.uncommitInventory(ctx, eventID, sessionID, cart)
		s.unredeem(breakdown.PromoCode)
		s.refund(ctx, paymentRef)
		return nil, err
	}
	if err := s.repo.Create(order); err != nil {
		s.uncommitInventory(ctx, eventID, sessionID, cart)
		s.unredeem(breakdown.PromoCode)
		s.refund(ctx, paymentRef)
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if err := s.cartService.ClearCart(ctx, sessionID); err != nil {
		logger.GetDefault().WithError(err).Warn("failed to clear cart after checkout", "session_id", sessionID)
	}

	s.publishConfirmed(ctx, order)
	if order.PromoCode != "" {
		logger.GetDefault().LogPromoRedeemed(ctx, order.PromoCode, order.ID.String())
	}
	logger.GetDefault().LogOrderConfirmed(ctx, order.ID.String(), order.EventID.String(), sessionID, order.TotalMinor)

	return order, nil
}

// commitInventory performs the authoritative inventory transition: booked
// seats for seated carts, counted reservations for general admission.
func (s *service) commitInventory(ctx context.Context, eventID uuid.UUID, sessionID string, cart *pricing.CartSession) error {
	if cart.IsSeated() {
		return s.seatService.CommitSeats(ctx, eventID, sessionID, seatLabels(cart))
	}

	reserved := make([]pricing.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		ttID, err := uuid.Parse(item.TicketTypeID)
		if err != nil {
			err = apperrors.NewValidation("invalid ticket type ID", item.TicketTypeID)
			s.releaseItems(reserved)
			return err
		}
		if err := s.ticketTypeService.ReserveInventory(ttID, item.Quantity); err != nil {
			s.releaseItems(reserved)
			return err
		}
		reserved = append(reserved, item)
	}
	return nil
}

func (s *service) uncommitInventory(ctx context.Context, eventID uuid.UUID, sessionID string, cart *pricing.CartSession) {
	if cart.IsSeated() {
		if err := s.seatService.UncommitSeats(ctx, eventID, sessionID, seatLabels(cart)); err != nil {
			logger.GetDefault().WithError(err).Error("failed to uncommit seats", "event_id", eventID.String())
		}
		return
	}
	s.releaseItems(cart.Items)
}

func (s *service) releaseItems(items []pricing.CartItem) {
	for _, item := range items {
		ttID, err := uuid.Parse(item.TicketTypeID)
		if err != nil {
			continue
		}
		if err := s.ticketTypeService.ReleaseInventory(ttID, item.Quantity); err != nil {
			logger.GetDefault().WithError(err).Error("failed to release inventory", "ticket_type_id", item.TicketTypeID)
		}
	}
}

func (s *service) unredeem(code string) {
	if code == "" {
		return
	}
	if err := s.promoService.Unredeem(code); err != nil {
		logger.GetDefault().WithError(err).Error("failed to return promo use", "code", code)
	}
}

func (s *service) refund(ctx context.Context, paymentRef string) {
	if err := s.payment.Refund(ctx, paymentRef); err != nil {
		logger.GetDefault().WithError(err).Error("failed to refund payment", "payment_ref", paymentRef)
	}
}

// buildOrder materializes the order rows from the cart. Ticket type IDs
// come out of the session store, so a corrupted cart fails validation
// here instead of panicking.
func (s *service) buildOrder(eventID uuid.UUID, sessionID string, userID *uuid.UUID, cart *pricing.CartSession, breakdown *pricing.PriceBreakdown, paymentRef string) (*Order, error) {
	var feesMinor int64
	for _, fee := range breakdown.Fees {
		feesMinor += fee.Amount.Amount
	}

	order := &Order{
		EventID:       eventID,
		SessionID:     sessionID,
		UserID:        userID,
		Status:        OrderConfirmed,
		Currency:      breakdown.Currency,
		SubtotalMinor: breakdown.Subtotal.Amount,
		DiscountMinor: breakdown.Discount.Amount,
		FeesMinor:     feesMinor,
		TaxMinor:      breakdown.Tax.Amount,
		TotalMinor:    breakdown.Total.Amount,
		PromoCode:     breakdown.PromoCode,
		PaymentRef:    paymentRef,
	}

	for _, item := range cart.Items {
		ttID, err := uuid.Parse(item.TicketTypeID)
		if err != nil {
			return nil, apperrors.NewValidation("invalid ticket type ID", item.TicketTypeID)
		}
		order.Items = append(order.Items, OrderItem{
			TicketTypeID:   ttID,
			TicketTypeName: item.TicketTypeName,
			Quantity:       item.Quantity,
			UnitPriceMinor: item.UnitPriceMinor,
		})
	}
	for _, seat := range cart.Seats {
		ttID, err := uuid.Parse(seat.TicketTypeID)
		if err != nil {
			return nil, apperrors.NewValidation("invalid ticket type ID", seat.TicketTypeID)
		}
		order.Items = append(order.Items, OrderItem{
			TicketTypeID:   ttID,
			SeatLabel:      seat.Label,
			Quantity:       1,
			UnitPriceMinor: seat.PriceMinor,
		})
	}
	return order, nil
}

func (s *service) publishConfirmed(ctx context.Context, order *Order) {
	event := notifications.NewDomainEvent(notifications.EventOrderConfirmed, order.EventID.String(), map[string]interface{}{
		"order_id":    order.ID.String(),
		"session_id":  order.SessionID,
		"total_minor": order.TotalMinor,
		"currency":    order.Currency,
		"items":       len(order.Items),
	})
	if err := s.producer.Publish(ctx, event); err != nil {
		logger.GetDefault().WithError(err).Warn("failed to publish order confirmation", "order_id", order.ID.String())
	}
}

func seatLabels(cart *pricing.CartSession) []string {
	labels := make([]string, len(cart.Seats))
	for i, seat := range cart.Seats {
		labels[i] = seat.Label
	}
	return labels
}

func (s *service) GetOrder(id uuid.UUID) (*Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order", id.String())
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *service) GetSessionOrders(sessionID string) ([]Order, error) {
	orders, err := s.repo.GetBySession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session orders: %w", err)
	}
	return orders, nil
}

func (s *service) GetEventOrders(eventID uuid.UUID) ([]Order, error) {
	orders, err := s.repo.GetByEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event orders: %w", err)
	}
	return orders, nil
}
