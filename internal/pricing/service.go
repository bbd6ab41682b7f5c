package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"boxoffice/internal/events"
	"boxoffice/internal/money"
	"boxoffice/internal/promos"
	"boxoffice/internal/shared/apperrors"
	"boxoffice/internal/shared/constants"
	"boxoffice/internal/tickettypes"
	"boxoffice/pkg/cache"
)

// SeatPriceSource resolves a seat category to its current ticket type and
// effective price. Implemented by the seating service; injected via setter
// because seat selection already depends on this package.
type SeatPriceSource interface {
	ResolveCategory(eventID uuid.UUID, categoryKey string) (ticketTypeID string, priceMinor int64, err error)
}

type Service interface {
	SetSeatPriceSource(source SeatPriceSource)

	GetCart(ctx context.Context, sessionID string) (*CartSession, error)
	UpdateItems(ctx context.Context, sessionID string, req UpdateCartRequest) (*CartSession, error)
	SetSeats(ctx context.Context, sessionID, eventID string, seats []SeatSelection) (*CartSession, error)
	ApplyPromo(ctx context.Context, sessionID, code string) (*CartSession, error)
	ClearPromo(ctx context.Context, sessionID string) (*CartSession, error)
	ClearCart(ctx context.Context, sessionID string) error

	// Price reprices the session cart from authoritative state: current
	// ticket type prices, current promo eligibility, current fee and tax
	// configuration. Pure given that state; no inventory is touched.
	Price(ctx context.Context, sessionID string) (*PriceBreakdown, error)
}

type service struct {
	cacheService      cache.Service
	eventService      events.Service
	ticketTypeService tickettypes.Service
	promoService      promos.Service
	seatPriceSource   SeatPriceSource
}

func NewService(cacheService cache.Service, eventService events.Service, ticketTypeService tickettypes.Service, promoService promos.Service) Service {
	return &service{
		cacheService:      cacheService,
		eventService:      eventService,
		ticketTypeService: ticketTypeService,
		promoService:      promoService,
	}
}

func (s *service) SetSeatPriceSource(source SeatPriceSource) {
	s.seatPriceSource = source
}

func (s *service) GetCart(ctx context.Context, sessionID string) (*CartSession, error) {
	var cart CartSession
	err := s.cacheService.Get(ctx, constants.BuildCartKey(sessionID), &cart)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return &CartSession{SessionID: sessionID}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &cart, nil
}

func (s *service) saveCart(ctx context.Context, cart *CartSession) error {
	if err := s.cacheService.Set(ctx, constants.BuildCartKey(cart.SessionID), cart, constants.TTL_CART); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *service) UpdateItems(ctx context.Context, sessionID string, req UpdateCartRequest) (*CartSession, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsSeated() {
		return nil, apperrors.NewValidation("cart holds seat selections; clear it before adding general admission items")
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, apperrors.NewValidation("invalid event ID", "event_id")
	}
	event, err := s.eventService.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if event.IsSeated() {
		return nil, apperrors.NewValidation("seated events are purchased through seat selection, not quantities")
	}

	items := make([]CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			continue
		}
		ttID, err := uuid.Parse(item.TicketTypeID)
		if err != nil {
			return nil, apperrors.NewValidation("invalid ticket type ID", item.TicketTypeID)
		}
		ticketType, err := s.ticketTypeService.GetTicketType(ttID)
		if err != nil {
			return nil, err
		}
		if ticketType.EventID != eventID {
			return nil, apperrors.NewValidation("ticket type does not belong to this event", item.TicketTypeID)
		}
		if !ticketType.IsOnSale() {
			return nil, apperrors.NewValidation("ticket type is not on sale", item.TicketTypeID)
		}
		if item.Quantity < ticketType.MinPerOrder || item.Quantity > ticketType.MaxPerOrder {
			return nil, apperrors.NewValidation(
				fmt.Sprintf("quantity for %s must be between %d and %d", ticketType.Name, ticketType.MinPerOrder, ticketType.MaxPerOrder),
				item.TicketTypeID)
		}
		items = append(items, CartItem{
			TicketTypeID:   ticketType.ID.String(),
			TicketTypeName: ticketType.Name,
			Quantity:       item.Quantity,
			UnitPriceMinor: ticketType.PriceMinor,
		})
	}

	cart.EventID = req.EventID
	cart.Items = items
	cart.Seats = nil

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetSeats replaces the cart's seat manifest. Called by the seat selection
// flow after a successful hold; prices arrive already resolved through the
// category mappings.
func (s *service) SetSeats(ctx context.Context, sessionID, eventID string, seats []SeatSelection) (*CartSession, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) > 0 {
		return nil, apperrors.NewValidation("cart holds general admission items; clear it before selecting seats")
	}

	cart.EventID = eventID
	cart.Seats = seats
	cart.Items = nil

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) ApplyPromo(ctx context.Context, sessionID, code string) (*CartSession, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.NewValidation("cannot apply a promo code to an empty cart")
	}

	// Validate against the current cart so an ineligible code is rejected
	// at apply time, not at checkout.
	breakdown, err := s.priceCart(ctx, cart, "")
	if err != nil {
		return nil, err
	}
	result, err := s.promoService.Validate(promos.ValidatePromoRequest{
		Code:          code,
		SubtotalMinor: breakdown.Subtotal.Amount,
		Currency:      breakdown.Currency,
		TicketTypeIDs: cart.TicketTypeIDs(),
	})
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, apperrors.NewValidation(result.Reason, "code")
	}

	cart.PromoCode = result.Code
	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) ClearPromo(ctx context.Context, sessionID string) (*CartSession, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.PromoCode = ""
	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.cacheService.Delete(ctx, constants.BuildCartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *service) Price(ctx context.Context, sessionID string) (*PriceBreakdown, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.NewValidation("cart is empty")
	}
	return s.priceCart(ctx, cart, cart.PromoCode)
}

// priceCart assembles authoritative inputs and runs the pure projection.
func (s *service) priceCart(ctx context.Context, cart *CartSession, promoCode string) (*PriceBreakdown, error) {
	eventID, err := uuid.Parse(cart.EventID)
	if err != nil {
		return nil, apperrors.NewValidation("cart has no event", "event_id")
	}
	event, err := s.eventService.GetEvent(eventID)
	if err != nil {
		return nil, err
	}

	// Re-snapshot general admission prices so stale carts follow price
	// edits instead of honoring outdated amounts.
	items := make([]CartItem, len(cart.Items))
	for i, item := range cart.Items {
		ttID, err := uuid.Parse(item.TicketTypeID)
		if err != nil {
			return nil, apperrors.NewValidation("invalid ticket type ID", item.TicketTypeID)
		}
		ticketType, err := s.ticketTypeService.GetTicketType(ttID)
		if err != nil {
			return nil, err
		}
		items[i] = item
		items[i].UnitPriceMinor = ticketType.PriceMinor
	}

	// Seat prices get the same treatment, re-resolved through the category
	// mappings so a price override edited after selection is honored.
	seats := cart.Seats
	if s.seatPriceSource != nil && len(cart.Seats) > 0 {
		seats = make([]SeatSelection, len(cart.Seats))
		for i, seat := range cart.Seats {
			ttID, priceMinor, err := s.seatPriceSource.ResolveCategory(eventID, seat.CategoryKey)
			if err != nil {
				return nil, err
			}
			seats[i] = seat
			seats[i].TicketTypeID = ttID
			seats[i].PriceMinor = priceMinor
		}
	}

	charges, err := s.eventService.GetServiceCharges(eventID)
	if err != nil {
		return nil, err
	}

	input := PriceInput{
		Currency:       event.Currency,
		Items:          items,
		Seats:          seats,
		Discount:       money.Zero(event.Currency),
		Charges:        charges,
		TaxRatePercent: event.TaxRatePercent,
	}

	if promoCode != "" {
		// Subtotal-only pass to establish the discount basis.
		base, err := PriceCart(PriceInput{Currency: event.Currency, Items: items, Seats: seats, Discount: money.Zero(event.Currency)})
		if err != nil {
			return nil, err
		}
		result, err := s.promoService.Validate(promos.ValidatePromoRequest{
			Code:          promoCode,
			SubtotalMinor: base.Subtotal.Amount,
			Currency:      event.Currency,
			TicketTypeIDs: cart.TicketTypeIDs(),
		})
		if err != nil {
			return nil, err
		}
		if result.Valid {
			input.Discount = result.Discount
			input.PromoCode = result.Code
		}
	}

	return PriceCart(input)
}
