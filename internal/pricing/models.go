package pricing

import (
	"boxoffice/internal/money"
)

// CartItem is a general-admission line: quantity of one ticket type at a
// snapshotted unit price. Lives only in the shopper's session.
type CartItem struct {
	TicketTypeID   string `json:"ticket_type_id"`
	TicketTypeName string `json:"ticket_type_name,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
}

// SeatSelection is a seated line: one seat label priced through its
// category mapping.
type SeatSelection struct {
	Label        string `json:"label"`
	CategoryKey  string `json:"category_key"`
	TicketTypeID string `json:"ticket_type_id"`
	PriceMinor   int64  `json:"price_minor"`
}

// PriceInput carries everything the projection needs. Items and Seats are
// mutually exclusive: a cart is general-admission or seated, never both.
type PriceInput struct {
	Currency       string
	Items          []CartItem
	Seats          []SeatSelection
	Discount       money.Money
	PromoCode      string
	Charges        []money.ServiceCharge
	TaxRatePercent float64
}

// FeeLine is one computed service charge in the breakdown.
type FeeLine struct {
	Title  string      `json:"title"`
	Amount money.Money `json:"amount"`
}

// PriceBreakdown is the auditable result of pricing a cart. Line order
// mirrors the fixed evaluation order so callers can display it as-is.
type PriceBreakdown struct {
	Currency           string      `json:"currency"`
	Subtotal           money.Money `json:"subtotal"`
	Discount           money.Money `json:"discount"`
	DiscountedSubtotal money.Money `json:"discounted_subtotal"`
	Fees               []FeeLine   `json:"fees"`
	Tax                money.Money `json:"tax"`
	Total              money.Money `json:"total"`
	PromoCode          string      `json:"promo_code,omitempty"`
	TicketCount        int         `json:"ticket_count"`
}

// CartSession is the session-scoped cart aggregate. One per shopper
// session, persisted between requests; holds either general-admission
// items or seat labels, plus an optionally applied promo code.
type CartSession struct {
	SessionID string          `json:"session_id"`
	EventID   string          `json:"event_id"`
	Items     []CartItem      `json:"items,omitempty"`
	Seats     []SeatSelection `json:"seats,omitempty"`
	PromoCode string          `json:"promo_code,omitempty"`
}

// IsSeated reports whether the cart holds seat selections.
func (cs *CartSession) IsSeated() bool {
	return len(cs.Seats) > 0
}

// IsEmpty reports whether the cart has no lines.
func (cs *CartSession) IsEmpty() bool {
	return len(cs.Items) == 0 && len(cs.Seats) == 0
}

// TicketTypeIDs returns the distinct ticket types in the cart, for promo
// restriction checks.
func (cs *CartSession) TicketTypeIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, item := range cs.Items {
		if !seen[item.TicketTypeID] {
			seen[item.TicketTypeID] = true
			ids = append(ids, item.TicketTypeID)
		}
	}
	for _, seat := range cs.Seats {
		if !seen[seat.TicketTypeID] {
			seen[seat.TicketTypeID] = true
			ids = append(ids, seat.TicketTypeID)
		}
	}
	return ids
}

type UpdateCartRequest struct {
	EventID string     `json:"event_id" binding:"required,uuid"`
	Items   []CartItem `json:"items" binding:"omitempty,dive"`
}

type ApplyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}
