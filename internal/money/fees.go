package money

import "fmt"

// ChargeScope controls what a service charge is applied against.
type ChargeScope string

// ChargeKind controls how a service charge amount is interpreted.
type ChargeKind string

const (
	ScopePerTicket ChargeScope = "per_ticket"
	ScopePerCart   ChargeScope = "per_cart"

	KindFixedPrice ChargeKind = "fixed_price"
	KindPercentage ChargeKind = "percentage"
)

// ServiceCharge is the canonical in-memory shape of a platform or event
// level fee. Fixed charges carry Amount in minor units; percentage charges
// carry Rate in percent. The persistence layer adapts its own columns to
// this shape so computation never branches on storage field variants.
type ServiceCharge struct {
	Title  string      `json:"title"`
	Scope  ChargeScope `json:"scope"`
	Kind   ChargeKind  `json:"kind"`
	Amount int64       `json:"amount"`
	Rate   float64     `json:"rate"`
}

// Validate rejects malformed charge configuration eagerly so a pricing
// call fails whole instead of producing a partial breakdown.
func (c ServiceCharge) Validate() error {
	switch c.Scope {
	case ScopePerTicket, ScopePerCart:
	default:
		return fmt.Errorf("service charge %q: unknown scope %q", c.Title, c.Scope)
	}
	switch c.Kind {
	case KindFixedPrice:
		if c.Amount < 0 {
			return fmt.Errorf("service charge %q: negative fixed amount %d", c.Title, c.Amount)
		}
	case KindPercentage:
		if c.Rate < 0 || c.Rate > 100 {
			return fmt.Errorf("service charge %q: rate %.2f out of range", c.Title, c.Rate)
		}
	default:
		return fmt.Errorf("service charge %q: unknown kind %q", c.Title, c.Kind)
	}
	return nil
}

// ComputeServiceCharge computes one charge against a subtotal.
//
// per_ticket/fixed_price multiplies the unit amount by the ticket count.
// per_ticket/percentage applies the rate once to the whole subtotal, not
// per unit; the fee is a percentage of the subtotal attributable to
// tickets, and charges never compound. per_cart variants apply once.
//
// The second return is false when the computed amount is not positive,
// in which case the charge is omitted from breakdowns.
func ComputeServiceCharge(c ServiceCharge, subtotal Money, ticketCount int) (Money, bool) {
	var fee Money
	switch {
	case c.Scope == ScopePerTicket && c.Kind == KindFixedPrice:
		fee = New(c.Amount, subtotal.Currency).MulInt(int64(ticketCount))
	case c.Scope == ScopePerTicket && c.Kind == KindPercentage:
		fee = PercentOf(c.Rate, subtotal)
	case c.Scope == ScopePerCart && c.Kind == KindFixedPrice:
		fee = New(c.Amount, subtotal.Currency)
	case c.Scope == ScopePerCart && c.Kind == KindPercentage:
		fee = PercentOf(c.Rate, subtotal)
	}
	if fee.Amount <= 0 {
		return Zero(subtotal.Currency), false
	}
	return fee, true
}

// ComputeTax computes tax at ratePercent against a subtotal, rounding
// half-up on minor units. A zero rate yields false so callers can omit
// the tax line entirely.
//
// Each percentage line rounds independently; no running-remainder
// correction is performed, so totals of many small percentage fees can
// drift by at most one minor unit per line versus a combined computation.
func ComputeTax(ratePercent float64, subtotal Money) (Money, bool) {
	if ratePercent == 0 {
		return Zero(subtotal.Currency), false
	}
	return PercentOf(ratePercent, subtotal), true
}
