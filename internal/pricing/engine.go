package pricing

import (
	"boxoffice/internal/money"
	"boxoffice/internal/shared/apperrors"
)

// PriceCart projects a cart into a PriceBreakdown. Pure: no I/O, no side
// effects, safe to call on every cart edit. The evaluation order is fixed
// and must not be reordered:
//
//  1. subtotal = sum of line amounts
//  2. discountedSubtotal = max(0, subtotal - discount)
//  3. each service charge computed against discountedSubtotal
//  4. tax computed against discountedSubtotal (fees are not taxed)
//  5. total = discountedSubtotal + sum(fees) + tax
func PriceCart(input PriceInput) (*PriceBreakdown, error) {
	if len(input.Items) > 0 && len(input.Seats) > 0 {
		return nil, apperrors.NewValidation("a cart cannot mix general admission items and seat selections")
	}

	// Malformed fee configuration rejects the whole call; no partial
	// breakdowns.
	for _, charge := range input.Charges {
		if err := charge.Validate(); err != nil {
			return nil, apperrors.NewValidation(err.Error())
		}
	}

	subtotal := money.Zero(input.Currency)
	ticketCount := 0

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.NewValidation("item quantity must be positive", item.TicketTypeID)
		}
		if item.UnitPriceMinor < 0 {
			return nil, apperrors.NewValidation("item unit price cannot be negative", item.TicketTypeID)
		}
		line := money.New(item.UnitPriceMinor, input.Currency).MulInt(int64(item.Quantity))
		var err error
		subtotal, err = subtotal.Add(line)
		if err != nil {
			return nil, err
		}
		ticketCount += item.Quantity
	}

	for _, seat := range input.Seats {
		if seat.PriceMinor < 0 {
			return nil, apperrors.NewValidation("seat price cannot be negative", seat.Label)
		}
		var err error
		subtotal, err = subtotal.Add(money.New(seat.PriceMinor, input.Currency))
		if err != nil {
			return nil, err
		}
		ticketCount++
	}

	discount := input.Discount
	if discount.Currency == "" {
		discount = money.Zero(input.Currency)
	}
	if !discount.SameCurrency(subtotal) {
		return nil, apperrors.NewValidation("discount currency does not match cart currency", discount.Currency)
	}
	if discount.IsNegative() {
		return nil, apperrors.NewValidation("discount cannot be negative")
	}

	discountedSubtotal, err := subtotal.Sub(discount)
	if err != nil {
		return nil, err
	}
	if discountedSubtotal.IsNegative() {
		discountedSubtotal = money.Zero(input.Currency)
	}

	var fees []FeeLine
	feeTotal := money.Zero(input.Currency)
	for _, charge := range input.Charges {
		amount, ok := money.ComputeServiceCharge(charge, discountedSubtotal, ticketCount)
		if !ok {
			continue
		}
		fees = append(fees, FeeLine{Title: charge.Title, Amount: amount})
		feeTotal, err = feeTotal.Add(amount)
		if err != nil {
			return nil, err
		}
	}

	tax, _ := money.ComputeTax(input.TaxRatePercent, discountedSubtotal)

	total, err := discountedSubtotal.Add(feeTotal)
	if err != nil {
		return nil, err
	}
	total, err = total.Add(tax)
	if err != nil {
		return nil, err
	}

	return &PriceBreakdown{
		Currency:           input.Currency,
		Subtotal:           subtotal,
		Discount:           discount,
		DiscountedSubtotal: discountedSubtotal,
		Fees:               fees,
		Tax:                tax,
		Total:              total,
		PromoCode:          input.PromoCode,
		TicketCount:        ticketCount,
	}, nil
}
