package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/money"
	"boxoffice/internal/shared/apperrors"
)

func gaCart(unitPriceMinor int64, quantity int) PriceInput {
	return PriceInput{
		Currency: "GBP",
		Items: []CartItem{
			{TicketTypeID: "standard", Quantity: quantity, UnitPriceMinor: unitPriceMinor},
		},
		Discount: money.Zero("GBP"),
	}
}

func TestPriceCartFlatFeeAndTax(t *testing.T) {
	// £100.00 subtotal, one per-cart fixed fee of £5.00, 20% tax.
	input := gaCart(10000, 1)
	input.Charges = []money.ServiceCharge{
		{Title: "Booking fee", Scope: money.ScopePerCart, Kind: money.KindFixedPrice, Amount: 500},
	}
	input.TaxRatePercent = 20

	breakdown, err := PriceCart(input)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), breakdown.Subtotal.Amount)
	assert.Equal(t, int64(10000), breakdown.DiscountedSubtotal.Amount)
	require.Len(t, breakdown.Fees, 1)
	assert.Equal(t, int64(500), breakdown.Fees[0].Amount.Amount)
	assert.Equal(t, int64(2000), breakdown.Tax.Amount)
	assert.Equal(t, int64(12500), breakdown.Total.Amount)
}

func TestPriceCartDiscountThenPercentageFee(t *testing.T) {
	// £100.00 subtotal, 10% promo, 5% per-ticket percentage fee, 0% tax.
	// Fees compute against the discounted subtotal.
	input := gaCart(10000, 1)
	input.Discount = money.New(1000, "GBP")
	input.Charges = []money.ServiceCharge{
		{Title: "Service fee", Scope: money.ScopePerTicket, Kind: money.KindPercentage, Rate: 5},
	}

	breakdown, err := PriceCart(input)
	require.NoError(t, err)

	assert.Equal(t, int64(9000), breakdown.DiscountedSubtotal.Amount)
	require.Len(t, breakdown.Fees, 1)
	assert.Equal(t, int64(450), breakdown.Fees[0].Amount.Amount)
	assert.True(t, breakdown.Tax.IsZero())
	assert.Equal(t, int64(9450), breakdown.Total.Amount)
}

func TestPriceCartSeatedSelection(t *testing.T) {
	input := PriceInput{
		Currency: "GBP",
		Seats: []SeatSelection{
			{Label: "A-1", CategoryKey: "vip", PriceMinor: 7500},
			{Label: "A-2", CategoryKey: "vip", PriceMinor: 7500},
			{Label: "B-4", CategoryKey: "standard", PriceMinor: 4000},
		},
		Discount: money.Zero("GBP"),
	}

	breakdown, err := PriceCart(input)
	require.NoError(t, err)

	assert.Equal(t, int64(19000), breakdown.Subtotal.Amount)
	assert.Equal(t, 3, breakdown.TicketCount)
}

func TestPriceCartRejectsMixedCart(t *testing.T) {
	input := gaCart(5000, 2)
	input.Seats = []SeatSelection{{Label: "A-1", PriceMinor: 5000}}

	_, err := PriceCart(input)
	assert.True(t, apperrors.IsValidation(err))
}

func TestPriceCartDiscountNeverBelowZero(t *testing.T) {
	input := gaCart(1000, 1)
	input.Discount = money.New(5000, "GBP")

	breakdown, err := PriceCart(input)
	require.NoError(t, err)

	assert.Equal(t, int64(0), breakdown.DiscountedSubtotal.Amount)
	assert.Equal(t, int64(0), breakdown.Total.Amount)
}

func TestPriceCartOmitsNonPositiveFees(t *testing.T) {
	input := gaCart(10000, 1)
	input.Charges = []money.ServiceCharge{
		{Title: "Zero fee", Scope: money.ScopePerCart, Kind: money.KindFixedPrice, Amount: 0},
		{Title: "Real fee", Scope: money.ScopePerCart, Kind: money.KindFixedPrice, Amount: 250},
	}

	breakdown, err := PriceCart(input)
	require.NoError(t, err)

	require.Len(t, breakdown.Fees, 1)
	assert.Equal(t, "Real fee", breakdown.Fees[0].Title)
}

func TestPriceCartRejectsMalformedCharge(t *testing.T) {
	input := gaCart(10000, 1)
	input.Charges = []money.ServiceCharge{
		{Title: "Broken", Scope: "per_order", Kind: money.KindFixedPrice, Amount: 100},
	}

	_, err := PriceCart(input)
	assert.True(t, apperrors.IsValidation(err), "malformed fee configuration rejects the whole call")
}

func TestPriceCartIdempotent(t *testing.T) {
	input := gaCart(10000, 3)
	input.Discount = money.New(1500, "GBP")
	input.Charges = []money.ServiceCharge{
		{Title: "Booking fee", Scope: money.ScopePerTicket, Kind: money.KindFixedPrice, Amount: 150},
		{Title: "Processing", Scope: money.ScopePerCart, Kind: money.KindPercentage, Rate: 2.5},
	}
	input.TaxRatePercent = 17.5

	first, err := PriceCart(input)
	require.NoError(t, err)
	second, err := PriceCart(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPriceCartTotalInvariant(t *testing.T) {
	inputs := []PriceInput{
		gaCart(10000, 1),
		gaCart(333, 7),
		{
			Currency: "GBP",
			Seats:    []SeatSelection{{Label: "C-9", PriceMinor: 12345}},
			Discount: money.New(2000, "GBP"),
			Charges: []money.ServiceCharge{
				{Title: "Fee A", Scope: money.ScopePerTicket, Kind: money.KindFixedPrice, Amount: 99},
				{Title: "Fee B", Scope: money.ScopePerCart, Kind: money.KindPercentage, Rate: 3.3},
			},
			TaxRatePercent: 20,
		},
	}

	for _, input := range inputs {
		breakdown, err := PriceCart(input)
		require.NoError(t, err)

		feeSum := int64(0)
		for _, fee := range breakdown.Fees {
			feeSum += fee.Amount.Amount
		}
		assert.Equal(t, breakdown.Total.Amount,
			breakdown.DiscountedSubtotal.Amount+feeSum+breakdown.Tax.Amount,
			"total == discountedSubtotal + sum(fees) + tax")
		assert.GreaterOrEqual(t, breakdown.DiscountedSubtotal.Amount, int64(0))
	}
}
