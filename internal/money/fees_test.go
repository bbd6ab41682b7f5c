package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeServiceCharge(t *testing.T) {
	subtotal := New(10000, "GBP")

	tests := []struct {
		name    string
		charge  ServiceCharge
		tickets int
		want    int64
		applied bool
	}{
		{
			name:    "per ticket fixed multiplies by count",
			charge:  ServiceCharge{Title: "booking fee", Scope: ScopePerTicket, Kind: KindFixedPrice, Amount: 150},
			tickets: 4,
			want:    600,
			applied: true,
		},
		{
			name:    "per ticket percentage applies once to subtotal",
			charge:  ServiceCharge{Title: "service", Scope: ScopePerTicket, Kind: KindPercentage, Rate: 5},
			tickets: 4,
			want:    500,
			applied: true,
		},
		{
			name:    "per cart fixed applies once",
			charge:  ServiceCharge{Title: "processing", Scope: ScopePerCart, Kind: KindFixedPrice, Amount: 500},
			tickets: 4,
			want:    500,
			applied: true,
		},
		{
			name:    "per cart percentage applies once",
			charge:  ServiceCharge{Title: "platform", Scope: ScopePerCart, Kind: KindPercentage, Rate: 2.5},
			tickets: 4,
			want:    250,
			applied: true,
		},
		{
			name:    "zero fixed amount omitted",
			charge:  ServiceCharge{Title: "free", Scope: ScopePerCart, Kind: KindFixedPrice, Amount: 0},
			tickets: 1,
			applied: false,
		},
		{
			name:    "zero rate omitted",
			charge:  ServiceCharge{Title: "none", Scope: ScopePerTicket, Kind: KindPercentage, Rate: 0},
			tickets: 1,
			applied: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, ok := ComputeServiceCharge(tt.charge, subtotal, tt.tickets)
			assert.Equal(t, tt.applied, ok)
			if tt.applied {
				assert.Equal(t, tt.want, fee.Amount)
				assert.Equal(t, "GBP", fee.Currency)
			}
		})
	}
}

func TestServiceChargeValidate(t *testing.T) {
	valid := ServiceCharge{Title: "fee", Scope: ScopePerCart, Kind: KindFixedPrice, Amount: 100}
	assert.NoError(t, valid.Validate())

	bad := []ServiceCharge{
		{Title: "s", Scope: "per_order", Kind: KindFixedPrice, Amount: 100},
		{Title: "k", Scope: ScopePerCart, Kind: "flat", Amount: 100},
		{Title: "n", Scope: ScopePerCart, Kind: KindFixedPrice, Amount: -5},
		{Title: "r", Scope: ScopePerCart, Kind: KindPercentage, Rate: 120},
		{Title: "nr", Scope: ScopePerTicket, Kind: KindPercentage, Rate: -1},
	}
	for _, c := range bad {
		assert.Error(t, c.Validate(), c.Title)
	}
}

func TestComputeTax(t *testing.T) {
	tax, ok := ComputeTax(20, New(10000, "GBP"))
	assert.True(t, ok)
	assert.Equal(t, int64(2000), tax.Amount)

	_, ok = ComputeTax(0, New(10000, "GBP"))
	assert.False(t, ok)

	// independent half-up rounding per line
	tax, ok = ComputeTax(17.5, New(333, "GBP"))
	assert.True(t, ok)
	assert.Equal(t, int64(58), tax.Amount) // 58.275 -> 58
}
