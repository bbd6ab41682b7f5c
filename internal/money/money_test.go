package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSub(t *testing.T) {
	a := New(10000, "GBP")
	b := New(2500, "gbp")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(12500), sum.Amount)
	assert.Equal(t, "GBP", sum.Currency)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), diff.Amount)
}

func TestAddCurrencyMismatch(t *testing.T) {
	_, err := New(100, "GBP").Add(New(100, "USD"))
	assert.Error(t, err)

	_, err = New(100, "GBP").Sub(New(100, "USD"))
	assert.Error(t, err)
}

func TestPercentOfRoundsHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		pct    float64
		amount int64
		want   int64
	}{
		{"20 percent of 10000", 20, 10000, 2000},
		{"5 percent of 9000", 5, 9000, 450},
		{"rounds half up", 5, 50, 3},         // 2.5 -> 3
		{"rounds down below half", 5, 49, 2}, // 2.45 -> 2
		{"fractional rate", 7.5, 10000, 750},
		{"tiny subtotal", 10, 4, 0}, // 0.4 -> 0
		{"zero rate", 0, 10000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentOf(tt.pct, New(tt.amount, "GBP"))
			assert.Equal(t, tt.want, got.Amount)
		})
	}
}

func TestMin(t *testing.T) {
	assert.Equal(t, int64(500), Min(New(500, "GBP"), New(900, "GBP")).Amount)
	assert.Equal(t, int64(500), Min(New(900, "GBP"), New(500, "GBP")).Amount)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "100.00 GBP", New(10000, "GBP").Format())
	assert.Equal(t, "0.05 USD", New(5, "USD").Format())
	assert.Equal(t, "-1.25 EUR", New(-125, "EUR").Format())
}
