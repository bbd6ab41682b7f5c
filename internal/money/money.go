package money

import (
	"fmt"
	"strings"
)

// Money represents a monetary amount in minor units (pence, cents).
// All arithmetic stays in integers; conversion to major units happens
// only when formatting for display.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New creates a Money value. Currency codes are normalized to upper case.
func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return New(0, currency)
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) IsNegative() bool {
	return m.Amount < 0
}

// SameCurrency reports whether two amounts share a currency.
func (m Money) SameCurrency(o Money) bool {
	return strings.EqualFold(m.Currency, o.Currency)
}

// Add returns m + o. Mixing currencies is a caller bug and returns an error.
func (m Money) Add(o Money) (Money, error) {
	if !m.SameCurrency(o) {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, o.Currency)
	}
	return Money{Amount: m.Amount + o.Amount, Currency: m.Currency}, nil
}

// Sub returns m - o. Mixing currencies is a caller bug and returns an error.
func (m Money) Sub(o Money) (Money, error) {
	if !m.SameCurrency(o) {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, o.Currency)
	}
	return Money{Amount: m.Amount - o.Amount, Currency: m.Currency}, nil
}

// MulInt returns m multiplied by a quantity.
func (m Money) MulInt(n int64) Money {
	return Money{Amount: m.Amount * n, Currency: m.Currency}
}

// Min returns the smaller of two amounts in the same currency.
func Min(a, b Money) Money {
	if a.Amount <= b.Amount {
		return a
	}
	return b
}

// PercentOf computes pct% of m, rounding half-up on minor units.
// The rate is converted to basis points once so the arithmetic itself
// stays in integers.
func PercentOf(pct float64, m Money) Money {
	bps := toBasisPoints(pct)
	return Money{Amount: roundHalfUpDiv(m.Amount*bps, 10000), Currency: m.Currency}
}

// toBasisPoints converts a percentage (e.g. 7.5) to basis points (750).
func toBasisPoints(pct float64) int64 {
	if pct >= 0 {
		return int64(pct*100 + 0.5)
	}
	return int64(pct*100 - 0.5)
}

// roundHalfUpDiv divides n by d rounding half away from zero.
func roundHalfUpDiv(n, d int64) int64 {
	if n >= 0 {
		return (n + d/2) / d
	}
	return (n - d/2) / d
}

// Format renders the amount in major units for display, e.g. "100.00 GBP".
// Display-only; never feed the result back into arithmetic.
func (m Money) Format() string {
	major := m.Amount / 100
	minor := m.Amount % 100
	if minor < 0 {
		minor = -minor
	}
	return fmt.Sprintf("%d.%02d %s", major, minor, m.Currency)
}
