package promos

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/money"
	"boxoffice/internal/shared/apperrors"
)

func activePromo() *PromoCode {
	return &PromoCode{
		Code:         "SAVE10",
		DiscountType: DiscountPercentage,
		PercentOff:   10,
		Active:       true,
	}
}

func TestEvaluateChecksInOrder(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	one := 1

	tests := []struct {
		name   string
		mutate func(*PromoCode)
		reason string
	}{
		{
			name:   "inactive code rejected first",
			mutate: func(p *PromoCode) { p.Active = false },
			reason: "promo code is not active",
		},
		{
			name:   "not yet valid",
			mutate: func(p *PromoCode) { p.ValidFrom = &future },
			reason: "promo code is not yet valid",
		},
		{
			name:   "expired",
			mutate: func(p *PromoCode) { p.ValidTo = &past },
			reason: "promo code has expired",
		},
		{
			name: "usage limit reached",
			mutate: func(p *PromoCode) {
				p.MaxUses = &one
				p.CurrentUses = 1
			},
			reason: "promo code has reached its usage limit",
		},
		{
			name:   "below minimum order",
			mutate: func(p *PromoCode) { p.MinOrderMinor = 20000 },
			reason: "order does not meet the minimum amount for this promo code",
		},
		{
			name:   "ticket type restriction not met",
			mutate: func(p *PromoCode) { p.TicketTypeIDs = []string{"other-type"} },
			reason: "promo code does not apply to the ticket types in this order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promo := activePromo()
			tt.mutate(promo)

			result := evaluate(promo, money.New(10000, "GBP"), []string{"type-a"}, MatchAny, now)

			assert.False(t, result.Valid)
			assert.Equal(t, tt.reason, result.Reason)
			assert.True(t, result.Discount.IsZero())
		})
	}
}

func TestEvaluateUnboundedWindowAndUses(t *testing.T) {
	promo := activePromo()

	result := evaluate(promo, money.New(10000, "GBP"), nil, MatchAny, time.Now())

	require.True(t, result.Valid)
	assert.Equal(t, int64(1000), result.Discount.Amount)
	assert.Empty(t, result.Reason)
}

func TestEvaluatePercentageDiscountRoundsHalfUp(t *testing.T) {
	promo := activePromo()
	promo.PercentOff = 5

	// 5% of 50 = 2.5, rounds up to 3
	result := evaluate(promo, money.New(50, "GBP"), nil, MatchAny, time.Now())

	require.True(t, result.Valid)
	assert.Equal(t, int64(3), result.Discount.Amount)
}

func TestEvaluateFixedDiscountCappedAtSubtotal(t *testing.T) {
	promo := activePromo()
	promo.DiscountType = DiscountFixed
	promo.AmountMinor = 5000

	result := evaluate(promo, money.New(3000, "GBP"), nil, MatchAny, time.Now())

	require.True(t, result.Valid)
	assert.Equal(t, int64(3000), result.Discount.Amount, "discount never exceeds subtotal")
}

func TestMatchesRestriction(t *testing.T) {
	restricted := []string{"vip", "standard"}

	assert.True(t, matchesRestriction(restricted, []string{"vip"}, MatchAny))
	assert.False(t, matchesRestriction(restricted, []string{"balcony"}, MatchAny))

	// "all" ranges over the cart: a cart of only restricted types passes,
	// one stray unrestricted type fails it.
	assert.True(t, matchesRestriction(restricted, []string{"vip"}, MatchAll))
	assert.True(t, matchesRestriction(restricted, []string{"vip", "standard"}, MatchAll))
	assert.False(t, matchesRestriction(restricted, []string{"vip", "standard", "balcony"}, MatchAll))

	assert.False(t, matchesRestriction(restricted, nil, MatchAll))
	assert.False(t, matchesRestriction(restricted, nil, MatchAny))
}

// fakeRepo backs the concurrency test with an in-memory guarded counter so
// the increment semantics match the SQL conditional update.
type fakeRepo struct {
	Repository
	mu    sync.Mutex
	promo PromoCode
}

func (f *fakeRepo) GetByCode(code string) (*PromoCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.promo
	return &p, nil
}

func (f *fakeRepo) IncrementUses(code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.promo.MaxUses != nil && f.promo.CurrentUses >= *f.promo.MaxUses {
		return false, nil
	}
	f.promo.CurrentUses++
	return true, nil
}

func TestRedeemConcurrentLastUse(t *testing.T) {
	one := 1
	repo := &fakeRepo{promo: PromoCode{Code: "LASTONE", MaxUses: &one, Active: true}}
	svc := NewService(repo, "any")

	const sessions = 8
	results := make(chan error, sessions)

	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Redeem("LASTONE")
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, exceeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else if apperrors.IsConflict(err, apperrors.CodeUsageExceeded) {
			exceeded++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one session wins the last use")
	assert.Equal(t, sessions-1, exceeded)
	assert.Equal(t, 1, repo.promo.CurrentUses)
}
