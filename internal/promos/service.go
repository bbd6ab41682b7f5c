package promos

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boxoffice/internal/money"
	"boxoffice/internal/shared/apperrors"
	"boxoffice/internal/shared/middleware"
)

type Service interface {
	CreatePromo(userID uuid.UUID, req CreatePromoRequest) (*PromoCode, error)
	GetPromo(id uuid.UUID) (*PromoCode, error)
	ListPromos() ([]PromoCode, error)
	UpdatePromo(id uuid.UUID, req UpdatePromoRequest) (*PromoCode, error)
	DeletePromo(id uuid.UUID) error

	// Validate is a read-only eligibility check; it never consumes a use.
	Validate(req ValidatePromoRequest) (*ValidationResult, error)

	// Redeem consumes one use at order finalization. Loses to a concurrent
	// session with a USAGE_EXCEEDED conflict when the ceiling is hit.
	Redeem(code string) error
	// Unredeem returns a use after a failed finalization (payment refunded,
	// seats lost).
	Unredeem(code string) error
}

type service struct {
	repo        Repository
	matchPolicy MatchPolicy
}

func NewService(repo Repository, matchPolicy string) Service {
	policy := MatchPolicy(matchPolicy)
	if policy != MatchAll {
		policy = MatchAny
	}
	return &service{repo: repo, matchPolicy: policy}
}

func (s *service) CreatePromo(userID uuid.UUID, req CreatePromoRequest) (*PromoCode, error) {
	discountType := DiscountType(req.DiscountType)
	switch discountType {
	case DiscountPercentage:
		if req.PercentOff <= 0 {
			return nil, apperrors.NewValidation("percentage promo requires percent_off > 0", "percent_off")
		}
	case DiscountFixed:
		if req.AmountMinor <= 0 {
			return nil, apperrors.NewValidation("fixed promo requires amount_minor > 0", "amount_minor")
		}
	}
	if req.ValidFrom != nil && req.ValidTo != nil && req.ValidTo.Before(*req.ValidFrom) {
		return nil, apperrors.NewValidation("valid_to must be after valid_from", "valid_from", "valid_to")
	}

	promo := &PromoCode{
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:  discountType,
		PercentOff:    req.PercentOff,
		AmountMinor:   req.AmountMinor,
		MaxUses:       req.MaxUses,
		MinOrderMinor: req.MinOrderMinor,
		TicketTypeIDs: req.TicketTypeIDs,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
		Active:        true,
		CreatedBy:     userID,
	}

	if err := s.repo.Create(promo); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewValidation("promo code already exists", "code")
		}
		return nil, fmt.Errorf("failed to create promo code: %w", err)
	}
	return promo, nil
}

func (s *service) GetPromo(id uuid.UUID) (*PromoCode, error) {
	promo, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("promo code", id.String())
		}
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}
	return promo, nil
}

func (s *service) ListPromos() ([]PromoCode, error) {
	promos, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}
	return promos, nil
}

func (s *service) UpdatePromo(id uuid.UUID, req UpdatePromoRequest) (*PromoCode, error) {
	updates := make(map[string]interface{})
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.MaxUses != nil {
		updates["max_uses"] = *req.MaxUses
	}
	if req.MinOrderMinor != nil {
		updates["min_order_minor"] = *req.MinOrderMinor
	}
	if req.ValidFrom != nil {
		updates["valid_from"] = *req.ValidFrom
	}
	if req.ValidTo != nil {
		updates["valid_to"] = *req.ValidTo
	}

	promo, err := s.repo.Update(id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("promo code", id.String())
		}
		return nil, fmt.Errorf("failed to update promo code: %w", err)
	}
	return promo, nil
}

func (s *service) DeletePromo(id uuid.UUID) error {
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete promo code: %w", err)
	}
	return nil
}

func (s *service) Validate(req ValidatePromoRequest) (*ValidationResult, error) {
	promo, err := s.repo.GetByCode(req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("promo code", strings.ToUpper(strings.TrimSpace(req.Code)))
		}
		return nil, fmt.Errorf("failed to look up promo code: %w", err)
	}

	subtotal := money.New(req.SubtotalMinor, req.Currency)
	result := evaluate(promo, subtotal, req.TicketTypeIDs, s.matchPolicy, time.Now())
	return &result, nil
}

// evaluate runs the eligibility checks in order, short-circuiting on the
// first failure. Pure; callers inject now.
func evaluate(promo *PromoCode, subtotal money.Money, cartTicketTypeIDs []string, policy MatchPolicy, now time.Time) ValidationResult {
	fail := func(reason string) ValidationResult {
		return ValidationResult{Valid: false, Code: promo.Code, Discount: money.Zero(subtotal.Currency), Reason: reason}
	}

	if !promo.Active {
		return fail("promo code is not active")
	}
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return fail("promo code is not yet valid")
	}
	if promo.ValidTo != nil && now.After(*promo.ValidTo) {
		return fail("promo code has expired")
	}
	if promo.MaxUses != nil && promo.CurrentUses >= *promo.MaxUses {
		return fail("promo code has reached its usage limit")
	}
	if subtotal.Amount < promo.MinOrderMinor {
		return fail("order does not meet the minimum amount for this promo code")
	}
	if len(promo.TicketTypeIDs) > 0 && !matchesRestriction(promo.TicketTypeIDs, cartTicketTypeIDs, policy) {
		return fail("promo code does not apply to the ticket types in this order")
	}

	return ValidationResult{
		Valid:    true,
		Code:     promo.Code,
		Discount: computeDiscount(promo, subtotal),
	}
}

// computeDiscount derives the discount from the full order subtotal. A
// fixed discount never exceeds the subtotal.
func computeDiscount(promo *PromoCode, subtotal money.Money) money.Money {
	switch promo.DiscountType {
	case DiscountPercentage:
		return money.PercentOf(promo.PercentOff, subtotal)
	case DiscountFixed:
		return money.Min(money.New(promo.AmountMinor, subtotal.Currency), subtotal)
	}
	return money.Zero(subtotal.Currency)
}

// matchesRestriction quantifies over the cart's ticket types: "any" passes
// when at least one cart type is restricted-listed, "all" only when every
// cart type is. An empty cart matches neither way.
func matchesRestriction(restricted, cartTypes []string, policy MatchPolicy) bool {
	allowed := make(map[string]bool, len(restricted))
	for _, id := range restricted {
		allowed[id] = true
	}

	if policy == MatchAll {
		for _, id := range cartTypes {
			if !allowed[id] {
				return false
			}
		}
		return len(cartTypes) > 0
	}

	for _, id := range cartTypes {
		if allowed[id] {
			return true
		}
	}
	return false
}

func (s *service) Redeem(code string) error {
	ok, err := s.repo.IncrementUses(code)
	if err != nil {
		return fmt.Errorf("failed to redeem promo code: %w", err)
	}
	if !ok {
		middleware.CountPromoExhausted()
		return apperrors.NewConflict(apperrors.CodeUsageExceeded, "promo code usage limit reached", strings.ToUpper(strings.TrimSpace(code)))
	}
	return nil
}

func (s *service) Unredeem(code string) error {
	if err := s.repo.DecrementUses(code); err != nil {
		return fmt.Errorf("failed to return promo code use: %w", err)
	}
	return nil
}
