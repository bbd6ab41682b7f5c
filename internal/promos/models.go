package promos

import (
	"time"

	"github.com/google/uuid"

	"boxoffice/internal/money"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// MatchPolicy decides how a cart's ticket types are evaluated against a
// restriction list: "any" passes if at least one cart type is in the list,
// "all" requires every cart type to be in it.
type MatchPolicy string

const (
	MatchAny MatchPolicy = "any"
	MatchAll MatchPolicy = "all"
)

// PromoCode is stored uppercase; lookups fold case so shoppers can type the
// code however they like.
type PromoCode struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Code         string       `json:"code" gorm:"uniqueIndex;not null;size:64"`
	DiscountType DiscountType `json:"discount_type" gorm:"type:varchar(20);not null"`

	// PercentOff for percentage codes, AmountMinor for fixed codes. The
	// unused field stays zero.
	PercentOff  float64 `json:"percent_off" gorm:"default:0;check:percent_off >= 0 AND percent_off <= 100"`
	AmountMinor int64   `json:"amount_minor" gorm:"default:0;check:amount_minor >= 0"`

	MaxUses       *int  `json:"max_uses" gorm:"default:null"`
	CurrentUses   int   `json:"current_uses" gorm:"not null;default:0"`
	MinOrderMinor int64 `json:"min_order_minor" gorm:"not null;default:0"`

	// Empty list means the code applies to any ticket type.
	TicketTypeIDs []string `json:"ticket_type_ids" gorm:"serializer:json"`

	ValidFrom *time.Time `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`
	Active    bool       `json:"active" gorm:"default:true"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PromoCode) TableName() string {
	return "promo_codes"
}

// ValidationResult is the outcome of a read-only promo check. Reason is set
// only when Valid is false.
type ValidationResult struct {
	Valid    bool        `json:"valid"`
	Code     string      `json:"code"`
	Discount money.Money `json:"discount"`
	Reason   string      `json:"reason,omitempty"`
}

type CreatePromoRequest struct {
	Code          string     `json:"code" binding:"required,min=2,max=64"`
	DiscountType  string     `json:"discount_type" binding:"required,oneof=percentage fixed"`
	PercentOff    float64    `json:"percent_off" binding:"omitempty,min=0,max=100"`
	AmountMinor   int64      `json:"amount_minor" binding:"omitempty,min=0"`
	MaxUses       *int       `json:"max_uses" binding:"omitempty,min=1"`
	MinOrderMinor int64      `json:"min_order_minor" binding:"omitempty,min=0"`
	TicketTypeIDs []string   `json:"ticket_type_ids"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidTo       *time.Time `json:"valid_to"`
}

type UpdatePromoRequest struct {
	Active        *bool      `json:"active"`
	MaxUses       *int       `json:"max_uses" binding:"omitempty,min=1"`
	MinOrderMinor *int64     `json:"min_order_minor" binding:"omitempty,min=0"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidTo       *time.Time `json:"valid_to"`
}

type ValidatePromoRequest struct {
	Code          string   `json:"code" binding:"required"`
	SubtotalMinor int64    `json:"subtotal_minor" binding:"min=0"`
	Currency      string   `json:"currency" binding:"required,len=3"`
	TicketTypeIDs []string `json:"ticket_type_ids"`
}
