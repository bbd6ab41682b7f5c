package tickettypes

import (
	"time"

	"github.com/google/uuid"

	"boxoffice/internal/money"
)

// TicketType is a sellable ticket class for an event. Available tracks
// remaining general-admission inventory; for seated events the per-seat
// inventory is authoritative and Available mirrors the mapped seat count.
type TicketType struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID    uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Name       string    `json:"name" gorm:"not null;size:255"`
	PriceMinor int64     `json:"price_minor" gorm:"not null;check:price_minor >= 0"`
	Currency   string    `json:"currency" gorm:"type:varchar(3);not null"`

	Capacity  int `json:"capacity" gorm:"not null;check:capacity >= 0"`
	Available int `json:"available" gorm:"not null;check:available >= 0"`

	MinPerOrder int `json:"min_per_order" gorm:"not null;default:1"`
	MaxPerOrder int `json:"max_per_order" gorm:"not null;default:10"`

	Visible      bool `json:"visible" gorm:"default:true"`
	Refundable   bool `json:"refundable" gorm:"default:true"`
	Transferable bool `json:"transferable" gorm:"default:true"`
	Archived     bool `json:"archived" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (TicketType) TableName() string {
	return "ticket_types"
}

// Price returns the unit price as Money.
func (t *TicketType) Price() money.Money {
	return money.New(t.PriceMinor, t.Currency)
}

// IsOnSale reports whether the type can currently appear in a cart.
func (t *TicketType) IsOnSale() bool {
	return t.Visible && !t.Archived
}

type TicketTypeResponse struct {
	ID           string `json:"id"`
	EventID      string `json:"event_id"`
	Name         string `json:"name"`
	PriceMinor   int64  `json:"price_minor"`
	Currency     string `json:"currency"`
	Capacity     int    `json:"capacity"`
	Available    int    `json:"available"`
	MinPerOrder  int    `json:"min_per_order"`
	MaxPerOrder  int    `json:"max_per_order"`
	Visible      bool   `json:"visible"`
	Refundable   bool   `json:"refundable"`
	Transferable bool   `json:"transferable"`
	Archived     bool   `json:"archived"`
	SoldOut      bool   `json:"sold_out"`
}

func (t *TicketType) ToResponse() TicketTypeResponse {
	return TicketTypeResponse{
		ID:           t.ID.String(),
		EventID:      t.EventID.String(),
		Name:         t.Name,
		PriceMinor:   t.PriceMinor,
		Currency:     t.Currency,
		Capacity:     t.Capacity,
		Available:    t.Available,
		MinPerOrder:  t.MinPerOrder,
		MaxPerOrder:  t.MaxPerOrder,
		Visible:      t.Visible,
		Refundable:   t.Refundable,
		Transferable: t.Transferable,
		Archived:     t.Archived,
		SoldOut:      t.Available == 0,
	}
}

type CreateTicketTypeRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=255"`
	PriceMinor   int64  `json:"price_minor" binding:"min=0"`
	Capacity     int    `json:"capacity" binding:"required,min=1"`
	MinPerOrder  int    `json:"min_per_order" binding:"omitempty,min=1"`
	MaxPerOrder  int    `json:"max_per_order" binding:"omitempty,min=1"`
	Visible      *bool  `json:"visible"`
	Refundable   *bool  `json:"refundable"`
	Transferable *bool  `json:"transferable"`
}

type UpdateTicketTypeRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	PriceMinor   *int64  `json:"price_minor" binding:"omitempty,min=0"`
	MinPerOrder  *int    `json:"min_per_order" binding:"omitempty,min=1"`
	MaxPerOrder  *int    `json:"max_per_order" binding:"omitempty,min=1"`
	Visible      *bool   `json:"visible"`
	Refundable   *bool   `json:"refundable"`
	Transferable *bool   `json:"transferable"`
	Archived     *bool   `json:"archived"`
}
