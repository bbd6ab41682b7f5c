package events

import (
	"time"

	"github.com/google/uuid"

	"boxoffice/internal/money"
)

// SeatingType distinguishes the two ticketing modes. General admission
// events track inventory purely by quantity; seated events are backed by
// a venue chart with individually addressable seats.
type SeatingType string

const (
	SeatingGeneralAdmission SeatingType = "general_admission"
	SeatingSeated           SeatingType = "seated"
)

type Event struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string      `json:"name" gorm:"not null;size:255"`
	Description string      `json:"description" gorm:"type:text"`
	Venue       string      `json:"venue" gorm:"not null;size:255"`
	DateTime    time.Time   `json:"date_time" gorm:"not null"`
	SeatingType SeatingType `json:"seating_type" gorm:"type:varchar(20);not null;default:'general_admission'"`
	Status      EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`

	// Pricing configuration
	Currency       string  `json:"currency" gorm:"type:varchar(3);not null;default:'GBP'"`
	TaxRatePercent float64 `json:"tax_rate_percent" gorm:"default:0;check:tax_rate_percent >= 0"`

	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

// IsSeated reports whether the event uses per-seat inventory.
func (e *Event) IsSeated() bool {
	return e.SeatingType == SeatingSeated
}

// ServiceChargeConfig is a stored fee line attached either to one event or
// to the platform as a whole (nil EventID). Position preserves insertion
// order; charges are read-only at pricing time and strictly additive.
type ServiceChargeConfig struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID     *uuid.UUID `json:"event_id" gorm:"type:uuid;index"`
	Title       string     `json:"title" gorm:"not null;size:255"`
	Scope       string     `json:"scope" gorm:"type:varchar(20);not null;check:scope IN ('per_ticket','per_cart')"`
	Kind        string     `json:"kind" gorm:"type:varchar(20);not null;check:kind IN ('fixed_price','percentage')"`
	AmountMinor int64      `json:"amount_minor" gorm:"default:0"`
	RatePercent float64    `json:"rate_percent" gorm:"default:0"`
	Position    int        `json:"position" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (ServiceChargeConfig) TableName() string {
	return "service_charge_configs"
}

// ToServiceCharge adapts the stored row to the canonical charge shape the
// pricing engine computes with. All field-name variance stops here.
func (c *ServiceChargeConfig) ToServiceCharge() money.ServiceCharge {
	return money.ServiceCharge{
		Title:  c.Title,
		Scope:  money.ChargeScope(c.Scope),
		Kind:   money.ChargeKind(c.Kind),
		Amount: c.AmountMinor,
		Rate:   c.RatePercent,
	}
}

// Request/response models

type EventResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Venue          string      `json:"venue"`
	DateTime       time.Time   `json:"date_time"`
	SeatingType    SeatingType `json:"seating_type"`
	Status         EventStatus `json:"status"`
	Currency       string      `json:"currency"`
	TaxRatePercent float64     `json:"tax_rate_percent"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:             e.ID.String(),
		Name:           e.Name,
		Description:    e.Description,
		Venue:          e.Venue,
		DateTime:       e.DateTime,
		SeatingType:    e.SeatingType,
		Status:         e.Status,
		Currency:       e.Currency,
		TaxRatePercent: e.TaxRatePercent,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

type CreateEventRequest struct {
	Name           string    `json:"name" binding:"required,min=3,max=255"`
	Description    string    `json:"description" binding:"max=2000"`
	Venue          string    `json:"venue" binding:"required,min=3,max=255"`
	DateTime       time.Time `json:"date_time" binding:"required"`
	SeatingType    string    `json:"seating_type" binding:"required,oneof=general_admission seated"`
	Currency       string    `json:"currency" binding:"omitempty,len=3"`
	TaxRatePercent float64   `json:"tax_rate_percent" binding:"omitempty,min=0,max=100"`
}

type UpdateEventRequest struct {
	Name           *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description    *string    `json:"description" binding:"omitempty,max=2000"`
	Venue          *string    `json:"venue" binding:"omitempty,min=3,max=255"`
	DateTime       *time.Time `json:"date_time"`
	Status         *string    `json:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	TaxRatePercent *float64   `json:"tax_rate_percent" binding:"omitempty,min=0,max=100"`
}

type CreateServiceChargeRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Scope       string  `json:"scope" binding:"required,oneof=per_ticket per_cart"`
	Kind        string  `json:"kind" binding:"required,oneof=fixed_price percentage"`
	AmountMinor int64   `json:"amount_minor" binding:"omitempty,min=0"`
	RatePercent float64 `json:"rate_percent" binding:"omitempty,min=0,max=100"`
}

type EventListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	Status string `form:"status" binding:"omitempty,oneof=draft published cancelled completed"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
