package checkout

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderConfirmed OrderStatus = "confirmed"
	OrderRefunded  OrderStatus = "refunded"
)

// Order is the immutable record of a completed purchase. Every amount is
// denormalized at confirmation time; later price or promo edits never
// touch past orders.
type Order struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID   uuid.UUID   `json:"event_id" gorm:"type:uuid;not null;index"`
	SessionID string      `json:"session_id" gorm:"not null;size:64;index"`
	UserID    *uuid.UUID  `json:"user_id" gorm:"type:uuid;index"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'confirmed'"`

	Currency      string `json:"currency" gorm:"not null;size:3"`
	SubtotalMinor int64  `json:"subtotal_minor" gorm:"not null"`
	DiscountMinor int64  `json:"discount_minor" gorm:"not null;default:0"`
	FeesMinor     int64  `json:"fees_minor" gorm:"not null;default:0"`
	TaxMinor      int64  `json:"tax_minor" gorm:"not null;default:0"`
	TotalMinor    int64  `json:"total_minor" gorm:"not null"`

	PromoCode  string `json:"promo_code,omitempty" gorm:"size:64"`
	PaymentRef string `json:"payment_ref" gorm:"not null;size:128"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one purchased line. General admission lines carry a
// quantity; seated lines carry a single seat label with quantity 1.
type OrderItem struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrderID        uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	TicketTypeID   uuid.UUID `json:"ticket_type_id" gorm:"type:uuid;not null"`
	TicketTypeName string    `json:"ticket_type_name" gorm:"size:255"`
	SeatLabel      string    `json:"seat_label,omitempty" gorm:"size:64"`
	Quantity       int       `json:"quantity" gorm:"not null"`
	UnitPriceMinor int64     `json:"unit_price_minor" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type CheckoutRequest struct {
	// PaymentToken is the tokenized payment instrument from the payment
	// provider's client-side SDK.
	PaymentToken string `json:"payment_token" binding:"required"`
	// ExpectedTotalMinor guards against the shopper confirming a total the
	// server no longer agrees with.
	ExpectedTotalMinor *int64 `json:"expected_total_minor"`
}
