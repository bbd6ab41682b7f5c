package seats

import (
	"time"

	"github.com/google/uuid"
)

// SeatStatus is the durable state of a seat. A fourth state, "selected",
// exists only as a Redis hold overlay: selection is advisory and expires,
// so it never touches the database row. The authoritative transition to
// booked happens at purchase commit.
type SeatStatus string

const (
	StatusAvailable SeatStatus = "available"
	StatusBooked    SeatStatus = "booked"
	StatusBlocked   SeatStatus = "blocked"

	// StatusSelected appears only in seat map responses, derived from
	// live Redis holds.
	StatusSelected SeatStatus = "selected"
)

// BlockReason enumerates why seats are administratively withheld.
type BlockReason string

const (
	ReasonVIP         BlockReason = "VIP"
	ReasonMaintenance BlockReason = "MAINTENANCE"
	ReasonPress       BlockReason = "PRESS"
	ReasonReserved    BlockReason = "RESERVED"
)

func (r BlockReason) IsValid() bool {
	switch r {
	case ReasonVIP, ReasonMaintenance, ReasonPress, ReasonReserved:
		return true
	}
	return false
}

// Seat is the live, per-event seat row materialized from a chart seat when
// the chart is assigned. Exactly one status at any instant.
type Seat struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID     uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_seat_label"`
	ChartID     uuid.UUID  `json:"chart_id" gorm:"type:uuid;not null;index"`
	Label       string     `json:"label" gorm:"not null;size:64;uniqueIndex:idx_event_seat_label"`
	CategoryKey string     `json:"category_key" gorm:"not null;size:64"`
	Status      SeatStatus `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`
	BlockID     *uuid.UUID `json:"block_id" gorm:"type:uuid"`
	BookedBy    string     `json:"booked_by,omitempty" gorm:"size:64"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Seat) TableName() string {
	return "seats"
}

// SeatBlock is the audit record behind one batch of blocked seats.
// Unblocking closes the record via ReleasedAt rather than deleting it.
type SeatBlock struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID    uuid.UUID   `json:"event_id" gorm:"type:uuid;not null;index"`
	Labels     []string    `json:"labels" gorm:"serializer:json"`
	Reason     BlockReason `json:"reason" gorm:"type:varchar(20);not null"`
	Notes      string      `json:"notes" gorm:"size:500"`
	CreatedBy  uuid.UUID   `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt  time.Time   `json:"created_at" gorm:"autoCreateTime"`
	ReleasedAt *time.Time  `json:"released_at"`
}

func (SeatBlock) TableName() string {
	return "seat_blocks"
}

// SeatView is a seat map entry with the selection overlay applied.
type SeatView struct {
	Label       string     `json:"label"`
	CategoryKey string     `json:"category_key"`
	Status      SeatStatus `json:"status"`
}

type SelectSeatsRequest struct {
	EventID string   `json:"event_id" binding:"required,uuid"`
	Labels  []string `json:"labels"`
	// LabelText is the free-text administrative entry path: labels
	// separated by commas, whitespace, or newlines. Merged with Labels.
	LabelText string `json:"label_text"`
}

type SelectionResult struct {
	SelectionID string    `json:"selection_id"`
	EventID     string    `json:"event_id"`
	Labels      []string  `json:"labels"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type BlockSeatsRequest struct {
	Labels    []string `json:"labels"`
	LabelText string   `json:"label_text"`
	Reason    string   `json:"reason" binding:"required"`
	Notes     string   `json:"notes"`
}

type BlockResult struct {
	BlockID      string      `json:"block_id"`
	BlockedCount int         `json:"blocked_count"`
	Reason       BlockReason `json:"reason"`
}

type UnblockSeatsRequest struct {
	Labels    []string `json:"labels"`
	LabelText string   `json:"label_text"`
}
