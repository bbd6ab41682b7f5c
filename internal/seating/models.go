package seating

import (
	"time"

	"github.com/google/uuid"
)

// State is the seating configuration lifecycle position for one seated
// event. The flow is select_chart -> (create_chart -> design_chart) ->
// map_categories -> complete, with reconfigure re-entering select_chart.
type State string

const (
	StateSelectChart   State = "select_chart"
	StateCreateChart   State = "create_chart"
	StateDesignChart   State = "design_chart"
	StateMapCategories State = "map_categories"
	StateComplete      State = "complete"
)

// SeatingConfiguration is the per-event aggregate: assigned chart, mapping
// progress, lifecycle state. One row per seated event, created on first
// touch.
type SeatingConfiguration struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID   uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;uniqueIndex"`
	ChartID   *uuid.UUID `json:"chart_id" gorm:"type:uuid"`
	State     State      `json:"state" gorm:"type:varchar(20);not null;default:'select_chart'"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (SeatingConfiguration) TableName() string {
	return "seating_configurations"
}

// CategoryMapping binds one chart category to a sellable ticket type for
// one event. Mappings are event scoped even though charts are reusable;
// assigning a different chart invalidates them all.
type CategoryMapping struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID            uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_category"`
	ChartID            uuid.UUID `json:"chart_id" gorm:"type:uuid;not null"`
	CategoryKey        string    `json:"category_key" gorm:"not null;size:64;uniqueIndex:idx_event_category"`
	TicketTypeID       uuid.UUID `json:"ticket_type_id" gorm:"type:uuid;not null"`
	PriceOverrideMinor *int64    `json:"price_override_minor"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CategoryMapping) TableName() string {
	return "category_mappings"
}

type ConfigurationResponse struct {
	EventID    string            `json:"event_id"`
	ChartID    string            `json:"chart_id,omitempty"`
	State      State             `json:"state"`
	Mappings   []CategoryMapping `json:"mappings"`
	Categories []string          `json:"categories,omitempty"`
	Unmapped   []string          `json:"unmapped,omitempty"`
}

type AssignChartRequest struct {
	ChartID string `json:"chart_id" binding:"required,uuid"`
}

type MapCategoryRequest struct {
	CategoryKey        string `json:"category_key" binding:"required"`
	TicketTypeID       string `json:"ticket_type_id" binding:"required,uuid"`
	PriceOverrideMinor *int64 `json:"price_override_minor" binding:"omitempty,min=0"`
}
