package charts

import (
	"time"

	"github.com/google/uuid"
)

// Category is a visual/pricing grouping of seats on a chart. Categories
// are immutable once the chart is created; renaming one means creating a
// new chart, because event category mappings key on Category.Key.
type Category struct {
	Key   string `json:"key" binding:"required"`
	Label string `json:"label" binding:"required"`
	Color string `json:"color"`
}

// VenueChart is a reusable seat layout. A chart may back many events, but
// an event has at most one active chart at a time.
type VenueChart struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`

	VenueName    string `json:"venue_name" gorm:"size:255"`
	VenueAddress string `json:"venue_address" gorm:"size:500"`
	VenueCity    string `json:"venue_city" gorm:"size:255"`
	VenueCountry string `json:"venue_country" gorm:"size:255"`

	Categories []Category `json:"categories" gorm:"serializer:json"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (VenueChart) TableName() string {
	return "venue_charts"
}

// CategoryKeys returns the chart's category keys in declaration order.
func (vc *VenueChart) CategoryKeys() []string {
	keys := make([]string, len(vc.Categories))
	for i, cat := range vc.Categories {
		keys[i] = cat.Key
	}
	return keys
}

// HasCategory reports whether the chart declares the given category key.
func (vc *VenueChart) HasCategory(key string) bool {
	for _, cat := range vc.Categories {
		if cat.Key == key {
			return true
		}
	}
	return false
}

// ChartSeat is one addressable seat position on a chart. Labels are unique
// within a chart. These are template positions; live per-event seat rows
// are materialized from them when the chart is assigned to an event.
type ChartSeat struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ChartID     uuid.UUID `json:"chart_id" gorm:"type:uuid;not null;uniqueIndex:idx_chart_seat_label"`
	Label       string    `json:"label" gorm:"not null;size:64;uniqueIndex:idx_chart_seat_label"`
	CategoryKey string    `json:"category_key" gorm:"not null;size:64"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ChartSeat) TableName() string {
	return "chart_seats"
}

type CreateChartRequest struct {
	Name         string     `json:"name" binding:"required,min=1,max=255"`
	Description  string     `json:"description" binding:"max=2000"`
	VenueName    string     `json:"venue_name" binding:"max=255"`
	VenueAddress string     `json:"venue_address" binding:"max=500"`
	VenueCity    string     `json:"venue_city" binding:"max=255"`
	VenueCountry string     `json:"venue_country" binding:"max=255"`
	Categories   []Category `json:"categories" binding:"required,min=1,dive"`
}

// UpdateChartRequest covers the mutable metadata only. Categories are
// deliberately absent.
type UpdateChartRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

type AddSeatRequest struct {
	Label       string `json:"label" binding:"required,min=1,max=64"`
	CategoryKey string `json:"category_key" binding:"required"`
}

type ChartResponse struct {
	VenueChart
	SeatCount int64 `json:"seat_count"`
}
