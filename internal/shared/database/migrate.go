package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"boxoffice/internal/charts"
	"boxoffice/internal/checkout"
	"boxoffice/internal/events"
	"boxoffice/internal/promos"
	"boxoffice/internal/seating"
	"boxoffice/internal/seats"
	"boxoffice/internal/tickettypes"
)

// Migrate runs schema migrations for all feature models.
func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults need the extension present.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	err := db.AutoMigrate(
		&events.Event{},
		&events.ServiceChargeConfig{},
		&tickettypes.TicketType{},
		&promos.PromoCode{},
		&charts.VenueChart{},
		&charts.ChartSeat{},
		&seats.Seat{},
		&seats.SeatBlock{},
		&seating.SeatingConfiguration{},
		&seating.CategoryMapping{},
		&checkout.Order{},
		&checkout.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	log.Println("✅ Database migrations completed")
	return nil
}
