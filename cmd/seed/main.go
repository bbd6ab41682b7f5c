package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"boxoffice/internal/charts"
	"boxoffice/internal/events"
	"boxoffice/internal/promos"
	"boxoffice/internal/seating"
	"boxoffice/internal/seats"
	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/database"
	"boxoffice/internal/tickettypes"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Boxoffice Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"order_items",
		"orders",
		"category_mappings",
		"seating_configurations",
		"seat_blocks",
		"seats",
		"chart_seats",
		"venue_charts",
		"promo_codes",
		"ticket_types",
		"service_charge_configs",
		"events",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds a general admission event, a seated event with a mapped
// chart, ticket types and promo codes.
func (s *Seeder) SeedAll() error {
	organizerID := uuid.New()

	gaEvent, err := s.seedGeneralAdmissionEvent(organizerID)
	if err != nil {
		return fmt.Errorf("failed to seed general admission event: %w", err)
	}
	if err := s.seedPromos(organizerID, gaEvent); err != nil {
		return fmt.Errorf("failed to seed promos: %w", err)
	}
	if err := s.seedSeatedEvent(organizerID); err != nil {
		return fmt.Errorf("failed to seed seated event: %w", err)
	}
	return nil
}

func (s *Seeder) seedGeneralAdmissionEvent(organizerID uuid.UUID) (*events.Event, error) {
	pg := s.db.PostgreSQL

	event := &events.Event{
		Name:           "Summer Open Air",
		Description:    "Outdoor festival, standing only",
		Venue:          "Riverside Park",
		DateTime:       time.Now().AddDate(0, 2, 0),
		SeatingType:    events.SeatingGeneralAdmission,
		Status:         events.StatusPublished,
		Currency:       "GBP",
		TaxRatePercent: 20,
		CreatedBy:      organizerID,
	}
	if err := pg.Create(event).Error; err != nil {
		return nil, err
	}
	fmt.Printf("  Created event: %s (%s)\n", event.Name, event.ID)

	ticketTypes := []tickettypes.TicketType{
		{EventID: event.ID, Name: "General", PriceMinor: 5000, Currency: "GBP", Capacity: 500, Available: 500, MinPerOrder: 1, MaxPerOrder: 10, Visible: true},
		{EventID: event.ID, Name: "Early Bird", PriceMinor: 3500, Currency: "GBP", Capacity: 100, Available: 100, MinPerOrder: 1, MaxPerOrder: 4, Visible: true},
	}
	for i := range ticketTypes {
		if err := pg.Create(&ticketTypes[i]).Error; err != nil {
			return nil, err
		}
		fmt.Printf("  Created ticket type: %s\n", ticketTypes[i].Name)
	}

	charges := []events.ServiceChargeConfig{
		{Title: "Platform fee", Scope: "per_cart", Kind: "percentage", RatePercent: 2.5, Position: 0},
		{EventID: &event.ID, Title: "Booking fee", Scope: "per_ticket", Kind: "fixed_price", AmountMinor: 150, Position: 0},
	}
	for i := range charges {
		if err := pg.Create(&charges[i]).Error; err != nil {
			return nil, err
		}
		fmt.Printf("  Created service charge: %s\n", charges[i].Title)
	}

	return event, nil
}

func (s *Seeder) seedPromos(organizerID uuid.UUID, event *events.Event) error {
	pg := s.db.PostgreSQL

	maxUses := 100
	validTo := time.Now().AddDate(0, 1, 0)
	codes := []promos.PromoCode{
		{Code: "SAVE10", DiscountType: promos.DiscountPercentage, PercentOff: 10, MaxUses: &maxUses, Active: true, CreatedBy: organizerID},
		{Code: "FIVER", DiscountType: promos.DiscountFixed, AmountMinor: 500, MinOrderMinor: 2000, ValidTo: &validTo, Active: true, CreatedBy: organizerID},
	}
	for i := range codes {
		if err := pg.Create(&codes[i]).Error; err != nil {
			return err
		}
		fmt.Printf("  Created promo code: %s\n", codes[i].Code)
	}
	return nil
}

func (s *Seeder) seedSeatedEvent(organizerID uuid.UUID) error {
	pg := s.db.PostgreSQL

	event := &events.Event{
		Name:           "Chamber Orchestra Evening",
		Description:    "Reserved seating concert",
		Venue:          "Grand Hall",
		DateTime:       time.Now().AddDate(0, 3, 0),
		SeatingType:    events.SeatingSeated,
		Status:         events.StatusPublished,
		Currency:       "GBP",
		TaxRatePercent: 20,
		CreatedBy:      organizerID,
	}
	if err := pg.Create(event).Error; err != nil {
		return err
	}
	fmt.Printf("  Created event: %s (%s)\n", event.Name, event.ID)

	chart := &charts.VenueChart{
		Name:      "Grand Hall Standard",
		VenueName: "Grand Hall",
		VenueCity: "London",
		Categories: []charts.Category{
			{Key: "vip", Label: "VIP", Color: "#c9a227"},
			{Key: "standard", Label: "Standard", Color: "#3b6ea5"},
		},
		CreatedBy: organizerID,
	}
	if err := pg.Create(chart).Error; err != nil {
		return err
	}
	fmt.Printf("  Created venue chart: %s\n", chart.Name)

	var chartSeats []charts.ChartSeat
	for row := 'A'; row <= 'B'; row++ {
		for num := 1; num <= 10; num++ {
			category := "standard"
			if row == 'A' {
				category = "vip"
			}
			chartSeats = append(chartSeats, charts.ChartSeat{
				ChartID:     chart.ID,
				Label:       fmt.Sprintf("%c-%d", row, num),
				CategoryKey: category,
			})
		}
	}
	if err := pg.Create(&chartSeats).Error; err != nil {
		return err
	}
	fmt.Printf("  Created %d chart seats\n", len(chartSeats))

	ticketTypes := []tickettypes.TicketType{
		{EventID: event.ID, Name: "VIP", PriceMinor: 15000, Currency: "GBP", Capacity: 10, Available: 10, MinPerOrder: 1, MaxPerOrder: 6, Visible: true},
		{EventID: event.ID, Name: "Standard", PriceMinor: 7500, Currency: "GBP", Capacity: 10, Available: 10, MinPerOrder: 1, MaxPerOrder: 8, Visible: true},
	}
	for i := range ticketTypes {
		if err := pg.Create(&ticketTypes[i]).Error; err != nil {
			return err
		}
	}

	// Materialize live seats and a complete seating configuration.
	var liveSeats []seats.Seat
	for _, cs := range chartSeats {
		liveSeats = append(liveSeats, seats.Seat{
			EventID:     event.ID,
			ChartID:     chart.ID,
			Label:       cs.Label,
			CategoryKey: cs.CategoryKey,
			Status:      seats.StatusAvailable,
		})
	}
	if err := pg.Create(&liveSeats).Error; err != nil {
		return err
	}

	configuration := &seating.SeatingConfiguration{
		EventID: event.ID,
		ChartID: &chart.ID,
		State:   seating.StateComplete,
	}
	if err := pg.Create(configuration).Error; err != nil {
		return err
	}

	mappings := []seating.CategoryMapping{
		{EventID: event.ID, ChartID: chart.ID, CategoryKey: "vip", TicketTypeID: ticketTypes[0].ID},
		{EventID: event.ID, ChartID: chart.ID, CategoryKey: "standard", TicketTypeID: ticketTypes[1].ID},
	}
	for i := range mappings {
		if err := pg.Create(&mappings[i]).Error; err != nil {
			return err
		}
	}
	fmt.Println("  Seating configuration complete with category mappings")

	return nil
}
