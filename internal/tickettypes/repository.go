package tickettypes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ticketType *TicketType) error
	GetByID(id uuid.UUID) (*TicketType, error)
	GetByIDs(ids []uuid.UUID) ([]TicketType, error)
	GetByEventID(eventID uuid.UUID, includeHidden bool) ([]TicketType, error)
	Update(id uuid.UUID, updates map[string]interface{}) (*TicketType, error)
	DecrementAvailable(id uuid.UUID, quantity int) (bool, error)
	IncrementAvailable(id uuid.UUID, quantity int) error
	SetAvailability(id uuid.UUID, capacity, available int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ticketType *TicketType) error {
	return r.db.Create(ticketType).Error
}

func (r *repository) GetByID(id uuid.UUID) (*TicketType, error) {
	var ticketType TicketType
	if err := r.db.Where("id = ?", id).First(&ticketType).Error; err != nil {
		return nil, err
	}
	return &ticketType, nil
}

func (r *repository) GetByIDs(ids []uuid.UUID) ([]TicketType, error) {
	var ticketTypes []TicketType
	err := r.db.Where("id IN ?", ids).Find(&ticketTypes).Error
	return ticketTypes, err
}

func (r *repository) GetByEventID(eventID uuid.UUID, includeHidden bool) ([]TicketType, error) {
	var ticketTypes []TicketType
	db := r.db.Where("event_id = ? AND archived = false", eventID)
	if !includeHidden {
		db = db.Where("visible = true")
	}
	err := db.Order("created_at ASC").Find(&ticketTypes).Error
	return ticketTypes, err
}

func (r *repository) Update(id uuid.UUID, updates map[string]interface{}) (*TicketType, error) {
	var ticketType TicketType
	if err := r.db.Where("id = ?", id).First(&ticketType).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&ticketType).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("id = ?", id).First(&ticketType).Error; err != nil {
		return nil, err
	}
	return &ticketType, nil
}

// DecrementAvailable takes quantity units of inventory atomically. The
// conditional UPDATE makes oversell impossible under concurrent checkouts:
// losers see zero rows affected and report sold out.
func (r *repository) DecrementAvailable(id uuid.UUID, quantity int) (bool, error) {
	result := r.db.Model(&TicketType{}).
		Where("id = ? AND available >= ?", id, quantity).
		UpdateColumn("available", gorm.Expr("available - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) IncrementAvailable(id uuid.UUID, quantity int) error {
	return r.db.Model(&TicketType{}).
		Where("id = ?", id).
		UpdateColumn("available", gorm.Expr("LEAST(available + ?, capacity)", quantity)).Error
}

// SetAvailability overwrites capacity and available together. Used when a
// seated event's category mappings materialize the seat counts.
func (r *repository) SetAvailability(id uuid.UUID, capacity, available int) error {
	return r.db.Model(&TicketType{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"capacity": capacity, "available": available}).Error
}
