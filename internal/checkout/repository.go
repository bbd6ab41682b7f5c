package checkout

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(order *Order) error
	GetByID(id uuid.UUID) (*Order, error)
	GetBySession(sessionID string) ([]Order, error)
	GetByEvent(eventID uuid.UUID) ([]Order, error)
	UpdateStatus(id uuid.UUID, status OrderStatus) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(order *Order) error {
	// Items ride along via the association.
	return r.db.Create(order).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Order, error) {
	var order Order
	if err := r.db.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) GetBySession(sessionID string) ([]Order, error) {
	var orders []Order
	err := r.db.Preload("Items").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *repository) GetByEvent(eventID uuid.UUID) ([]Order, error) {
	var orders []Order
	err := r.db.Preload("Items").
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *repository) UpdateStatus(id uuid.UUID, status OrderStatus) error {
	return r.db.Model(&Order{}).Where("id = ?", id).Update("status", status).Error
}
