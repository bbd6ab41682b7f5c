package events

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(event *Event) error
	GetByID(id uuid.UUID) (*Event, error)
	Update(id uuid.UUID, updates map[string]interface{}) (*Event, error)
	Delete(id uuid.UUID) error
	GetAll(query EventListQuery) ([]Event, int64, error)
	GetUpcoming(limit int) ([]Event, error)

	CreateServiceCharge(charge *ServiceChargeConfig) error
	DeleteServiceCharge(id uuid.UUID) error
	// GetServiceCharges returns platform-level charges followed by the
	// event's own, each group in insertion order.
	GetServiceCharges(eventID uuid.UUID) ([]ServiceChargeConfig, error)
	NextChargePosition(eventID *uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(event *Event) error {
	return r.db.Create(event).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Event, error) {
	var event Event
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) Update(id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	var event Event
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&event).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&ServiceChargeConfig{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Event{}).Error
	})
}

func (r *repository) GetAll(query EventListQuery) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	db := r.db.Model(&Event{})

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(venue) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}
	offset := (query.Page - 1) * query.Limit

	err := db.Order("date_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&events).Error

	return events, totalCount, err
}

func (r *repository) GetUpcoming(limit int) ([]Event, error) {
	var events []Event
	err := r.db.Where("date_time > ? AND status = ?", time.Now(), StatusPublished).
		Order("date_time ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *repository) CreateServiceCharge(charge *ServiceChargeConfig) error {
	return r.db.Create(charge).Error
}

func (r *repository) DeleteServiceCharge(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&ServiceChargeConfig{}).Error
}

func (r *repository) GetServiceCharges(eventID uuid.UUID) ([]ServiceChargeConfig, error) {
	var charges []ServiceChargeConfig
	err := r.db.Where("event_id IS NULL OR event_id = ?", eventID).
		Order("event_id NULLS FIRST, position ASC").
		Find(&charges).Error
	return charges, err
}

func (r *repository) NextChargePosition(eventID *uuid.UUID) (int, error) {
	var max int
	db := r.db.Model(&ServiceChargeConfig{}).Select("COALESCE(MAX(position), -1)")
	if eventID == nil {
		db = db.Where("event_id IS NULL")
	} else {
		db = db.Where("event_id = ?", *eventID)
	}
	if err := db.Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}
