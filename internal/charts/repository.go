package charts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(chart *VenueChart) error
	GetByID(id uuid.UUID) (*VenueChart, error)
	GetAll() ([]VenueChart, error)
	Update(id uuid.UUID, updates map[string]interface{}) (*VenueChart, error)
	Delete(id uuid.UUID) error

	AddSeats(seats []ChartSeat) error
	GetSeats(chartID uuid.UUID) ([]ChartSeat, error)
	CountSeats(chartID uuid.UUID) (int64, error)
	DeleteSeat(chartID uuid.UUID, label string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(chart *VenueChart) error {
	return r.db.Create(chart).Error
}

func (r *repository) GetByID(id uuid.UUID) (*VenueChart, error) {
	var chart VenueChart
	if err := r.db.Where("id = ?", id).First(&chart).Error; err != nil {
		return nil, err
	}
	return &chart, nil
}

func (r *repository) GetAll() ([]VenueChart, error) {
	var charts []VenueChart
	err := r.db.Order("created_at DESC").Find(&charts).Error
	return charts, err
}

func (r *repository) Update(id uuid.UUID, updates map[string]interface{}) (*VenueChart, error) {
	var chart VenueChart
	if err := r.db.Where("id = ?", id).First(&chart).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&chart).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("id = ?", id).First(&chart).Error; err != nil {
		return nil, err
	}
	return &chart, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chart_id = ?", id).Delete(&ChartSeat{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&VenueChart{}).Error
	})
}

func (r *repository) AddSeats(seats []ChartSeat) error {
	if len(seats) == 0 {
		return nil
	}
	return r.db.Create(&seats).Error
}

func (r *repository) GetSeats(chartID uuid.UUID) ([]ChartSeat, error) {
	var seats []ChartSeat
	err := r.db.Where("chart_id = ?", chartID).Order("label ASC").Find(&seats).Error
	return seats, err
}

func (r *repository) CountSeats(chartID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&ChartSeat{}).Where("chart_id = ?", chartID).Count(&count).Error
	return count, err
}

func (r *repository) DeleteSeat(chartID uuid.UUID, label string) error {
	return r.db.Where("chart_id = ? AND label = ?", chartID, label).Delete(&ChartSeat{}).Error
}
