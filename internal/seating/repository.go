package seating

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetOrCreate(eventID uuid.UUID) (*SeatingConfiguration, error)
	Get(eventID uuid.UUID) (*SeatingConfiguration, error)
	Save(config *SeatingConfiguration) error

	UpsertMapping(mapping *CategoryMapping) error
	GetMappings(eventID uuid.UUID) ([]CategoryMapping, error)
	GetMapping(eventID uuid.UUID, categoryKey string) (*CategoryMapping, error)
	DeleteMappings(eventID uuid.UUID) error

	// AssignChartTx persists a chart assignment and, when the chart
	// changed, drops the now-orphaned mappings in the same transaction.
	AssignChartTx(config *SeatingConfiguration, chartChanged bool) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreate(eventID uuid.UUID) (*SeatingConfiguration, error) {
	var config SeatingConfiguration
	err := r.db.Where("event_id = ?", eventID).First(&config).Error
	if err == nil {
		return &config, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	config = SeatingConfiguration{EventID: eventID, State: StateSelectChart}
	if err := r.db.Create(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *repository) Get(eventID uuid.UUID) (*SeatingConfiguration, error) {
	var config SeatingConfiguration
	if err := r.db.Where("event_id = ?", eventID).First(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *repository) Save(config *SeatingConfiguration) error {
	return r.db.Save(config).Error
}

func (r *repository) UpsertMapping(mapping *CategoryMapping) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}, {Name: "category_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"chart_id", "ticket_type_id", "price_override_minor", "updated_at",
		}),
	}).Create(mapping).Error
}

func (r *repository) GetMappings(eventID uuid.UUID) ([]CategoryMapping, error) {
	var mappings []CategoryMapping
	err := r.db.Where("event_id = ?", eventID).Order("category_key ASC").Find(&mappings).Error
	return mappings, err
}

func (r *repository) GetMapping(eventID uuid.UUID, categoryKey string) (*CategoryMapping, error) {
	var mapping CategoryMapping
	err := r.db.Where("event_id = ? AND category_key = ?", eventID, categoryKey).First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *repository) DeleteMappings(eventID uuid.UUID) error {
	return r.db.Where("event_id = ?", eventID).Delete(&CategoryMapping{}).Error
}

func (r *repository) AssignChartTx(config *SeatingConfiguration, chartChanged bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if chartChanged {
			if err := tx.Where("event_id = ?", config.EventID).Delete(&CategoryMapping{}).Error; err != nil {
				return err
			}
		}
		return tx.Save(config).Error
	})
}
