package promos

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(promo *PromoCode) error
	GetByCode(code string) (*PromoCode, error)
	GetByID(id uuid.UUID) (*PromoCode, error)
	GetAll() ([]PromoCode, error)
	Update(id uuid.UUID, updates map[string]interface{}) (*PromoCode, error)
	Delete(id uuid.UUID) error

	// IncrementUses consumes one use if the ceiling allows it. Returns false
	// when the code is already at max_uses.
	IncrementUses(code string) (bool, error)
	DecrementUses(code string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(promo *PromoCode) error {
	promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
	return r.db.Create(promo).Error
}

func (r *repository) GetByCode(code string) (*PromoCode, error) {
	var promo PromoCode
	err := r.db.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *repository) GetByID(id uuid.UUID) (*PromoCode, error) {
	var promo PromoCode
	if err := r.db.Where("id = ?", id).First(&promo).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *repository) GetAll() ([]PromoCode, error) {
	var promos []PromoCode
	err := r.db.Order("created_at DESC").Find(&promos).Error
	return promos, err
}

func (r *repository) Update(id uuid.UUID, updates map[string]interface{}) (*PromoCode, error) {
	var promo PromoCode
	if err := r.db.Where("id = ?", id).First(&promo).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&promo).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("id = ?", id).First(&promo).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&PromoCode{}).Error
}

// IncrementUses is the single write path for promo consumption. The guarded
// UPDATE serializes concurrent finalizations at the database: when two
// sessions race for the last use, exactly one sees a row affected.
func (r *repository) IncrementUses(code string) (bool, error) {
	result := r.db.Model(&PromoCode{}).
		Where("code = ? AND (max_uses IS NULL OR current_uses < max_uses)", strings.ToUpper(strings.TrimSpace(code))).
		UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) DecrementUses(code string) error {
	return r.db.Model(&PromoCode{}).
		Where("code = ? AND current_uses > 0", strings.ToUpper(strings.TrimSpace(code))).
		UpdateColumn("current_uses", gorm.Expr("current_uses - 1")).Error
}
