package repository

import (
	"finleybook/internal/models"

	"gorm.io/gorm"
)

type MerchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

func (r *MerchantRepository) Create(m *models.Merchant) error {
	return r.db.Create(m).Error
}

func (r *MerchantRepository) Update(m *models.Merchant) error {
	return r.db.Save(m).Error
}

func (r *MerchantRepository) Delete(id uint) error {
	return r.db.Delete(&models.Merchant{}, id).Error
}

func (r *MerchantRepository) GetByID(id uint) (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MerchantRepository) GetBySlug(slug string) (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.Where("slug = ?", slug).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListActive returns merchants visible to users, featured first.
func (r *MerchantRepository) ListActive(category string) ([]models.Merchant, error) {
	var merchants []models.Merchant
	q := r.db.Where("active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("featured DESC, name ASC").Find(&merchants).Error
	return merchants, err
}

func (r *MerchantRepository) ListAll() ([]models.Merchant, error) {
	var merchants []models.Merchant
	err := r.db.Order("name ASC").Find(&merchants).Error
	return merchants, err
}
