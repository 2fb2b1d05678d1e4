package repository

import (
	"finleybook/internal/models"

	"gorm.io/gorm"
)

type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

func (r *CommissionRepository) GetByID(id uint) (*models.Commission, error) {
	var c models.Commission
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommissionRepository) ListByUser(userID uint, limit, offset int) ([]models.Commission, int64, error) {
	var commissions []models.Commission
	var total int64
	q := r.db.Model(&models.Commission{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&commissions).Error
	return commissions, total, err
}

// List returns commissions for the admin view, optionally filtered by status
// or network.
func (r *CommissionRepository) List(status, network string, limit, offset int) ([]models.Commission, int64, error) {
	var commissions []models.Commission
	var total int64
	q := r.db.Model(&models.Commission{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if network != "" {
		q = q.Where("network = ?", network)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&commissions).Error
	return commissions, total, err
}
