package repository

import (
	"finleybook/internal/models"

	"gorm.io/gorm"
)

type ClickRepository struct {
	db *gorm.DB
}

func NewClickRepository(db *gorm.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

func (r *ClickRepository) Create(c *models.ClickEvent) error {
	return r.db.Create(c).Error
}

func (r *ClickRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.ClickEvent{}).Where("id = ?", id).Update("status", status).Error
}

func (r *ClickRepository) ListByUser(userID uint, limit, offset int) ([]models.ClickEvent, int64, error) {
	var clicks []models.ClickEvent
	var total int64
	q := r.db.Model(&models.ClickEvent{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Preload("Merchant").Where("user_id = ?", userID).
		Order("clicked_at DESC").Limit(limit).Offset(offset).Find(&clicks).Error
	return clicks, total, err
}
