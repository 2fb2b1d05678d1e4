package repository

import (
	"finleybook/internal/models"

	"gorm.io/gorm"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) ListByUser(userID uint, limit, offset int) ([]models.LedgerEntry, int64, error) {
	var entries []models.LedgerEntry
	var total int64
	q := r.db.Model(&models.LedgerEntry{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}

// SumByTypes returns the signed total of the given entry types for a user.
// The admin wallet audit compares these sums against the wallet snapshot.
func (r *LedgerRepository) SumByTypes(userID uint, types []string) (int64, error) {
	var total int64
	err := r.db.Model(&models.LedgerEntry{}).
		Where("user_id = ? AND type IN ?", userID, types).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&total).Error
	return total, err
}
