package repository

import (
	"strconv"

	"finleybook/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(key string) (string, error) {
	var s models.SystemSetting
	if err := r.db.Where("`key` = ?", key).First(&s).Error; err != nil {
		return "", err
	}
	return s.Value, nil
}

func (r *SettingRepository) Set(key, value string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.SystemSetting{Key: key, Value: value}).Error
}

func (r *SettingRepository) List() ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	err := r.db.Order("`key` ASC").Find(&settings).Error
	return settings, err
}

// GetInt64 reads a numeric setting, falling back when the key is absent or
// malformed. Satisfies service.SettingStore.
func (r *SettingRepository) GetInt64(key string, fallback int64) int64 {
	v, err := r.Get(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
