package repository

import (
	"errors"

	"finleybook/internal/models"

	"gorm.io/gorm"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetOrCreate returns the user's wallet, creating an empty one on first use.
func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	return getOrCreateWallet(r.db, userID)
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func getOrCreateWallet(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w = models.Wallet{UserID: userID, Currency: "USD"}
		if err := tx.Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}
