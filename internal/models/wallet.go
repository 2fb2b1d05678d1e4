package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet is the denormalized balance snapshot for a user. It is only ever
// mutated in the same DB transaction as the ledger entries that explain the
// change, so it always equals the sum of the corresponding ledger buckets.
type Wallet struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	PendingCents   int64          `gorm:"not null;default:0" json:"pending_cents"`
	AvailableCents int64          `gorm:"not null;default:0" json:"available_cents"`
	LifetimeCents  int64          `gorm:"not null;default:0" json:"lifetime_cents"`
	Currency       string         `gorm:"size:3;default:'USD'" json:"currency"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
