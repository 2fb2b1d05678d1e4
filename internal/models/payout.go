package models

import (
	"time"

	"gorm.io/gorm"
)

type Payout struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	OrderID     string         `gorm:"size:64;uniqueIndex;not null" json:"order_id"` // po_<uuid>
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Currency    string         `gorm:"size:3;default:'USD'" json:"currency"`
	TransferID  string         `gorm:"size:128" json:"transfer_id"` // from the payment processor
	Status      string         `gorm:"size:20;not null;index" json:"status"` // PENDING, COMPLETED, FAILED
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Payout) TableName() string {
	return "payouts"
}
