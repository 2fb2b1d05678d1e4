package models

import (
	"time"

	"gorm.io/gorm"
)

// Commission is one commission event from an affiliate network. The external
// key is derived from the network's transaction id (e.g. cf_1234), so a
// redelivered webhook lands on the same row: one network transaction maps to
// exactly one Commission, no matter how many deliveries occur.
type Commission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ExternalKey string `gorm:"uniqueIndex;size:128;not null" json:"external_key"`
	Network     string `gorm:"size:32;not null;index" json:"network"`
	ExternalTxID string `gorm:"size:128;not null" json:"external_tx_id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	// ClickID is nil when attribution failed; the event is recorded anyway.
	ClickID       *uint  `gorm:"index" json:"click_id,omitempty"`
	MerchantRef   string `gorm:"size:128" json:"merchant_ref"`
	NetworkStatus string `gorm:"size:64;not null" json:"network_status"` // raw vocabulary from the source
	Status        string `gorm:"size:20;not null;index" json:"status"`   // PENDING, APPROVED, DECLINED, PAID

	OrderCents      int64  `gorm:"not null;default:0" json:"order_cents"`
	CommissionCents int64  `gorm:"not null;default:0" json:"commission_cents"`
	UserShareCents  int64  `gorm:"not null;default:0" json:"user_share_cents"`
	Currency        string `gorm:"size:3;default:'USD'" json:"currency"`

	OccurredAt time.Time      `json:"occurred_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Click *ClickEvent `gorm:"foreignKey:ClickID" json:"click,omitempty"`
}

func (Commission) TableName() string { return "commissions" }
