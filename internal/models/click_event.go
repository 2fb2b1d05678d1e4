package models

import (
	"time"
)

// ClickEvent records a user following an outbound affiliate link. Created by
// the tracking redirect, mutated by webhook attribution, never deleted.
type ClickEvent struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ClickID    string `gorm:"uniqueIndex;size:64;not null" json:"click_id"` // public id, clk_<uuid>
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	MerchantID uint   `gorm:"not null;index" json:"merchant_id"`
	Type       string `gorm:"size:20;not null;default:'CASHBACK'" json:"type"` // CASHBACK, BOUNTY, GLITCH
	// OriginalURL is the product URL the user asked to shop (may be empty).
	OriginalURL string `gorm:"size:1024" json:"original_url"`
	// OutboundURL is the affiliate URL we redirected to.
	OutboundURL string `gorm:"size:1024" json:"outbound_url"`
	Status      string `gorm:"size:20;not null;index" json:"status"` // CREATED, REDIRECTED, CONVERTED
	IP          string `gorm:"size:64" json:"-"`
	UserAgent   string `gorm:"size:512" json:"-"`

	ClickedAt time.Time `gorm:"index" json:"clicked_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Merchant Merchant `gorm:"foreignKey:MerchantID" json:"merchant,omitempty"`
}

func (ClickEvent) TableName() string { return "click_events" }
