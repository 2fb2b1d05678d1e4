package models

import (
	"time"

	"gorm.io/gorm"
)

// Merchant is partner reference data: where we can send users and on what
// terms. Created by an administrator, read by the link generator and the UI.
type Merchant struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Slug     string `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Name     string `gorm:"size:128;not null" json:"name"`
	LogoURL  string `gorm:"size:512" json:"logo_url"`
	Category string `gorm:"size:64;index" json:"category"`
	// Base commission rate as a fraction of order value, e.g. 0.04 for 4%.
	BaseRate float64 `gorm:"type:decimal(6,4);not null;default:0" json:"base_rate"`
	// Tracking-link template with {USER_ID}, {CLICK_ID}, {PRODUCT_URL} and
	// {PRODUCT_ID} placeholders.
	LinkTemplate string `gorm:"size:1024;not null" json:"link_template"`
	// Optional regex used to pull a product id out of a product URL
	// (e.g. an Amazon ASIN). First capture group wins.
	ProductIDPattern string `gorm:"size:255" json:"product_id_pattern"`
	Featured         bool   `gorm:"default:false" json:"featured"`
	Active           bool   `gorm:"default:true;index" json:"active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Merchant) TableName() string { return "merchants" }
