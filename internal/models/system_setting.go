package models

import (
	"time"
)

// SystemSetting is an admin-tunable platform knob, read at request time so
// changes apply without a restart. Known keys include payout_min_cents,
// free_monthly_cap_cents and pro_monthly_cap_cents; numeric values are stored
// as decimal strings.
type SystemSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value     string    `gorm:"size:512;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SystemSetting) TableName() string { return "system_settings" }
