package models

import "time"

// LedgerEntry is the append-only audit record of every balance-affecting
// event. Rows are never updated or deleted; the wallet snapshot is derived
// from them by construction.
type LedgerEntry struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Type        string `gorm:"size:30;not null;index" json:"type"`
	AmountCents int64  `gorm:"not null" json:"amount_cents"` // signed
	Currency    string `gorm:"size:3;default:'USD'" json:"currency"`
	Network     string `gorm:"size:32" json:"network"`
	// ExternalRef ties the entry back to its source: a commission external
	// key, or a payout order id.
	ExternalRef string    `gorm:"size:128;index" json:"external_ref"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }
