package models

import (
	"time"

	"finleybook/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // USER | ADMIN
	Tier         string         `gorm:"size:20;not null;default:'FREE'" json:"tier"` // FREE | PRO
	// Connected payout account at the payment processor. Empty until the user
	// finishes onboarding; status mirrors the processor's account state.
	PayoutAccountID     string `gorm:"size:128" json:"payout_account_id"`
	PayoutAccountStatus string `gorm:"size:20;default:''" json:"payout_account_status"` // active | restricted | ''

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Wallet *Wallet `gorm:"foreignKey:UserID" json:"wallet,omitempty"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
func (u *User) IsPro() bool   { return u.Tier == domain.TierPro }

func (User) TableName() string { return "users" }
