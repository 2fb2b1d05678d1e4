package repository

import (
	"errors"
	"time"

	"finleybook/internal/domain"
	"finleybook/internal/models"

	"gorm.io/gorm"
)

// PayoutRepository implements service.PayoutStore. The debit and its ledger
// entry are written in one transaction, as is the refund on transfer failure.
type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) GetUser(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PayoutRepository) GetWallet(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PayoutRepository) SumPayoutsSince(userID uint, since time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&models.Payout{}).
		Where("user_id = ? AND status <> ? AND created_at >= ?", userID, domain.PayoutStatusFailed, since).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&total).Error
	return total, err
}

func (r *PayoutRepository) CreatePending(p *models.Payout, e *models.LedgerEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		// Guarded decrement: fails the transaction if the balance moved under us.
		res := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND available_cents >= ?", p.UserID, p.AmountCents).
			Update("available_cents", gorm.Expr("available_cents - ?", p.AmountCents))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("insufficient available balance")
		}
		return nil
	})
}

func (r *PayoutRepository) MarkCompleted(p *models.Payout, transferID string) error {
	now := time.Now()
	p.TransferID = transferID
	p.Status = domain.PayoutStatusCompleted
	p.CompletedAt = &now
	return r.db.Model(p).Updates(map[string]interface{}{
		"transfer_id":  transferID,
		"status":       domain.PayoutStatusCompleted,
		"completed_at": now,
	}).Error
}

func (r *PayoutRepository) MarkFailedAndRefund(p *models.Payout, e *models.LedgerEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(p).Update("status", domain.PayoutStatusFailed).Error; err != nil {
			return err
		}
		p.Status = domain.PayoutStatusFailed
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		return tx.Model(&models.Wallet{}).Where("user_id = ?", p.UserID).
			Update("available_cents", gorm.Expr("available_cents + ?", p.AmountCents)).Error
	})
}

func (r *PayoutRepository) ListByUser(userID uint, limit, offset int) ([]models.Payout, int64, error) {
	var payouts []models.Payout
	var total int64
	q := r.db.Model(&models.Payout{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&payouts).Error
	return payouts, total, err
}
