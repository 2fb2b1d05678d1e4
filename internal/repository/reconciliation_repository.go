package repository

import (
	"context"
	"errors"

	"finleybook/internal/domain"
	"finleybook/internal/models"
	"finleybook/internal/service"

	"gorm.io/gorm"
)

// ReconciliationRepository implements service.CashbackStore. Apply runs the
// whole plan in one DB transaction so a crash mid-reconcile can never leave a
// commission row without its ledger entries or wallet increments.
type ReconciliationRepository struct {
	db *gorm.DB
}

func NewReconciliationRepository(db *gorm.DB) *ReconciliationRepository {
	return &ReconciliationRepository{db: db}
}

func (r *ReconciliationRepository) GetCommission(externalKey string) (*models.Commission, error) {
	var c models.Commission
	err := r.db.Where("external_key = ?", externalKey).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ReconciliationRepository) GetClickByPublicID(clickID string) (*models.ClickEvent, error) {
	var c models.ClickEvent
	err := r.db.Where("click_id = ?", clickID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ReconciliationRepository) GetUser(id uint) (*models.User, error) {
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

func (r *ReconciliationRepository) Apply(ctx context.Context, plan *service.ReconcilePlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if plan.Create {
			if err := tx.Create(plan.Commission).Error; err != nil {
				return err
			}
		} else {
			updates := map[string]interface{}{
				"status":         plan.NewStatus,
				"network_status": plan.NewNetworkStatus,
			}
			if err := tx.Model(&models.Commission{}).Where("id = ?", plan.CommissionID).Updates(updates).Error; err != nil {
				return err
			}
		}

		for i := range plan.Entries {
			if err := tx.Create(&plan.Entries[i]).Error; err != nil {
				return err
			}
		}

		if plan.Delta != (service.WalletDelta{}) {
			if _, err := getOrCreateWallet(tx, plan.UserID); err != nil {
				return err
			}
			updates := map[string]interface{}{}
			if plan.Delta.Pending != 0 {
				updates["pending_cents"] = gorm.Expr("pending_cents + ?", plan.Delta.Pending)
			}
			if plan.Delta.Available != 0 {
				updates["available_cents"] = gorm.Expr("available_cents + ?", plan.Delta.Available)
			}
			if plan.Delta.Lifetime != 0 {
				updates["lifetime_cents"] = gorm.Expr("lifetime_cents + ?", plan.Delta.Lifetime)
			}
			if err := tx.Model(&models.Wallet{}).Where("user_id = ?", plan.UserID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if plan.ConvertClickID != 0 {
			if err := tx.Model(&models.ClickEvent{}).Where("id = ?", plan.ConvertClickID).
				Update("status", domain.ClickStatusConverted).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
