package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"finleybook/config"
	"finleybook/internal/domain"
	"finleybook/internal/models"
	"finleybook/pkg/payout"

	"github.com/google/uuid"
)

var (
	ErrNoPayoutAccount   = errors.New("no payout account connected")
	ErrAccountRestricted = errors.New("payout account is restricted")
	ErrBelowMinimum      = errors.New("balance below payout minimum")
	ErrExceedsCap        = errors.New("payout exceeds monthly cap for tier")
	ErrTransferFailed    = errors.New("transfer failed")
)

// PayoutStore is the persistence surface payouts need. Writes that touch the
// wallet pair the payout row with its ledger entry in one DB transaction.
type PayoutStore interface {
	GetUser(id uint) (*models.User, error)
	GetWallet(userID uint) (*models.Wallet, error)
	// SumPayoutsSince returns the total of non-FAILED payouts created at or
	// after since, in cents.
	SumPayoutsSince(userID uint, since time.Time) (int64, error)
	// CreatePending inserts the payout, debits available_cents and writes the
	// WITHDRAWAL ledger entry atomically.
	CreatePending(p *models.Payout, e *models.LedgerEntry) error
	MarkCompleted(p *models.Payout, transferID string) error
	// MarkFailedAndRefund flips the payout to FAILED, credits the debit back
	// and writes the WITHDRAWAL_REVERSED entry atomically.
	MarkFailedAndRefund(p *models.Payout, e *models.LedgerEntry) error
}

// Transferer is the external payment processor's transfer call.
type Transferer interface {
	Transfer(ctx context.Context, req payout.TransferRequest) (*payout.TransferResponse, error)
}

// SettingStore reads admin-tunable limits, falling back to config defaults.
type SettingStore interface {
	GetInt64(key string, fallback int64) int64
}

type PayoutService struct {
	store    PayoutStore
	transfer Transferer
	settings SettingStore
	cfg      *config.PayoutConfig
}

func NewPayoutService(store PayoutStore, transfer Transferer, settings SettingStore, cfg *config.PayoutConfig) *PayoutService {
	return &PayoutService{store: store, transfer: transfer, settings: settings, cfg: cfg}
}

// RequestPayout withdraws the user's full available balance to their
// connected payout account. Validation order: account connected, minimum
// balance, tier monthly cap, account not restricted. The debit happens before
// the transfer call and is compensated if the transfer fails, so a crash can
// leave money held back but never sent twice.
func (s *PayoutService) RequestPayout(ctx context.Context, userID uint) (*models.Payout, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PayoutAccountID == "" {
		return nil, ErrNoPayoutAccount
	}
	wallet, err := s.store.GetWallet(userID)
	if err != nil {
		return nil, err
	}
	amount := int64(0)
	currency := "USD"
	if wallet != nil {
		amount = wallet.AvailableCents
		currency = wallet.Currency
	}
	min := s.settings.GetInt64(domain.SettingMinPayoutCents, s.cfg.MinCents)
	if amount < min {
		return nil, ErrBelowMinimum
	}
	cap := s.settings.GetInt64(domain.SettingFreeMonthlyCapCents, s.cfg.FreeMonthlyCapCents)
	if user.IsPro() {
		cap = s.settings.GetInt64(domain.SettingProMonthlyCapCents, s.cfg.ProMonthlyCapCents)
	}
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthToDate, err := s.store.SumPayoutsSince(userID, monthStart)
	if err != nil {
		return nil, err
	}
	if monthToDate+amount > cap {
		return nil, ErrExceedsCap
	}
	if user.PayoutAccountStatus == domain.PayoutAccountRestricted {
		return nil, ErrAccountRestricted
	}

	orderID := fmt.Sprintf("po_%s", uuid.New().String())
	p := &models.Payout{
		UserID:      userID,
		OrderID:     orderID,
		AmountCents: amount,
		Currency:    currency,
		Status:      domain.PayoutStatusPending,
	}
	debit := models.LedgerEntry{
		UserID:      userID,
		Type:        domain.LedgerWithdrawal,
		AmountCents: -amount,
		Currency:    currency,
		ExternalRef: orderID,
	}
	if err := s.store.CreatePending(p, &debit); err != nil {
		return nil, err
	}

	resp, err := s.transfer.Transfer(ctx, payout.TransferRequest{
		AccountID:   user.PayoutAccountID,
		AmountCents: amount,
		Currency:    currency,
		OrderID:     orderID,
	})
	if err != nil {
		log.Printf("[payout] transfer failed for %s, compensating debit: %v", orderID, err)
		refund := models.LedgerEntry{
			UserID:      userID,
			Type:        domain.LedgerWithdrawalReversed,
			AmountCents: amount,
			Currency:    currency,
			ExternalRef: orderID,
		}
		if cerr := s.store.MarkFailedAndRefund(p, &refund); cerr != nil {
			// Worst case: money held back, not lost. Needs manual review.
			log.Printf("[payout] compensation failed for %s: %v", orderID, cerr)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if err := s.store.MarkCompleted(p, resp.TransferID); err != nil {
		log.Printf("[payout] transfer %s sent but completion write failed: %v", resp.TransferID, err)
		return nil, err
	}
	return p, nil
}
