package service

import (
	"finleybook/internal/domain"
	"finleybook/internal/models"
)

// Ledger entry types whose signed sums reproduce each wallet bucket. Entries
// are stored signed, so a plain SUM per bucket must equal the snapshot.
var (
	PendingLedgerTypes = []string{
		domain.LedgerCashbackPending,
		domain.LedgerCashbackReleased,
		domain.LedgerCashbackReversed,
	}
	AvailableLedgerTypes = []string{
		domain.LedgerCashbackCleared,
		domain.LedgerWithdrawal,
		domain.LedgerWithdrawalReversed,
	}
)

// WalletAudit compares a wallet snapshot against the ledger that explains it.
type WalletAudit struct {
	UserID               uint  `json:"user_id"`
	PendingCents         int64 `json:"pending_cents"`
	LedgerPendingCents   int64 `json:"ledger_pending_cents"`
	AvailableCents       int64 `json:"available_cents"`
	LedgerAvailableCents int64 `json:"ledger_available_cents"`
	Consistent           bool  `json:"consistent"`
}

// AuditWallet checks a snapshot against the bucket sums. A nil wallet means
// the user has never earned; it is consistent only with all-zero sums.
func AuditWallet(userID uint, w *models.Wallet, ledgerPending, ledgerAvailable int64) WalletAudit {
	a := WalletAudit{
		UserID:               userID,
		LedgerPendingCents:   ledgerPending,
		LedgerAvailableCents: ledgerAvailable,
	}
	if w != nil {
		a.PendingCents = w.PendingCents
		a.AvailableCents = w.AvailableCents
	}
	a.Consistent = a.PendingCents == ledgerPending && a.AvailableCents == ledgerAvailable
	return a
}
