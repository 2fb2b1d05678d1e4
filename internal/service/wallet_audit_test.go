package service

import (
	"testing"

	"finleybook/internal/domain"
	"finleybook/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAuditWallet_Consistent(t *testing.T) {
	w := &models.Wallet{UserID: 7, PendingCents: 300, AvailableCents: 1200}
	a := AuditWallet(7, w, 300, 1200)
	assert.True(t, a.Consistent)
	assert.Equal(t, int64(300), a.PendingCents)
	assert.Equal(t, int64(1200), a.LedgerAvailableCents)
}

func TestAuditWallet_Drift(t *testing.T) {
	w := &models.Wallet{UserID: 7, PendingCents: 300, AvailableCents: 1150}
	a := AuditWallet(7, w, 300, 1200)
	assert.False(t, a.Consistent)
	assert.Equal(t, int64(1150), a.AvailableCents)
	assert.Equal(t, int64(1200), a.LedgerAvailableCents)
}

func TestAuditWallet_NoWallet(t *testing.T) {
	assert.True(t, AuditWallet(9, nil, 0, 0).Consistent)
	assert.False(t, AuditWallet(9, nil, 100, 0).Consistent)
}

func TestLedgerBucketTypes(t *testing.T) {
	assert.ElementsMatch(t, []string{
		domain.LedgerCashbackPending,
		domain.LedgerCashbackReleased,
		domain.LedgerCashbackReversed,
	}, PendingLedgerTypes)
	assert.ElementsMatch(t, []string{
		domain.LedgerCashbackCleared,
		domain.LedgerWithdrawal,
		domain.LedgerWithdrawalReversed,
	}, AvailableLedgerTypes)
}
