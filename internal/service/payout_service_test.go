package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"finleybook/config"
	"finleybook/internal/domain"
	"finleybook/internal/models"
	"finleybook/pkg/payout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayoutStore struct {
	user         *models.User
	wallet       *models.Wallet
	monthToDate  int64
	payouts      []*models.Payout
	entries      []models.LedgerEntry
	completedIDs []string
	failed       int
}

func (f *fakePayoutStore) GetUser(uint) (*models.User, error)     { return f.user, nil }
func (f *fakePayoutStore) GetWallet(uint) (*models.Wallet, error) { return f.wallet, nil }
func (f *fakePayoutStore) SumPayoutsSince(uint, time.Time) (int64, error) {
	return f.monthToDate, nil
}

func (f *fakePayoutStore) CreatePending(p *models.Payout, e *models.LedgerEntry) error {
	f.payouts = append(f.payouts, p)
	f.entries = append(f.entries, *e)
	f.wallet.AvailableCents -= p.AmountCents
	return nil
}

func (f *fakePayoutStore) MarkCompleted(p *models.Payout, transferID string) error {
	p.Status = domain.PayoutStatusCompleted
	p.TransferID = transferID
	f.completedIDs = append(f.completedIDs, transferID)
	return nil
}

func (f *fakePayoutStore) MarkFailedAndRefund(p *models.Payout, e *models.LedgerEntry) error {
	p.Status = domain.PayoutStatusFailed
	f.entries = append(f.entries, *e)
	f.wallet.AvailableCents += p.AmountCents
	f.failed++
	return nil
}

type fakeTransferer struct {
	calls int
	err   error
}

func (f *fakeTransferer) Transfer(_ context.Context, req payout.TransferRequest) (*payout.TransferResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &payout.TransferResponse{TransferID: "tr_1", OrderID: req.OrderID, Status: "paid"}, nil
}

type staticSettings struct{}

func (staticSettings) GetInt64(_ string, fallback int64) int64 { return fallback }

func payoutConfig() *config.PayoutConfig {
	return &config.PayoutConfig{
		MinCents:            1000,
		FreeMonthlyCapCents: 10000,
		ProMonthlyCapCents:  100000,
	}
}

func eligibleStore() *fakePayoutStore {
	return &fakePayoutStore{
		user: &models.User{
			ID:                  1,
			Tier:                domain.TierFree,
			PayoutAccountID:     "acct_1",
			PayoutAccountStatus: domain.PayoutAccountActive,
		},
		wallet: &models.Wallet{UserID: 1, AvailableCents: 5000, Currency: "USD"},
	}
}

func TestRequestPayout_Success(t *testing.T) {
	store := eligibleStore()
	transfer := &fakeTransferer{}
	svc := NewPayoutService(store, transfer, staticSettings{}, payoutConfig())

	p, err := svc.RequestPayout(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusCompleted, p.Status)
	assert.Equal(t, "tr_1", p.TransferID)
	assert.Equal(t, int64(5000), p.AmountCents)
	assert.Equal(t, int64(0), store.wallet.AvailableCents)
	assert.Equal(t, 1, transfer.calls)

	require.Len(t, store.entries, 1)
	assert.Equal(t, domain.LedgerWithdrawal, store.entries[0].Type)
	assert.Equal(t, int64(-5000), store.entries[0].AmountCents)
}

func TestRequestPayout_NoAccount(t *testing.T) {
	store := eligibleStore()
	store.user.PayoutAccountID = ""
	transfer := &fakeTransferer{}
	svc := NewPayoutService(store, transfer, staticSettings{}, payoutConfig())

	_, err := svc.RequestPayout(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoPayoutAccount)
	assert.Zero(t, transfer.calls)
	assert.Empty(t, store.payouts)
	assert.Equal(t, int64(5000), store.wallet.AvailableCents)
}

func TestRequestPayout_BelowMinimum(t *testing.T) {
	store := eligibleStore()
	store.wallet.AvailableCents = 999
	transfer := &fakeTransferer{}
	svc := NewPayoutService(store, transfer, staticSettings{}, payoutConfig())

	_, err := svc.RequestPayout(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBelowMinimum)
	assert.Zero(t, transfer.calls)
}

func TestRequestPayout_ExceedsMonthlyCap(t *testing.T) {
	store := eligibleStore()
	store.monthToDate = 9000 // free cap 10000, balance 5000 would overflow
	transfer := &fakeTransferer{}
	svc := NewPayoutService(store, transfer, staticSettings{}, payoutConfig())

	_, err := svc.RequestPayout(context.Background(), 1)
	assert.ErrorIs(t, err, ErrExceedsCap)
	assert.Zero(t, transfer.calls)
}

func TestRequestPayout_ProCapIsHigher(t *testing.T) {
	store := eligibleStore()
	store.user.Tier = domain.TierPro
	store.monthToDate = 9000
	transfer := &fakeTransferer{}
	svc := NewPayoutService(store, transfer, staticSettings{}, payoutConfig())

	_, err := svc.RequestPayout(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, transfer.calls)
}

func TestRequestPayout_RestrictedAccount(t *testing.T) {
	store := eligibleStore()
	store.user.PayoutAccountStatus = domain.PayoutAccountRestricted
	transfer := &fakeTransferer{}
	svc := NewPayoutService(store, transfer, staticSettings{}, payoutConfig())

	_, err := svc.RequestPayout(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAccountRestricted)
	assert.Zero(t, transfer.calls)
	assert.Empty(t, store.payouts)
}

func TestRequestPayout_TransferFailureRefunds(t *testing.T) {
	store := eligibleStore()
	transfer := &fakeTransferer{err: errors.New("provider down")}
	svc := NewPayoutService(store, transfer, staticSettings{}, payoutConfig())

	_, err := svc.RequestPayout(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTransferFailed)

	// Debit compensated, payout failed, ledger shows both movements.
	assert.Equal(t, int64(5000), store.wallet.AvailableCents)
	assert.Equal(t, 1, store.failed)
	require.Len(t, store.entries, 2)
	assert.Equal(t, domain.LedgerWithdrawal, store.entries[0].Type)
	assert.Equal(t, domain.LedgerWithdrawalReversed, store.entries[1].Type)
	assert.Equal(t, int64(5000), store.entries[1].AmountCents)
}
