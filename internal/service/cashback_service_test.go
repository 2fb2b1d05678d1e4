package service

import (
	"context"
	"testing"
	"time"

	"finleybook/config"
	"finleybook/internal/domain"
	"finleybook/internal/models"
	"finleybook/pkg/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCashbackStore applies plans to in-memory state the same way the DB
// store does, so tests can assert on resulting balances.
type fakeCashbackStore struct {
	commissions map[string]*models.Commission
	clicks      map[string]*models.ClickEvent
	users       map[uint]*models.User
	entries     []models.LedgerEntry
	pending     int64
	available   int64
	lifetime    int64
	nextID      uint
}

func newFakeStore() *fakeCashbackStore {
	return &fakeCashbackStore{
		commissions: map[string]*models.Commission{},
		clicks:      map[string]*models.ClickEvent{},
		users:       map[uint]*models.User{},
		nextID:      1,
	}
}

func (f *fakeCashbackStore) GetCommission(key string) (*models.Commission, error) {
	if c, ok := f.commissions[key]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCashbackStore) GetClickByPublicID(clickID string) (*models.ClickEvent, error) {
	if c, ok := f.clicks[clickID]; ok {
		return c, nil
	}
	return nil, nil
}

func (f *fakeCashbackStore) GetUser(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, nil
}

func (f *fakeCashbackStore) Apply(_ context.Context, plan *ReconcilePlan) error {
	if plan.Create {
		plan.Commission.ID = f.nextID
		f.nextID++
		f.commissions[plan.Commission.ExternalKey] = plan.Commission
	} else {
		for _, c := range f.commissions {
			if c.ID == plan.CommissionID {
				c.Status = plan.NewStatus
				c.NetworkStatus = plan.NewNetworkStatus
			}
		}
	}
	f.entries = append(f.entries, plan.Entries...)
	f.pending += plan.Delta.Pending
	f.available += plan.Delta.Available
	f.lifetime += plan.Delta.Lifetime
	if plan.ConvertClickID != 0 {
		for _, c := range f.clicks {
			if c.ID == plan.ConvertClickID {
				c.Status = domain.ClickStatusConverted
			}
		}
	}
	return nil
}

func newTestService(store *fakeCashbackStore) *CashbackService {
	cfg := &config.CashbackConfig{FreeShare: 0.5, ProShare: 1.0}
	return NewCashbackService(store, lock.NewLocalLock(), cfg)
}

func seedUserAndClick(store *fakeCashbackStore, tier string) {
	store.users[7] = &models.User{ID: 7, Tier: tier}
	store.clicks["clk_abc"] = &models.ClickEvent{ID: 3, ClickID: "clk_abc", UserID: 7, Status: domain.ClickStatusRedirected}
}

func pendingEvent() CommissionEvent {
	return CommissionEvent{
		Network:         domain.NetworkGeneric,
		ExternalTxID:    "tx100",
		ClickRef:        "clk_abc",
		RawStatus:       "pending",
		OrderCents:      10000,
		CommissionCents: 400,
		Currency:        "USD",
		OccurredAt:      time.Now(),
	}
}

func TestReconcile_CreatesPendingCommission(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierFree)
	svc := newTestService(store)

	outcome, err := svc.Reconcile(context.Background(), pendingEvent())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	c := store.commissions["generic_tx100"]
	require.NotNil(t, c)
	assert.Equal(t, domain.CommissionPending, c.Status)
	assert.Equal(t, int64(200), c.UserShareCents) // 50% free tier
	assert.Equal(t, int64(200), store.pending)
	assert.Equal(t, int64(0), store.available)
	assert.Equal(t, domain.ClickStatusConverted, store.clicks["clk_abc"].Status)
}

func TestReconcile_ProTierKeepsFullCommission(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierPro)
	svc := newTestService(store)

	_, err := svc.Reconcile(context.Background(), pendingEvent())
	require.NoError(t, err)
	assert.Equal(t, int64(400), store.commissions["generic_tx100"].UserShareCents)
	assert.Equal(t, int64(400), store.pending)
}

func TestReconcile_RedeliveryIsIdempotent(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierFree)
	svc := newTestService(store)

	_, err := svc.Reconcile(context.Background(), pendingEvent())
	require.NoError(t, err)
	outcome, err := svc.Reconcile(context.Background(), pendingEvent())
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Equal(t, int64(200), store.pending)
	assert.Len(t, store.entries, 1)
}

func TestReconcile_PendingToApprovedConservesShare(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierFree)
	svc := newTestService(store)

	_, err := svc.Reconcile(context.Background(), pendingEvent())
	require.NoError(t, err)

	ev := pendingEvent()
	ev.RawStatus = "approved"
	outcome, err := svc.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)

	assert.Equal(t, int64(0), store.pending)
	assert.Equal(t, int64(200), store.available)
	assert.Equal(t, int64(200), store.lifetime)
	assert.Equal(t, domain.CommissionApproved, store.commissions["generic_tx100"].Status)

	// Ledger explains the move: pending in, released out, cleared in.
	types := []string{}
	for _, e := range store.entries {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{
		domain.LedgerCashbackPending,
		domain.LedgerCashbackReleased,
		domain.LedgerCashbackCleared,
	}, types)
}

func TestReconcile_PendingToDeclinedReverses(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierFree)
	svc := newTestService(store)

	_, err := svc.Reconcile(context.Background(), pendingEvent())
	require.NoError(t, err)

	ev := pendingEvent()
	ev.RawStatus = "declined"
	_, err = svc.Reconcile(context.Background(), ev)
	require.NoError(t, err)

	assert.Equal(t, int64(0), store.pending)
	assert.Equal(t, int64(0), store.available)
	assert.Equal(t, int64(0), store.lifetime)
	assert.Equal(t, domain.CommissionDeclined, store.commissions["generic_tx100"].Status)
}

func TestReconcile_ApprovedToPaidIsStatusOnly(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierFree)
	svc := newTestService(store)

	ev := pendingEvent()
	ev.RawStatus = "approved"
	_, err := svc.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	availableBefore := store.available

	ev.RawStatus = "paid"
	outcome, err := svc.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, availableBefore, store.available)
	assert.Equal(t, domain.CommissionPaid, store.commissions["generic_tx100"].Status)
}

func TestReconcile_IllegalTransitionIgnored(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierFree)
	svc := newTestService(store)

	ev := pendingEvent()
	ev.RawStatus = "declined"
	_, err := svc.Reconcile(context.Background(), ev)
	require.NoError(t, err)

	// A declined commission cannot come back to life.
	ev.RawStatus = "approved"
	outcome, err := svc.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Equal(t, int64(0), store.available)
	assert.Equal(t, domain.CommissionDeclined, store.commissions["generic_tx100"].Status)
}

func TestReconcile_AttributionMissWithUserRef(t *testing.T) {
	store := newFakeStore()
	store.users[7] = &models.User{ID: 7, Tier: domain.TierFree}
	svc := newTestService(store)

	ev := pendingEvent()
	ev.ClickRef = "clk_never_seen"
	ev.UserRef = "user_7"
	outcome, err := svc.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	c := store.commissions["generic_tx100"]
	require.NotNil(t, c)
	assert.Equal(t, uint(7), c.UserID)
	assert.Nil(t, c.ClickID)
}

func TestReconcile_NoAttributionRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	ev := pendingEvent()
	ev.ClickRef = ""
	ev.UserRef = ""
	_, err := svc.Reconcile(context.Background(), ev)
	assert.ErrorIs(t, err, ErrNoAttribution)
	assert.Empty(t, store.commissions)
}

func TestReconcile_UnknownStatusRejected(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierFree)
	svc := newTestService(store)

	ev := pendingEvent()
	ev.RawStatus = "maybe"
	_, err := svc.Reconcile(context.Background(), ev)
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestReconcile_AbsentApprovedCreditsDirectly(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierFree)
	svc := newTestService(store)

	ev := pendingEvent()
	ev.RawStatus = "approved"
	_, err := svc.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.pending)
	assert.Equal(t, int64(200), store.available)
	assert.Equal(t, int64(200), store.lifetime)
}

func TestMapNetworkStatus_CommissionFactoryVocabulary(t *testing.T) {
	cases := map[string]string{
		"Pending":  domain.CommissionPending,
		"Approved": domain.CommissionApproved,
		"Void":     domain.CommissionDeclined,
		"Declined": domain.CommissionDeclined,
		"Paid":     domain.CommissionPaid,
	}
	for raw, want := range cases {
		got, ok := MapNetworkStatus(domain.NetworkCommissionFactory, raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got)
	}
	_, ok := MapNetworkStatus(domain.NetworkCommissionFactory, "confirmed")
	assert.False(t, ok, "CF does not use generic vocabulary")
}

func TestExternalKey_PerNetworkFormat(t *testing.T) {
	assert.Equal(t, "cf_99", CommissionEvent{Network: domain.NetworkCommissionFactory, ExternalTxID: "99"}.ExternalKey())
	assert.Equal(t, "csv_amazon_abc", CommissionEvent{Network: domain.NetworkCSV, MerchantRef: "amazon", ExternalTxID: "abc"}.ExternalKey())
	assert.Equal(t, "generic_tx1", CommissionEvent{Network: domain.NetworkGeneric, ExternalTxID: "tx1"}.ExternalKey())
}

func TestUserShareCents_RoundsDown(t *testing.T) {
	cfg := &config.CashbackConfig{FreeShare: 0.5, ProShare: 1.0}
	assert.Equal(t, int64(0), UserShareCents(1, domain.TierFree, cfg))
	assert.Equal(t, int64(1), UserShareCents(3, domain.TierFree, cfg))
	assert.Equal(t, int64(3), UserShareCents(3, domain.TierPro, cfg))
}
