package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"finleybook/config"
	"finleybook/internal/domain"
	"finleybook/internal/models"
	"finleybook/pkg/lock"

	"github.com/shopspring/decimal"
)

var (
	ErrBadEvent      = errors.New("commission event missing network or transaction id")
	ErrUnknownStatus = errors.New("unrecognized network status")
	ErrNoAttribution = errors.New("no user attributable to commission event")
	ErrReconcileBusy = errors.New("reconciliation in progress for this transaction")
)

// Reconcile outcomes.
const (
	OutcomeCreated   = "created"
	OutcomeUpdated   = "updated"
	OutcomeUnchanged = "unchanged"
	OutcomeIgnored   = "ignored"
)

// CommissionEvent is a webhook or CSV row normalized into one shape. All
// ingestion paths build one of these and hand it to CashbackService.Reconcile.
type CommissionEvent struct {
	Network         string
	ExternalTxID    string
	ClickRef        string // public click id embedded in the outbound link
	UserRef         string // user reference carried by the network, if any
	MerchantRef     string
	RawStatus       string
	OrderCents      int64
	CommissionCents int64
	Currency        string
	OccurredAt      time.Time
}

// ExternalKey derives the stable idempotency key for this event. One network
// transaction id maps to exactly one Commission row through this key.
func (e CommissionEvent) ExternalKey() string {
	switch e.Network {
	case domain.NetworkCommissionFactory:
		return "cf_" + e.ExternalTxID
	case domain.NetworkCSV:
		return fmt.Sprintf("csv_%s_%s", e.MerchantRef, e.ExternalTxID)
	default:
		return e.Network + "_" + e.ExternalTxID
	}
}

// MapNetworkStatus folds a network's status vocabulary into the internal
// enum. Unknown vocabulary is rejected, not guessed.
func MapNetworkStatus(network, raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if network == domain.NetworkCommissionFactory {
		switch s {
		case "pending":
			return domain.CommissionPending, true
		case "approved":
			return domain.CommissionApproved, true
		case "void", "declined":
			return domain.CommissionDeclined, true
		case "paid":
			return domain.CommissionPaid, true
		}
		return "", false
	}
	switch s {
	case "pending":
		return domain.CommissionPending, true
	case "approved", "confirmed":
		return domain.CommissionApproved, true
	case "declined", "rejected", "void":
		return domain.CommissionDeclined, true
	case "paid":
		return domain.CommissionPaid, true
	}
	return "", false
}

// UserShareCents computes the user's cut of a commission. This is the one
// canonical rule: PRO keeps the configured pro share (default 100%), everyone
// else the free share (default 50%). Rounded down so we never overpay.
func UserShareCents(commissionCents int64, tier string, cfg *config.CashbackConfig) int64 {
	share := cfg.FreeShare
	if tier == domain.TierPro {
		share = cfg.ProShare
	}
	return decimal.NewFromInt(commissionCents).
		Mul(decimal.NewFromFloat(share)).
		RoundFloor(0).
		IntPart()
}

// WalletDelta is the net change to a wallet snapshot, in cents.
type WalletDelta struct {
	Pending   int64
	Available int64
	Lifetime  int64
}

// ReconcilePlan is the full effect of one commission event: the commission
// row to create or update, the ledger entries that explain the balance
// change, and the atomic wallet increments. The store applies the whole plan
// in a single DB transaction.
type ReconcilePlan struct {
	Create           bool
	Commission       *models.Commission // desired row when Create
	CommissionID     uint               // row to update otherwise
	NewStatus        string
	NewNetworkStatus string
	UserID           uint
	Delta            WalletDelta
	Entries          []models.LedgerEntry
	ConvertClickID   uint // click_events row to mark CONVERTED; 0 = none
	Currency         string
}

// CashbackStore is the persistence surface the reconciler needs. Lookups
// return (nil, nil) when the row is absent.
type CashbackStore interface {
	GetCommission(externalKey string) (*models.Commission, error)
	GetClickByPublicID(clickID string) (*models.ClickEvent, error)
	GetUser(id uint) (*models.User, error)
	Apply(ctx context.Context, plan *ReconcilePlan) error
}

// CashbackService turns commission events into ledger and wallet state.
type CashbackService struct {
	store  CashbackStore
	locker lock.Locker
	cfg    *config.CashbackConfig
}

func NewCashbackService(store CashbackStore, locker lock.Locker, cfg *config.CashbackConfig) *CashbackService {
	return &CashbackService{store: store, locker: locker, cfg: cfg}
}

// Reconcile processes one normalized commission event. Redelivery of an
// unchanged event is a no-op beyond the initial create. Attribution misses
// (unknown click ref) are recorded with a warning, not rejected.
func (s *CashbackService) Reconcile(ctx context.Context, ev CommissionEvent) (string, error) {
	if ev.Network == "" || ev.ExternalTxID == "" {
		return "", ErrBadEvent
	}
	status, ok := MapNetworkStatus(ev.Network, ev.RawStatus)
	if !ok {
		return "", fmt.Errorf("%w: network=%s status=%q", ErrUnknownStatus, ev.Network, ev.RawStatus)
	}
	key := ev.ExternalKey()

	acquired, err := s.locker.Acquire(ctx, "reconcile:"+key, 10*time.Second)
	if err != nil {
		// A lock backend outage must not drop commission events; proceed and
		// rely on the status comparison to bound double application.
		log.Printf("[cashback] lock acquire failed for %s: %v (continuing unlocked)", key, err)
	} else if !acquired {
		return "", ErrReconcileBusy
	} else {
		defer func() { _ = s.locker.Release(ctx, "reconcile:"+key) }()
	}

	existing, err := s.store.GetCommission(key)
	if err != nil {
		return "", err
	}

	var click *models.ClickEvent
	if ev.ClickRef != "" {
		if click, err = s.store.GetClickByPublicID(ev.ClickRef); err != nil {
			return "", err
		}
	}

	userID, err := s.resolveUser(existing, click, ev)
	if err != nil {
		return "", err
	}
	if existing == nil && click == nil {
		log.Printf("[cashback] attribution miss: no click for ref=%q key=%s, recording anyway", ev.ClickRef, key)
	}

	shareCents := int64(0)
	if existing == nil {
		user, err := s.store.GetUser(userID)
		if err != nil {
			return "", err
		}
		if user == nil {
			return "", fmt.Errorf("%w: user %d not found", ErrNoAttribution, userID)
		}
		shareCents = UserShareCents(ev.CommissionCents, user.Tier, s.cfg)
	}

	var clickRowID uint
	if click != nil {
		clickRowID = click.ID
	}
	plan, outcome := PlanTransition(existing, status, ev, key, userID, shareCents, clickRowID)
	if plan != nil {
		if err := s.store.Apply(ctx, plan); err != nil {
			return "", err
		}
	}
	log.Printf("[cashback] %s key=%s status=%s user=%d share=%d", outcome, key, status, userID, shareCents)
	return outcome, nil
}

// resolveUser finds whose wallet the event belongs to: the existing row wins,
// then the attributed click, then the network's own user reference.
func (s *CashbackService) resolveUser(existing *models.Commission, click *models.ClickEvent, ev CommissionEvent) (uint, error) {
	if existing != nil {
		return existing.UserID, nil
	}
	if click != nil {
		return click.UserID, nil
	}
	ref := strings.TrimPrefix(ev.UserRef, "user_")
	if ref != "" {
		if id, err := strconv.ParseUint(ref, 10, 32); err == nil && id > 0 {
			return uint(id), nil
		}
	}
	return 0, fmt.Errorf("%w: click_ref=%q user_ref=%q", ErrNoAttribution, ev.ClickRef, ev.UserRef)
}

// PlanTransition is the reconciliation state machine, pure so it can be
// tested exhaustively. It returns a nil plan when there is nothing to write.
//
//	absent          + PENDING  -> create, pending += share
//	absent          + APPROVED -> create, available/lifetime += share
//	absent          + DECLINED -> create, no wallet effect
//	absent          + PAID     -> create as PAID, available/lifetime += share
//	PENDING         -> APPROVED: pending -= share, available/lifetime += share
//	PENDING         -> DECLINED: pending -= share
//	APPROVED        -> PAID:     status only
//	same -> same:    no-op (idempotent redelivery)
//	anything else:   ignored with a warning
func PlanTransition(existing *models.Commission, incoming string, ev CommissionEvent, key string, userID uint, shareCents int64, clickRowID uint) (*ReconcilePlan, string) {
	currency := ev.Currency
	if currency == "" {
		currency = "USD"
	}

	if existing == nil {
		row := &models.Commission{
			ExternalKey:     key,
			Network:         ev.Network,
			ExternalTxID:    ev.ExternalTxID,
			UserID:          userID,
			MerchantRef:     ev.MerchantRef,
			NetworkStatus:   ev.RawStatus,
			Status:          incoming,
			OrderCents:      ev.OrderCents,
			CommissionCents: ev.CommissionCents,
			UserShareCents:  shareCents,
			Currency:        currency,
			OccurredAt:      ev.OccurredAt,
		}
		if clickRowID != 0 {
			id := clickRowID
			row.ClickID = &id
		}
		plan := &ReconcilePlan{
			Create:         true,
			Commission:     row,
			UserID:         userID,
			ConvertClickID: clickRowID,
			Currency:       currency,
		}
		switch incoming {
		case domain.CommissionPending:
			plan.Delta = WalletDelta{Pending: shareCents}
			plan.Entries = []models.LedgerEntry{entry(userID, domain.LedgerCashbackPending, shareCents, currency, ev.Network, key)}
		case domain.CommissionApproved, domain.CommissionPaid:
			plan.Delta = WalletDelta{Available: shareCents, Lifetime: shareCents}
			plan.Entries = []models.LedgerEntry{entry(userID, domain.LedgerCashbackCleared, shareCents, currency, ev.Network, key)}
		case domain.CommissionDeclined:
			// Recorded for the audit trail; no balance effect.
		}
		return plan, OutcomeCreated
	}

	if existing.Status == incoming {
		return nil, OutcomeUnchanged
	}

	// Transitions release exactly what was added: the stored share, not a
	// recomputed one, so the pending bucket always nets to zero.
	share := existing.UserShareCents
	plan := &ReconcilePlan{
		CommissionID:     existing.ID,
		NewStatus:        incoming,
		NewNetworkStatus: ev.RawStatus,
		UserID:           existing.UserID,
		Currency:         existing.Currency,
	}
	switch {
	case existing.Status == domain.CommissionPending && incoming == domain.CommissionApproved:
		plan.Delta = WalletDelta{Pending: -share, Available: share, Lifetime: share}
		plan.Entries = []models.LedgerEntry{
			entry(existing.UserID, domain.LedgerCashbackReleased, -share, existing.Currency, existing.Network, existing.ExternalKey),
			entry(existing.UserID, domain.LedgerCashbackCleared, share, existing.Currency, existing.Network, existing.ExternalKey),
		}
	case existing.Status == domain.CommissionPending && incoming == domain.CommissionDeclined:
		plan.Delta = WalletDelta{Pending: -share}
		plan.Entries = []models.LedgerEntry{
			entry(existing.UserID, domain.LedgerCashbackReversed, -share, existing.Currency, existing.Network, existing.ExternalKey),
		}
	case existing.Status == domain.CommissionApproved && incoming == domain.CommissionPaid:
		// Payout marking; wallet already credited.
	default:
		log.Printf("[cashback] illegal transition %s -> %s for %s, ignoring", existing.Status, incoming, existing.ExternalKey)
		return nil, OutcomeIgnored
	}
	return plan, OutcomeUpdated
}

func entry(userID uint, typ string, amount int64, currency, network, ref string) models.LedgerEntry {
	return models.LedgerEntry{
		UserID:      userID,
		Type:        typ,
		AmountCents: amount,
		Currency:    currency,
		Network:     network,
		ExternalRef: ref,
	}
}
