package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	TierFree = "FREE"
	TierPro  = "PRO"
)

// Click lifecycle. A click becomes CONVERTED when a commission is attributed to it.
const (
	ClickStatusCreated    = "CREATED"
	ClickStatusRedirected = "REDIRECTED"
	ClickStatusConverted  = "CONVERTED"
)

const (
	ClickTypeCashback = "CASHBACK"
	ClickTypeBounty   = "BOUNTY"
	ClickTypeGlitch   = "GLITCH"
)

// Internal commission statuses. Networks report their own vocabulary;
// service.MapNetworkStatus folds it into these four.
const (
	CommissionPending  = "PENDING"
	CommissionApproved = "APPROVED"
	CommissionDeclined = "DECLINED"
	CommissionPaid     = "PAID"
)

// Affiliate sources we ingest commissions from.
const (
	NetworkGeneric           = "generic"
	NetworkCommissionFactory = "commission-factory"
	NetworkCSV               = "csv"
)

// Ledger entry types. Pending bucket: CASHBACK_PENDING (+), CASHBACK_RELEASED (-),
// CASHBACK_REVERSED (-). Available bucket: CASHBACK_CLEARED (+), WITHDRAWAL (-),
// WITHDRAWAL_REVERSED (+).
const (
	LedgerCashbackPending    = "CASHBACK_PENDING"
	LedgerCashbackReleased   = "CASHBACK_RELEASED"
	LedgerCashbackCleared    = "CASHBACK_CLEARED"
	LedgerCashbackReversed   = "CASHBACK_REVERSED"
	LedgerWithdrawal         = "WITHDRAWAL"
	LedgerWithdrawalReversed = "WITHDRAWAL_REVERSED"
)

const (
	PayoutStatusPending   = "PENDING"
	PayoutStatusCompleted = "COMPLETED"
	PayoutStatusFailed    = "FAILED"
)

const (
	PayoutAccountActive     = "active"
	PayoutAccountRestricted = "restricted"
)

// System setting keys (admin-tunable, seeded with defaults).
const (
	SettingMinPayoutCents      = "payout_min_cents"
	SettingFreeMonthlyCapCents = "payout_free_monthly_cap_cents"
	SettingProMonthlyCapCents  = "payout_pro_monthly_cap_cents"
)
