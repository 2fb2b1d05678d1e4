package handler

import (
	"net/http"
	"strconv"

	"finleybook/internal/domain"
	"finleybook/internal/middleware"
	"finleybook/internal/models"
	"finleybook/internal/repository"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletRepo     *repository.WalletRepository
	ledgerRepo     *repository.LedgerRepository
	clickRepo      *repository.ClickRepository
	payoutRepo     *repository.PayoutRepository
	userRepo       *repository.UserRepository
	commissionRepo *repository.CommissionRepository
}

func NewWalletHandler(walletRepo *repository.WalletRepository, ledgerRepo *repository.LedgerRepository, clickRepo *repository.ClickRepository, payoutRepo *repository.PayoutRepository, userRepo *repository.UserRepository, commissionRepo *repository.CommissionRepository) *WalletHandler {
	return &WalletHandler{walletRepo: walletRepo, ledgerRepo: ledgerRepo, clickRepo: clickRepo, payoutRepo: payoutRepo, userRepo: userRepo, commissionRepo: commissionRepo}
}

// GetWallet returns the balance snapshot, creating an empty wallet on first
// read so new accounts see zeros instead of a 404.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID := middleware.GetUserID(c)
	wallet, err := h.walletRepo.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load wallet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

func (h *WalletHandler) GetLedger(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	entries, total, err := h.ledgerRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load ledger"})
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": total})
}

func (h *WalletHandler) GetClicks(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	clicks, total, err := h.clickRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load clicks"})
		return
	}
	if clicks == nil {
		clicks = []models.ClickEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"clicks": clicks, "total": total})
}

// GetCommissions lists the user's tracked purchases with their statuses, so
// they can see where each pending or cleared amount came from.
func (h *WalletHandler) GetCommissions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	commissions, total, err := h.commissionRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load commissions"})
		return
	}
	if commissions == nil {
		commissions = []models.Commission{}
	}
	c.JSON(http.StatusOK, gin.H{"commissions": commissions, "total": total})
}

func (h *WalletHandler) GetPayouts(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	payouts, total, err := h.payoutRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load payouts"})
		return
	}
	if payouts == nil {
		payouts = []models.Payout{}
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts, "total": total})
}

// ConnectPayoutAccount stores the processor account id for the user. The
// account id comes back from the processor's hosted onboarding flow.
func (h *WalletHandler) ConnectPayoutAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		AccountID string `json:"account_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id required"})
		return
	}
	if err := h.userRepo.UpdatePayoutAccount(userID, req.AccountID, domain.PayoutAccountActive); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not connect account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
