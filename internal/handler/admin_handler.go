package handler

import (
	"log"
	"net/http"
	"strconv"

	"finleybook/internal/models"
	"finleybook/internal/repository"
	"finleybook/internal/service"
	"finleybook/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	merchantRepo   *repository.MerchantRepository
	commissionRepo *repository.CommissionRepository
	settingRepo    *repository.SettingRepository
	userRepo       *repository.UserRepository
	walletRepo     *repository.WalletRepository
	ledgerRepo     *repository.LedgerRepository
	cashback       *service.CashbackService
	reportSvc      *service.ReportService
	uploads        cloudinary.Client
}

func NewAdminHandler(merchantRepo *repository.MerchantRepository, commissionRepo *repository.CommissionRepository, settingRepo *repository.SettingRepository, userRepo *repository.UserRepository, walletRepo *repository.WalletRepository, ledgerRepo *repository.LedgerRepository, cashback *service.CashbackService, reportSvc *service.ReportService, uploads cloudinary.Client) *AdminHandler {
	return &AdminHandler{
		merchantRepo:   merchantRepo,
		commissionRepo: commissionRepo,
		settingRepo:    settingRepo,
		userRepo:       userRepo,
		walletRepo:     walletRepo,
		ledgerRepo:     ledgerRepo,
		cashback:       cashback,
		reportSvc:      reportSvc,
		uploads:        uploads,
	}
}

type merchantRequest struct {
	Slug             string  `json:"slug" binding:"required"`
	Name             string  `json:"name" binding:"required"`
	Category         string  `json:"category"`
	BaseRate         float64 `json:"base_rate"`
	LinkTemplate     string  `json:"link_template" binding:"required"`
	ProductIDPattern string  `json:"product_id_pattern"`
	Featured         bool    `json:"featured"`
	Active           *bool   `json:"active"`
}

func (h *AdminHandler) CreateMerchant(c *gin.Context) {
	var req merchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m := &models.Merchant{
		Slug:             req.Slug,
		Name:             req.Name,
		Category:         req.Category,
		BaseRate:         req.BaseRate,
		LinkTemplate:     req.LinkTemplate,
		ProductIDPattern: req.ProductIDPattern,
		Featured:         req.Featured,
		Active:           true,
	}
	if req.Active != nil {
		m.Active = *req.Active
	}
	if err := h.merchantRepo.Create(m); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "merchant exists or is invalid"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"merchant": m})
}

func (h *AdminHandler) UpdateMerchant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	m, err := h.merchantRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "merchant not found"})
		return
	}
	var req merchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m.Slug = req.Slug
	m.Name = req.Name
	m.Category = req.Category
	m.BaseRate = req.BaseRate
	m.LinkTemplate = req.LinkTemplate
	m.ProductIDPattern = req.ProductIDPattern
	m.Featured = req.Featured
	if req.Active != nil {
		m.Active = *req.Active
	}
	if err := h.merchantRepo.Update(m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"merchant": m})
}

func (h *AdminHandler) DeleteMerchant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.merchantRepo.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) ListMerchants(c *gin.Context) {
	merchants, err := h.merchantRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load merchants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"merchants": merchants})
}

// UploadLogo accepts a multipart image and stores its CDN URL on the merchant.
func (h *AdminHandler) UploadLogo(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	m, err := h.merchantRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "merchant not found"})
		return
	}
	if h.uploads == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()
	url, err := h.uploads.UploadLogo(c.Request.Context(), file, m.Slug)
	if err != nil {
		log.Printf("[admin] logo upload failed merchant=%s: %v", m.Slug, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	m.LogoURL = url
	if err := h.merchantRepo.Update(m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}

func (h *AdminHandler) ListCommissions(c *gin.Context) {
	limit, offset := pagination(c)
	commissions, total, err := h.commissionRepo.List(c.Query("status"), c.Query("network"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load commissions"})
		return
	}
	if commissions == nil {
		commissions = []models.Commission{}
	}
	c.JSON(http.StatusOK, gin.H{"commissions": commissions, "total": total})
}

// MarkPaid records that the network actually paid an approved commission. It
// goes through the same reconciler as a webhook, so only the APPROVED -> PAID
// transition applies; anything else is ignored.
func (h *AdminHandler) MarkPaid(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	commission, err := h.commissionRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "commission not found"})
		return
	}
	ev := service.CommissionEvent{
		Network:      commission.Network,
		ExternalTxID: commission.ExternalTxID,
		MerchantRef:  commission.MerchantRef,
		RawStatus:    "paid",
	}
	outcome, err := h.cashback.Reconcile(c.Request.Context(), ev)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark paid"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

// UploadReport ingests a merchant CSV commission report.
func (h *AdminHandler) UploadReport(c *gin.Context) {
	merchantRef := c.PostForm("merchant_id")
	if merchantRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "merchant_id required"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()
	processed, errored, err := h.reportSvc.ProcessCSV(c.Request.Context(), merchantRef, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable csv"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": processed, "errors": errored})
}

func (h *AdminHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *AdminHandler) SetSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settingRepo.Set(req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save setting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AuditWallet recomputes a user's balances from the ledger and reports any
// drift from the wallet snapshot. Wallet writes share a transaction with
// their ledger entries, so drift here means a bug or manual DB surgery.
func (h *AdminHandler) AuditWallet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID := uint(id)
	wallet, err := h.walletRepo.GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load wallet"})
		return
	}
	pending, err := h.ledgerRepo.SumByTypes(userID, service.PendingLedgerTypes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sum ledger"})
		return
	}
	available, err := h.ledgerRepo.SumByTypes(userID, service.AvailableLedgerTypes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sum ledger"})
		return
	}
	audit := service.AuditWallet(userID, wallet, pending, available)
	if !audit.Consistent {
		log.Printf("[admin] wallet drift user=%d snapshot=(%d,%d) ledger=(%d,%d)",
			userID, audit.PendingCents, audit.AvailableCents, audit.LedgerPendingCents, audit.LedgerAvailableCents)
	}
	c.JSON(http.StatusOK, gin.H{"audit": audit})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)
	users, total, err := h.userRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}
