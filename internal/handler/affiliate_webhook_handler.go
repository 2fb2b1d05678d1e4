package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"finleybook/config"
	"finleybook/internal/domain"
	"finleybook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AffiliateWebhookHandler ingests the generic network payload. Networks that
// don't fit this shape get their own handler.
type AffiliateWebhookHandler struct {
	cashback *service.CashbackService
	cfg      *config.WebhookConfig
}

func NewAffiliateWebhookHandler(cashback *service.CashbackService, cfg *config.WebhookConfig) *AffiliateWebhookHandler {
	return &AffiliateWebhookHandler{cashback: cashback, cfg: cfg}
}

type genericWebhookPayload struct {
	Network          string      `json:"network"`
	TransactionID    string      `json:"transaction_id"`
	ClickID          string      `json:"click_id"`
	UserID           string      `json:"user_id"`
	MerchantID       string      `json:"merchant_id"`
	Status           string      `json:"status"`
	OrderAmount      json.Number `json:"order_amount"`
	CommissionAmount json.Number `json:"commission_amount"`
	Currency         string      `json:"currency"`
	EventTime        string      `json:"event_time"`
}

// Handle processes POST /webhooks/affiliate. Payloads that don't carry the
// discriminating network, a transaction id and a status are rejected
// outright; a recognizable event for an unknown click is acked and recorded,
// never bounced back to the network.
func (h *AffiliateWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if h.cfg.GenericSecret != "" {
		sig := c.GetHeader("X-Webhook-Signature")
		if !verifySignature(body, sig, h.cfg.GenericSecret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}
	var payload genericWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if payload.TransactionID == "" || payload.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "network, transaction_id and status required"})
		return
	}
	network := payload.Network
	if network == "" {
		network = domain.NetworkGeneric
	}

	occurred, _ := time.Parse(time.RFC3339, payload.EventTime)
	ev := service.CommissionEvent{
		Network:         network,
		ExternalTxID:    payload.TransactionID,
		ClickRef:        payload.ClickID,
		UserRef:         payload.UserID,
		MerchantRef:     payload.MerchantID,
		RawStatus:       payload.Status,
		OrderCents:      amountCents(payload.OrderAmount),
		CommissionCents: amountCents(payload.CommissionAmount),
		Currency:        payload.Currency,
		OccurredAt:      occurred,
	}
	h.reconcileAndRespond(c, ev)
}

func (h *AffiliateWebhookHandler) reconcileAndRespond(c *gin.Context, ev service.CommissionEvent) {
	outcome, err := h.cashback.Reconcile(c.Request.Context(), ev)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true, "outcome": outcome})
	case errors.Is(err, service.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized status"})
	case errors.Is(err, service.ErrReconcileBusy):
		// Tell the network to redeliver; the concurrent delivery wins.
		c.JSON(http.StatusConflict, gin.H{"error": "retry later"})
	case errors.Is(err, service.ErrNoAttribution):
		// Acked so the network stops retrying something we can never place.
		log.Printf("[webhook] unattributable event tx=%s: %v", ev.ExternalTxID, err)
		c.JSON(http.StatusOK, gin.H{"received": true, "outcome": "unattributable"})
	default:
		log.Printf("[webhook] reconcile failed tx=%s: %v", ev.ExternalTxID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
	}
}

func verifySignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

// amountCents converts a decimal money string to cents without float math,
// rounding half away from zero so negative adjustments keep their magnitude.
func amountCents(n json.Number) int64 {
	if n.String() == "" {
		return 0
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
